// Package matching scores a candidate pool against a free-text job
// description. An LLM ranks the pool first; a deterministic keyword scorer
// takes over whenever the model is unreachable or answers garbage, so a
// search always terminates with a ranked (possibly empty) list.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/llm"
	"smart-hire-be/pkg/store"
)

// MinimumMatchScore is the relevance floor: candidates scoring below it are
// rejected rather than padded into the result.
const MinimumMatchScore = 30

type Matcher struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

var _ dispatcher.CandidateMatcher = &Matcher{}

func New(provider llm.LLMProvider, logger *log.Logger) *Matcher {
	return &Matcher{provider: provider, logger: logger}
}

type llmSelection struct {
	CandidateNumber int    `json:"candidate_number"`
	MatchScore      int    `json:"match_score"`
	MatchReason     string `json:"match_reason"`
}

type llmRanking struct {
	SelectedCandidates []llmSelection `json:"selected_candidates"`
}

// Match ranks the pool and explains an empty outcome. The reason names how
// many profiles shared at least one keyword so the caller can phrase the
// "no match" reply usefully.
func (m *Matcher) Match(ctx context.Context, description string, pool []store.Candidate, count int) (*dispatcher.MatchResult, error) {
	matched := m.rank(ctx, description, pool, count)

	result := &dispatcher.MatchResult{
		Candidates: matched,
		HasResults: len(matched) > 0,
	}
	if result.HasResults {
		return result, nil
	}

	partial := 0
	words := tokens(description)
	for _, cand := range pool {
		text := strings.ToLower(strings.Join(cand.Skills, " ") + " " + cand.Title)
		for _, w := range words {
			if strings.Contains(text, w) {
				partial++
				break
			}
		}
	}
	if partial == 0 {
		result.Reason = "Aucun profil dans la base ne correspond aux compétences recherchées."
	} else {
		result.Reason = fmt.Sprintf(
			"Bien que %d profil(s) partagent quelques mots-clés, aucun ne correspond suffisamment au besoin spécifique (seuil: %d%%).",
			partial, MinimumMatchScore,
		)
	}
	return result, nil
}

func (m *Matcher) rank(ctx context.Context, description string, pool []store.Candidate, count int) []store.Candidate {
	if m.provider == nil {
		return fallbackMatch(description, pool, count)
	}

	raw, err := m.provider.Generate(ctx, rankingPrompt(description, pool),
		llm.WithTemperature(0.3), llm.WithMaxTokens(500))
	if err != nil {
		m.logger.Printf("[MATCHING] llm ranking failed, using keyword fallback: %v", err)
		return fallbackMatch(description, pool, count)
	}

	var ranking llmRanking
	if err := json.Unmarshal([]byte(extractJSON(raw)), &ranking); err != nil {
		m.logger.Printf("[MATCHING] unparseable ranking, using keyword fallback: %v", err)
		return fallbackMatch(description, pool, count)
	}

	criteria := ExtractCriteria(description)
	var matched []store.Candidate
	for _, sel := range ranking.SelectedCandidates {
		if len(matched) >= count {
			break
		}
		if sel.MatchScore < MinimumMatchScore {
			continue
		}
		idx := sel.CandidateNumber - 1
		if idx < 0 || idx >= len(pool) {
			continue
		}
		cand := pool[idx]
		if !relevant(cand, description, criteria) {
			continue
		}
		cand.MatchScore = sel.MatchScore
		cand.MatchReason = sel.MatchReason
		if cand.MatchReason == "" {
			cand.MatchReason = "Bon profil pour le poste"
		}
		matched = append(matched, cand)
	}

	if len(matched) == 0 {
		return nil
	}
	if len(matched) < count {
		// The model was too strict or hallucinated indices; the keyword
		// scorer gets a chance to complete the list.
		if fb := fallbackMatch(description, pool, count); len(fb) > len(matched) {
			return fb
		}
	}
	return matched
}

func rankingPrompt(description string, pool []store.Candidate) string {
	var b strings.Builder
	for idx, cand := range pool {
		fmt.Fprintf(&b, "Candidat %d:\n", idx+1)
		fmt.Fprintf(&b, "- Nom: %s %s\n", cand.LastName, cand.FirstName)
		fmt.Fprintf(&b, "- Poste: %s\n", cand.Title)
		fmt.Fprintf(&b, "- Expérience: %d ans\n", cand.Experience)
		fmt.Fprintf(&b, "- Compétences: %s\n", strings.Join(cand.Skills, ", "))
		fmt.Fprintf(&b, "- Formation: %s\n", cand.Education)
		fmt.Fprintf(&b, "- Langues: %s\n\n", strings.Join(cand.Languages, ", "))
	}

	return fmt.Sprintf(`Tu es un expert en recrutement. Analyse la description du poste et les CV des candidats.

IMPORTANT:
- Sois TRÈS STRICT dans ton évaluation
- Si AUCUN candidat ne correspond vraiment, retourne une liste VIDE
- Un candidat doit avoir AU MOINS %d%% de compatibilité pour être retourné
- Ne force PAS un matching si les profils ne correspondent pas

Description du poste:
%s

Candidats disponibles:
%s
Pour chaque candidat QUI CORRESPOND RÉELLEMENT (score >= %d%%), fournis son numéro (1-%d), un score de 0 à 100 et une explication courte.

Réponds UNIQUEMENT au format JSON suivant (sans autre texte):
{"selected_candidates": [{"candidate_number": 1, "match_score": 95, "match_reason": "..."}]}

Si aucun candidat pertinent: {"selected_candidates": []}`,
		MinimumMatchScore, description, b.String(), MinimumMatchScore, len(pool))
}

// relevant post-filters an LLM pick against the hard constraints the model
// tends to ignore: experience floor, role presence in the title, and at
// least one technical token in the skills.
func relevant(cand store.Candidate, description string, criteria Criteria) bool {
	if cand.Experience < criteria.MinExperience {
		return false
	}

	lowerDesc := strings.ToLower(description)
	title := strings.ToLower(cand.Title)
	genericRoles := []string{"développeur", "developpeur", "developer", "ingénieur", "ingenieur", "engineer", "médecin", "medecin", "doctor"}

	roleInQuery := false
	roleInTitle := false
	for _, term := range genericRoles {
		if strings.Contains(lowerDesc, term) {
			roleInQuery = true
		}
		if strings.Contains(title, term) {
			roleInTitle = true
		}
	}
	if roleInQuery && !roleInTitle {
		return false
	}

	skillsText := strings.ToLower(strings.Join(cand.Skills, " "))
	var techTokens []string
	for _, t := range tokens(description) {
		generic := false
		for _, g := range genericRoles {
			if t == g {
				generic = true
				break
			}
		}
		if !generic {
			techTokens = append(techTokens, t)
		}
	}
	if len(techTokens) > 0 {
		found := false
		for _, t := range techTokens {
			if strings.Contains(skillsText, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// extractJSON trims any prose the model wraps around the JSON object.
func extractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}
