package linkedin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"smart-hire-be/pkg/llm"
)

const applyEmail = "smarthire221@gmail.com"

// Composer builds the post text, preferring a model-written version and
// falling back to the structured template when the model is unavailable.
type Composer struct {
	provider llm.LLMProvider
	now      func() time.Time
}

func NewComposer(provider llm.LLMProvider) *Composer {
	return &Composer{provider: provider, now: time.Now}
}

// WithClock overrides the timestamp rendered at the bottom of the post.
func (p *Composer) WithClock(now func() time.Time) *Composer {
	p.now = now
	return p
}

// GeneratePostContent renders the recruiting post for a job description.
func (p *Composer) GeneratePostContent(ctx context.Context, description string, count int) (string, error) {
	if p.provider != nil {
		prompt := fmt.Sprintf(
			"Rédige un post LinkedIn de recrutement en français pour cette offre : %q (%d poste(s)).\n"+
				"Structure attendue : titre accrocheur, détails du poste, profil recherché, ce que nous offrons, appel à candidature vers %s.\n"+
				"Inclure des hashtags pertinents (#Recrutement, #EmploiTech, etc.). Réponds uniquement avec le texte du post.",
			description, count, applyEmail,
		)
		content, err := p.provider.Generate(ctx, prompt, llm.WithTemperature(0.7), llm.WithMaxTokens(600))
		if err == nil && strings.TrimSpace(content) != "" {
			return content, nil
		}
	}
	return p.template(description, count), nil
}

var (
	postYearsRe = regexp.MustCompile(`(\d+)\+?\s*ans`)
	postSkillRe = regexp.MustCompile(`[a-zA-ZÀ-ÿ0-9+#]+`)
)

var postStopWords = map[string]bool{
	"recherche": true, "cherche": true, "besoin": true, "trouver": true, "recruter": true,
	"pour": true, "avec": true, "dans": true, "une": true, "des": true, "les": true,
	"ans": true, "expérience": true, "senior": true, "junior": true, "confirmé": true,
	"candidat": true, "candidats": true, "profil": true, "poste": true,
}

// template is the deterministic offline rendition of the post.
func (p *Composer) template(description string, count int) string {
	role := strings.TrimSpace(description)
	if role == "" {
		role = "profil recherché"
	}

	expLine := "- Expérience: à définir (ou junior/confirmé/senior)"
	if m := postYearsRe.FindStringSubmatch(strings.ToLower(description)); m != nil {
		expLine = fmt.Sprintf("- Expérience: %s+ ans", m[1])
	}

	var skills []string
	for _, tok := range postSkillRe.FindAllString(strings.ToLower(description), -1) {
		if len([]rune(tok)) > 2 && !postStopWords[tok] && len(skills) < 6 {
			skills = append(skills, tok)
		}
	}
	skillsBlock := "- Compétences clés à préciser"
	if len(skills) > 0 {
		lines := make([]string, len(skills))
		for i, s := range skills {
			lines[i] = "- " + s
		}
		skillsBlock = strings.Join(lines, "\n")
	}

	subject := role
	if len([]rune(subject)) > 40 {
		subject = string([]rune(subject)[:40])
	}

	return fmt.Sprintf(`🔍 NOUS RECRUTONS: %s (%d poste(s))

📌 DÉTAILS DU POSTE
- Fonction: %s
%s
- Compétences requises:
%s

📊 VOTRE PROFIL
✅ Vous maîtrisez les compétences listées ci-dessus
✅ Vous avez une réelle passion pour votre métier
✅ Vous êtes curieux(se) et en apprentissage continu
✅ Vous aimez le travail en équipe et l'innovation

🎯 CE QUE NOUS OFFRONS
✅ Un environnement de travail moderne et stimulant
✅ Des opportunités de développement et d'évolution
✅ Une équipe talentueuse et motivée
✅ Une rémunération compétitive

👉 INTÉRESSÉ(E) ?
Envoyez votre CV à : %s
Objet : "Candidature - %s"

⏱️ URGENT : Les candidatures sont traitées rapidement
N'attendez pas, postulez dès maintenant ! 🚀

#Recrutement #Emploi #Opportunité #Carrière #SmartHire #Hiring #Jobs

---
🤖 Offre créée par Smart-Hire AI Recruiting System
%s`,
		strings.ToUpper(role), count, role, expLine, skillsBlock,
		applyEmail, subject, p.now().Format("02/01/2006 à 15:04"))
}

// SaveDraft writes the post to a timestamped file and returns its path.
func SaveDraft(dir, content string) (string, error) {
	if dir == "" {
		dir = "data/linkedin_drafts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("post_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
