package mailsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"smart-hire-be/pkg/llm"
	"smart-hire-be/pkg/store"
)

// extractTimeout bounds the model call per CV; past it the regex fallback
// takes over.
const extractTimeout = 30 * time.Second

// minCVLength filters out attachments too short to be an actual CV.
const minCVLength = 50

// ExtractText pulls plain text out of a CV attachment. Only PDF and plain
// text are supported; other formats return an empty string.
func ExtractText(content []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
		if err != nil {
			return "", fmt.Errorf("open pdf %s: %w", filename, err)
		}
		textReader, err := reader.GetPlainText()
		if err != nil {
			return "", fmt.Errorf("extract pdf text %s: %w", filename, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(textReader); err != nil {
			return "", fmt.Errorf("read pdf text %s: %w", filename, err)
		}
		return buf.String(), nil
	case ".txt":
		return string(content), nil
	default:
		return "", nil
	}
}

// Extractor turns raw CV text into a structured candidate, asking the model
// first and falling back to pattern matching.
type Extractor struct {
	provider llm.LLMProvider
}

func NewExtractor(provider llm.LLMProvider) *Extractor {
	return &Extractor{provider: provider}
}

type cvFields struct {
	Nom         string   `json:"nom"`
	Prenom      string   `json:"prenom"`
	Email       string   `json:"email"`
	Poste       string   `json:"poste"`
	Experience  int      `json:"experience"`
	Formation   string   `json:"formation"`
	Competences []string `json:"competences"`
	Langues     []string `json:"langues"`
}

// ExtractCandidate parses one CV. The sender address backfills a missing
// email. A nil result means the text was too short to be a CV.
func (e *Extractor) ExtractCandidate(ctx context.Context, cvText, senderEmail string) (*store.Candidate, error) {
	if len(strings.TrimSpace(cvText)) < minCVLength {
		return nil, nil
	}

	if e.provider != nil {
		if cand, err := e.extractWithModel(ctx, cvText); err == nil && cand != nil {
			if cand.Email == "" {
				cand.Email = senderEmail
			}
			return cand, nil
		}
	}
	return e.extractWithPatterns(cvText, senderEmail), nil
}

func (e *Extractor) extractWithModel(ctx context.Context, cvText string) (*store.Candidate, error) {
	llmCtx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`Tu es un expert en analyse de CV. Analyse le CV suivant et extrais les informations principales au format JSON.

CV:
%s

Retourne UNIQUEMENT un JSON valide (sans autre texte) avec cette structure:
{"nom": "Nom de famille", "prenom": "Prénom", "email": "Email si trouvé sinon vide", "poste": "Poste actuel ou dernier titre", "experience": 0, "formation": "Formation principale", "competences": ["liste"], "langues": ["Langue 1"]}

IMPORTANT:
- Si une information n'est pas trouvée, mets une valeur vide ou par défaut
- Pour l'expérience, calcule le nombre d'années (nombre entier)
- Retourne UNIQUEMENT le JSON`, cvText)

	raw, err := e.provider.Generate(llmCtx, prompt, llm.WithTemperature(0.1), llm.WithMaxTokens(1000))
	if err != nil {
		return nil, err
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no json in model output")
	}

	var fields cvFields
	if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("decode cv fields: %w", err)
	}
	return cleanFields(fields), nil
}

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	yearsRe = regexp.MustCompile(`(\d+)\s*(?:ans|years?)`)
	nameRe  = regexp.MustCompile(`^\p{Lu}[\p{L}\-]+\s+\p{Lu}[\p{L}\-]+$`)
)

var skillKeywords = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"django", "flask", "spring", "node", "docker", "kubernetes", "aws", "azure",
	"gcp", "sql", "postgresql", "mysql", "mongodb", "machine learning", "ml",
	"tensorflow", "pytorch", "solidity", "blockchain", "devops", "git",
}

// extractWithPatterns is the offline extraction path: name from the first
// "Firstname Lastname" line, email and years by regex, skills by keyword.
func (e *Extractor) extractWithPatterns(cvText, senderEmail string) *store.Candidate {
	cand := &store.Candidate{
		LastName:  "Non spécifié",
		FirstName: "Non spécifié",
		Email:     senderEmail,
		Title:     "Non spécifié",
		Education: "Non spécifié",
	}

	for _, line := range strings.Split(cvText, "\n")[:minInt(10, strings.Count(cvText, "\n")+1)] {
		line = strings.TrimSpace(line)
		if nameRe.MatchString(line) {
			parts := strings.Fields(line)
			cand.FirstName = parts[0]
			cand.LastName = parts[1]
			break
		}
	}

	if m := emailRe.FindString(cvText); m != "" && cand.Email == "" {
		cand.Email = m
	}
	if m := yearsRe.FindStringSubmatch(strings.ToLower(cvText)); m != nil {
		fmt.Sscanf(m[1], "%d", &cand.Experience)
	}

	lower := strings.ToLower(cvText)
	for _, kw := range skillKeywords {
		if strings.Contains(lower, kw) && len(cand.Skills) < 10 {
			cand.Skills = append(cand.Skills, skillLabel(kw))
		}
	}
	return cand
}

// skillLabel renders a detected keyword the way it appears on a CV.
func skillLabel(kw string) string {
	switch kw {
	case "sql", "ml", "aws", "gcp":
		return strings.ToUpper(kw)
	}
	return strings.ToUpper(kw[:1]) + kw[1:]
}

func cleanFields(f cvFields) *store.Candidate {
	cand := &store.Candidate{
		LastName:   strings.TrimSpace(f.Nom),
		FirstName:  strings.TrimSpace(f.Prenom),
		Email:      strings.TrimSpace(f.Email),
		Title:      strings.TrimSpace(f.Poste),
		Experience: f.Experience,
		Education:  strings.TrimSpace(f.Formation),
		Skills:     f.Competences,
		Languages:  f.Langues,
	}
	if cand.LastName == "" {
		cand.LastName = "Non spécifié"
	}
	if cand.FirstName == "" {
		cand.FirstName = "Non spécifié"
	}
	if cand.Experience < 0 {
		cand.Experience = 0
	}
	return cand
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
