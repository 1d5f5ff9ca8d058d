package mailsync

import (
	"context"
	"errors"
	"testing"

	"smart-hire-be/pkg/llm"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

const sampleCV = `Jean Dupont
Développeur Python
jean.dupont@gmail.com
6 ans d'expérience en développement backend
Compétences : Python, Django, Docker, SQL, AWS
Formation : Master Informatique`

func TestExtractTextPlainFile(t *testing.T) {
	text, err := ExtractText([]byte("contenu du cv"), "cv.TXT")
	if err != nil {
		t.Fatal(err)
	}
	if text != "contenu du cv" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	text, err := ExtractText([]byte("binary"), "cv.docx")
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("unsupported format should yield empty text, got %q", text)
	}
}

func TestExtractCandidateTooShort(t *testing.T) {
	e := NewExtractor(nil)
	cand, err := e.ExtractCandidate(context.Background(), "trop court", "sender@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if cand != nil {
		t.Errorf("short text should be ignored, got %+v", cand)
	}
}

func TestExtractCandidatePatterns(t *testing.T) {
	e := NewExtractor(nil)
	cand, err := e.ExtractCandidate(context.Background(), sampleCV, "")
	if err != nil {
		t.Fatal(err)
	}
	if cand == nil {
		t.Fatal("expected a candidate")
	}
	if cand.FirstName != "Jean" || cand.LastName != "Dupont" {
		t.Errorf("name = %q %q", cand.FirstName, cand.LastName)
	}
	if cand.Email != "jean.dupont@gmail.com" {
		t.Errorf("email = %q", cand.Email)
	}
	if cand.Experience != 6 {
		t.Errorf("experience = %d, want 6", cand.Experience)
	}
	want := []string{"Python", "Django", "Docker", "AWS", "SQL"}
	if len(cand.Skills) != len(want) {
		t.Fatalf("skills = %v, want %v", cand.Skills, want)
	}
	for i, s := range want {
		if cand.Skills[i] != s {
			t.Errorf("skills[%d] = %q, want %q", i, cand.Skills[i], s)
		}
	}
}

func TestExtractCandidateSenderEmailWins(t *testing.T) {
	e := NewExtractor(nil)
	cand, err := e.ExtractCandidate(context.Background(), sampleCV, "boite.candidature@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if cand.Email != "boite.candidature@example.com" {
		t.Errorf("email = %q, want the sender address", cand.Email)
	}
}

func TestExtractCandidateNoNameLine(t *testing.T) {
	cv := `curriculum vitae
poste recherché : développeur python
contact : candidat@example.com
3 ans d'expérience`

	e := NewExtractor(nil)
	cand, err := e.ExtractCandidate(context.Background(), cv, "")
	if err != nil {
		t.Fatal(err)
	}
	if cand.FirstName != "Non spécifié" || cand.LastName != "Non spécifié" {
		t.Errorf("name = %q %q, want the unspecified defaults", cand.FirstName, cand.LastName)
	}
	if cand.Email != "candidat@example.com" {
		t.Errorf("email = %q", cand.Email)
	}
	if cand.Experience != 3 {
		t.Errorf("experience = %d", cand.Experience)
	}
}

func TestExtractCandidateWithModel(t *testing.T) {
	provider := &stubProvider{
		reply: `{"nom": "Dupont", "prenom": "Jean", "email": "", "poste": "Développeur Python", "experience": 6, "formation": "Master Informatique", "competences": ["Python", "Django"], "langues": ["Français", "Anglais"]}`,
	}
	e := NewExtractor(provider)

	cand, err := e.ExtractCandidate(context.Background(), sampleCV, "sender@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if cand.LastName != "Dupont" || cand.Title != "Développeur Python" {
		t.Errorf("candidate = %+v", cand)
	}
	if cand.Email != "sender@example.com" {
		t.Errorf("missing email should backfill from sender, got %q", cand.Email)
	}
	if len(cand.Languages) != 2 {
		t.Errorf("languages = %v", cand.Languages)
	}
}

func TestExtractCandidateModelFailureFallsBack(t *testing.T) {
	provider := &stubProvider{err: errors.New("model offline")}
	e := NewExtractor(provider)

	cand, err := e.ExtractCandidate(context.Background(), sampleCV, "")
	if err != nil {
		t.Fatal(err)
	}
	if cand == nil || cand.FirstName != "Jean" {
		t.Errorf("pattern fallback should have run, got %+v", cand)
	}
}
