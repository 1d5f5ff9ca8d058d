package composer

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"smart-hire-be/pkg/engine/dispatcher"
	"smart-hire-be/pkg/engine/intent"
	"smart-hire-be/pkg/llm"
	"smart-hire-be/pkg/store"
)

type stubProvider struct {
	reply      string
	err        error
	gotHistory []llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.gotHistory = history
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

type stubDirectory struct {
	pool []store.Candidate
}

func (s *stubDirectory) All(ctx context.Context) ([]store.Candidate, error) { return s.pool, nil }
func (s *stubDirectory) Count(ctx context.Context) (int64, error)           { return int64(len(s.pool)), nil }

type noopMatcher struct{}

func (noopMatcher) Match(ctx context.Context, description string, pool []store.Candidate, count int) (*dispatcher.MatchResult, error) {
	return &dispatcher.MatchResult{}, nil
}

type noopMailer struct{}

func (noopMailer) Configured() bool { return false }
func (noopMailer) SendInterviewInvite(ctx context.Context, to, candidateName string, date time.Time, location, duration string) error {
	return nil
}

type noopRenderer struct{}

func (noopRenderer) Render(ctx context.Context, candidate store.Candidate, contractType string, salary int, start time.Time, end *time.Time) (string, error) {
	return "", errors.New("not configured")
}

type noopPublisher struct{}

func (noopPublisher) IsConfigured() bool       { return false }
func (noopPublisher) IsAuthenticated() bool    { return false }
func (noopPublisher) AuthURL() (string, error) { return "", errors.New("not configured") }
func (noopPublisher) GeneratePostContent(ctx context.Context, description string, count int) (string, error) {
	return "", errors.New("not configured")
}
func (noopPublisher) SaveDraft(content string) (string, error) {
	return "", errors.New("not configured")
}
func (noopPublisher) Publish(ctx context.Context, content string) error {
	return errors.New("not configured")
}

type noopSyncer struct{}

func (noopSyncer) Sync(ctx context.Context, creds dispatcher.SyncCredentials) (*dispatcher.SyncSummary, error) {
	return &dispatcher.SyncSummary{}, nil
}

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func newTestComposer(provider llm.LLMProvider, pool []store.Candidate) *Composer {
	logger := log.New(io.Discard, "", 0)
	dir := &stubDirectory{pool: pool}
	disp := dispatcher.New(noopMatcher{}, noopMailer{}, noopRenderer{}, noopPublisher{}, noopSyncer{}, dir, dispatcher.SyncCredentials{}, logger).
		WithClock(func() time.Time { return fixedNow })
	return New(provider, disp, dir, logger).WithClock(func() time.Time { return fixedNow })
}

func TestProcessMessageFallbackWithoutProvider(t *testing.T) {
	c := newTestComposer(nil, nil)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "Bonjour", session)
	if reply.Intent != intent.Greeting {
		t.Errorf("intent = %q, want %q", reply.Intent, intent.Greeting)
	}
	if reply.Response != fallbackReplies[intent.Greeting] {
		t.Errorf("response = %q, want the greeting fallback", reply.Response)
	}
	if reply.Confidence != intent.MatchedConfidence {
		t.Errorf("confidence = %v", reply.Confidence)
	}
	if len(reply.Actions) == 0 {
		t.Error("greeting should carry suggested actions")
	}
	if !reply.Timestamp.Equal(fixedNow) {
		t.Errorf("timestamp = %v", reply.Timestamp)
	}
}

func TestProcessMessageRecordsHistory(t *testing.T) {
	c := newTestComposer(nil, nil)
	session := store.NewSession("s1", "")

	c.ProcessMessage(context.Background(), "Bonjour", session)
	if len(session.History) != 2 {
		t.Fatalf("history = %d turns, want 2", len(session.History))
	}
	if session.History[0].Role != store.RoleUser || session.History[0].Text != "Bonjour" {
		t.Errorf("first turn = %+v", session.History[0])
	}
	if session.History[1].Role != store.RoleAssistant {
		t.Errorf("second turn role = %q", session.History[1].Role)
	}
}

func TestProcessMessageUsesProviderReply(t *testing.T) {
	provider := &stubProvider{reply: "Avec plaisir, je m'en occupe !"}
	c := newTestComposer(provider, nil)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "Bonjour", session)
	if reply.Response != provider.reply {
		t.Errorf("response = %q, want the provider reply", reply.Response)
	}
	if len(provider.gotHistory) == 0 || provider.gotHistory[0].Role != "system" {
		t.Errorf("history should open with the system prompt, got %+v", provider.gotHistory)
	}
}

func TestProcessMessageProviderErrorServesFallback(t *testing.T) {
	provider := &stubProvider{err: errors.New("model offline")}
	c := newTestComposer(provider, nil)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "Je cherche 3 développeurs Python", session)
	if reply.Response != fallbackReplies[intent.SearchCandidates] {
		t.Errorf("response = %q, want the search fallback", reply.Response)
	}
}

func TestProcessMessageMergesSearchParams(t *testing.T) {
	c := newTestComposer(nil, nil)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "Je cherche 3 développeurs Python", session)
	if reply.Intent != intent.SearchCandidates {
		t.Fatalf("intent = %q", reply.Intent)
	}
	if session.Ctx.NumCandidates == nil || *session.Ctx.NumCandidates != 3 {
		t.Errorf("num candidates = %v, want 3", session.Ctx.NumCandidates)
	}
	if session.Ctx.JobDescription != "Je cherche 3 développeurs Python" {
		t.Errorf("job description = %q", session.Ctx.JobDescription)
	}
	if session.Ctx.LastIntent != intent.SearchCandidates {
		t.Errorf("last intent = %q", session.Ctx.LastIntent)
	}
	if _, ok := reply.Data["search_params"]; !ok {
		t.Error("search reply should carry search_params")
	}
}

func TestProcessMessageContractIntentEntersFlow(t *testing.T) {
	c := newTestComposer(nil, nil)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "génère un contrat CDI", session)
	if reply.Intent != intent.GenerateContract {
		t.Fatalf("intent = %q", reply.Intent)
	}
	// No candidates in memory: the flow asks for a name instead of chatting
	if session.State != store.StateAwaitingCandidateName {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingCandidateName)
	}
	if !session.Ctx.AwaitingCandidateName {
		t.Error("name capture should be armed")
	}
	if session.Ctx.ContractType != "CDI" {
		t.Errorf("contract type = %q, want CDI", session.Ctx.ContractType)
	}
}

func TestProcessMessageArmedNameCaptureIntercepts(t *testing.T) {
	pool := []store.Candidate{
		{ID: "c1", LastName: "Dupont", FirstName: "Jean", Email: "jean.dupont@gmail.com"},
	}
	c := newTestComposer(nil, pool)
	session := store.NewSession("s1", "")
	session.Ctx.AwaitingCandidateName = true

	reply := c.ProcessMessage(context.Background(), "Dupont Jean", session)
	if reply.Intent != intent.GenerateContract {
		t.Errorf("intent = %q", reply.Intent)
	}
	if reply.Confidence != 1.0 {
		t.Errorf("confidence = %v, a direct name answer is not a classification guess", reply.Confidence)
	}
	if !strings.Contains(reply.Response, "Dupont Jean") {
		t.Errorf("response = %q, should name the found candidate", reply.Response)
	}
	if session.State != store.StateChoosingContractType {
		t.Errorf("state = %s, want %s", session.State, store.StateChoosingContractType)
	}
}

func TestProcessMessageStatsCarriesPool(t *testing.T) {
	pool := []store.Candidate{
		{ID: "c1", LastName: "Dupont", FirstName: "Jean"},
		{ID: "c2", LastName: "Martin", FirstName: "Sophie"},
	}
	c := newTestComposer(nil, pool)
	session := store.NewSession("s1", "")

	reply := c.ProcessMessage(context.Background(), "montre moi les statistiques", session)
	if reply.Data["total_candidates"] != int64(2) {
		t.Errorf("total_candidates = %v, want 2", reply.Data["total_candidates"])
	}
	if got, ok := reply.Data["candidates"].([]store.Candidate); !ok || len(got) != 2 {
		t.Errorf("candidates payload = %v", reply.Data["candidates"])
	}
}
