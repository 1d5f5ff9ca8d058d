// Package dispatcher implements the conversation state machine: every UI
// action token is decoded into a transition that mutates the session and
// produces a reply payload. A transition never propagates a failure; it
// always comes back as an ActionResult the chat surface can render.
package dispatcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/engine/state"
	"smart-hire-be/pkg/store"
)

// SuggestedAction is one clickable follow-up offered to the user. Action
// holds an encoded token that comes back through Dispatch on the next turn.
type SuggestedAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
	Style  string `json:"style"`
}

const (
	StylePrimary   = "primary"
	StyleSecondary = "secondary"
)

// ActionResult is the outcome of one transition.
type ActionResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Actions []SuggestedAction      `json:"actions"`
	Data    map[string]interface{} `json:"data"`
}

func okResult() *ActionResult {
	return &ActionResult{Success: true, Data: map[string]interface{}{}}
}

func failResult(message string) *ActionResult {
	return &ActionResult{Success: false, Message: message, Data: map[string]interface{}{}}
}

// MatchResult is what the candidate matcher reports back.
type MatchResult struct {
	Candidates []store.Candidate
	HasResults bool
	Reason     string
}

// CandidateMatcher scores a candidate pool against a job description.
type CandidateMatcher interface {
	Match(ctx context.Context, description string, pool []store.Candidate, count int) (*MatchResult, error)
}

// InviteSender delivers interview invitations. Configured reports whether
// SMTP credentials are present so the dispatcher can refuse before dialing.
type InviteSender interface {
	Configured() bool
	SendInterviewInvite(ctx context.Context, to, candidateName string, date time.Time, location, duration string) error
}

// ContractRenderer produces the contract artifact and returns its path.
type ContractRenderer interface {
	Render(ctx context.Context, candidate store.Candidate, contractType string, salary int, start time.Time, end *time.Time) (string, error)
}

// SocialPublisher publishes job posts on LinkedIn. SaveDraft keeps a copy of
// the generated content on disk before any publish attempt.
type SocialPublisher interface {
	IsConfigured() bool
	IsAuthenticated() bool
	AuthURL() (string, error)
	GeneratePostContent(ctx context.Context, description string, count int) (string, error)
	SaveDraft(content string) (string, error)
	Publish(ctx context.Context, content string) error
}

// SyncCredentials locate the recruiting mailbox.
type SyncCredentials struct {
	Email      string
	Password   string
	IMAPServer string
}

// SyncSummary is the sync collaborator's report.
type SyncSummary struct {
	Connected       bool
	EmailsFound     int
	CVsProcessed    int
	CVsAdded        int
	CandidatesAdded []store.Candidate
	Errors          []string
}

// EmailSyncer pulls CVs out of the recruiting mailbox into the pool.
type EmailSyncer interface {
	Sync(ctx context.Context, creds SyncCredentials) (*SyncSummary, error)
}

// CandidateDirectory is read access to the full candidate pool.
type CandidateDirectory interface {
	All(ctx context.Context) ([]store.Candidate, error)
	Count(ctx context.Context) (int64, error)
}

// Dispatcher wires the transitions to their collaborators. One instance is
// safe to share across sessions: all conversation state lives in the
// session, the dispatcher itself is immutable after construction.
type Dispatcher struct {
	matcher   CandidateMatcher
	mailer    InviteSender
	renderer  ContractRenderer
	publisher SocialPublisher
	syncer    EmailSyncer
	directory CandidateDirectory

	states        *state.Manager
	logger        *log.Logger
	fallbackCreds SyncCredentials

	// Injectable clock: the canned date suggestions are offsets from "now".
	now func() time.Time
}

func New(
	matcher CandidateMatcher,
	mailer InviteSender,
	renderer ContractRenderer,
	publisher SocialPublisher,
	syncer EmailSyncer,
	directory CandidateDirectory,
	fallbackCreds SyncCredentials,
	logger *log.Logger,
) *Dispatcher {
	return &Dispatcher{
		matcher:       matcher,
		mailer:        mailer,
		renderer:      renderer,
		publisher:     publisher,
		syncer:        syncer,
		directory:     directory,
		states:        state.NewManager(logger),
		logger:        logger,
		fallbackCreds: fallbackCreds,
		now:           time.Now,
	}
}

// WithClock overrides the time source. Used by tests; suggestions encode
// concrete dates so the clock must be controllable.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// DispatchRaw decodes a wire token and dispatches it. Malformed tokens are
// input errors: reported, no state touched.
func (d *Dispatcher) DispatchRaw(ctx context.Context, raw string, session *store.Session) *ActionResult {
	token, err := action.Decode(raw)
	if err != nil {
		d.logger.Printf("[DISPATCH] %s: rejected token %q: %v", session.ID, raw, err)
		res := failResult("❌ Action non reconnue. Que voulez-vous faire ?")
		res.Actions = helpActions()
		return res
	}
	return d.Dispatch(ctx, token, session)
}

// Dispatch runs one transition. It always returns a result object; a panic
// inside a transition is converted into a failure result so the session
// survives the turn.
func (d *Dispatcher) Dispatch(ctx context.Context, token action.Token, session *store.Session) (res *ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("[DISPATCH] %s: panic in %s: %v", session.ID, token.Kind, r)
			res = failResult(fmt.Sprintf("❌ Erreur interne : %v", r))
		}
	}()

	switch token.Kind {
	case action.KindExecuteSearch:
		return d.executeSearch(ctx, session)
	case action.KindNewSearch:
		return d.newSearch(session)
	case action.KindSendInvitations:
		return d.sendInvitations(session)
	case action.KindSetInviteCount:
		return d.setInviteCount(token, session)
	case action.KindSelectCandidate:
		return d.selectCandidate(token, session)
	case action.KindSetDate:
		return d.setDate(token, session)
	case action.KindSetLocation:
		return d.setLocation(ctx, token, session)
	case action.KindSyncNow:
		return d.syncNow(ctx, session)
	case action.KindPublishLinkedInJob:
		return d.publishLinkedInJob(ctx, session)
	case action.KindCustomizePost:
		return d.customizeLinkedInPost(session)
	case action.KindLinkedInLogin:
		return d.linkedInLogin(session)
	case action.KindViewDraft:
		return d.viewDraft(session)
	case action.KindStartContract:
		return d.startContractGeneration(session)
	case action.KindSelectContractCandidate:
		return d.selectContractCandidate(token, session)
	case action.KindResumeContract:
		return d.resumeContract(ctx, token, session)
	case action.KindContractType:
		return d.contractType(token, session)
	case action.KindSetSalary:
		return d.setSalary(token, session)
	case action.KindSetContractStart:
		return d.setContractStart(ctx, token, session)
	case action.KindSetContractEnd:
		return d.setContractEnd(ctx, token, session)
	case action.KindGenerateContractNow:
		return d.generateContractNow(ctx, session)
	case action.KindEnterCandidateName:
		return d.enterCandidateName(session)
	case action.KindCancelCandidateName:
		return d.cancelCandidateEntry(session)
	case action.KindAcknowledge:
		return okResult()
	case action.KindHelp:
		fallthrough
	default:
		return d.help()
	}
}

func (d *Dispatcher) help() *ActionResult {
	res := okResult()
	res.Message = "💡 Voici ce que je peux faire :\n" +
		"- 🔍 Recherche de candidats\n" +
		"- 📧 Invitations d'entretien\n" +
		"- 📄 Génération de contrats\n" +
		"- 📥 Synchronisation des emails\n" +
		"- 🔗 Publication LinkedIn\n" +
		"- 📊 Statistiques"
	res.Actions = []SuggestedAction{
		{Label: "🔍 Commencer une recherche", Action: "search_candidates", Style: StylePrimary},
	}
	return res
}

func helpActions() []SuggestedAction {
	return []SuggestedAction{
		{Label: "💡 Voir l'aide", Action: string(action.KindHelp), Style: StylePrimary},
		{Label: "🔍 Nouvelle recherche", Action: string(action.KindNewSearch), Style: StyleSecondary},
	}
}

// resolveSyncCredentials prefers the environment, then the configured
// fallback. Resolution happens before any connection attempt so missing
// credentials surface as a configuration error, not a network one.
func (d *Dispatcher) resolveSyncCredentials() SyncCredentials {
	creds := SyncCredentials{
		Email:      firstNonEmpty(os.Getenv("SENDER_EMAIL"), os.Getenv("SMTP_SENDER"), d.fallbackCreds.Email),
		Password:   firstNonEmpty(os.Getenv("SENDER_PASSWORD"), os.Getenv("SMTP_PASSWORD"), d.fallbackCreds.Password),
		IMAPServer: firstNonEmpty(os.Getenv("IMAP_SERVER"), d.fallbackCreds.IMAPServer, "imap.gmail.com"),
	}
	return creds
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
