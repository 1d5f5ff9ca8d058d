package store

import (
	"strings"
	"time"
)

// Candidate is a value object copied out of the candidate pool. It never
// shares mutable state with the backing store: matched and selected lists
// hold their own copies.
type Candidate struct {
	ID         string   `json:"id"`
	LastName   string   `json:"nom"`
	FirstName  string   `json:"prenom"`
	Email      string   `json:"email"`
	Title      string   `json:"poste"`
	Experience int      `json:"experience"`
	Skills     []string `json:"competences"`
	Education  string   `json:"formation"`
	Languages  []string `json:"langues"`

	// Annotated by the matcher, zero otherwise.
	MatchScore  int    `json:"match_score,omitempty"`
	MatchReason string `json:"match_reason,omitempty"`
}

// FullName renders "LastName FirstName" the way the recruiting UI shows it.
func (c Candidate) FullName() string {
	return strings.TrimSpace(c.LastName + " " + c.FirstName)
}

// Same reports value identity: two candidates are the same person when their
// pool ID matches, falling back to email+name for candidates that never
// touched the store (e.g. freshly extracted from a CV).
func (c Candidate) Same(other Candidate) bool {
	if c.ID != "" && other.ID != "" {
		return c.ID == other.ID
	}
	return c.Email == other.Email && c.FullName() == other.FullName()
}

// Turn is one entry of the append-only conversation history.
type Turn struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// State is the explicit conversation state. The original engine kept state
// implicit in whichever context slots happened to be populated; here every
// transition names the state it lands in.
type State string

const (
	StateIdle                      State = "IDLE"
	StateMatched                   State = "MATCHED"
	StateNoMatch                   State = "NO_MATCH"
	StateSelectingInviteCount      State = "SELECTING_INVITE_COUNT"
	StateSelectingCandidates       State = "SELECTING_CANDIDATES"
	StateAwaitingDate              State = "AWAITING_DATE"
	StateAwaitingLocation          State = "AWAITING_LOCATION"
	StateInvitationsSent           State = "INVITATIONS_SENT"
	StateChoosingContractCandidate State = "CHOOSING_CONTRACT_CANDIDATE"
	StateChoosingContractType      State = "CHOOSING_CONTRACT_TYPE"
	StateAwaitingSalary            State = "AWAITING_SALARY"
	StateAwaitingStartDate         State = "AWAITING_START_DATE"
	StateAwaitingEndDate           State = "AWAITING_END_DATE"
	StateContractGenerated         State = "CONTRACT_GENERATED"
	StateAwaitingCandidateName     State = "AWAITING_CANDIDATE_NAME"
)

// Context is the per-session slot scratchpad. Optional scalar slots are
// pointers so "absent" stays distinguishable from a zero value.
type Context struct {
	LastIntent     string `json:"last_intent,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
	NumCandidates  *int   `json:"num_candidates,omitempty"`

	MatchedCandidates  []Candidate `json:"matched_candidates,omitempty"`
	SelectedCandidates []Candidate `json:"selected_candidates,omitempty"`
	DesiredInviteCount *int        `json:"desired_invite_count,omitempty"`

	InterviewDate     *time.Time `json:"interview_date,omitempty"`
	InterviewLocation string     `json:"interview_location,omitempty"`

	ContractType      string     `json:"contract_type,omitempty"`
	ContractSalary    *int       `json:"contract_salary,omitempty"`
	ContractStartDate *time.Time `json:"contract_start_date,omitempty"`
	ContractEndDate   *time.Time `json:"contract_end_date,omitempty"`

	AwaitingCandidateName bool   `json:"awaiting_candidate_name,omitempty"`
	PendingLinkedInPost   string `json:"pending_linkedin_post,omitempty"`
	JobTitle              string `json:"job_title,omitempty"`
}

// Reset clears every slot. Used by new_search and session resets so no
// leftover selection leaks into an unrelated flow.
func (c *Context) Reset() {
	*c = Context{}
}

// ClearContractScratch removes the four contract slots filled during the
// contract flow, leaving the candidate selection intact.
func (c *Context) ClearContractScratch() {
	c.ContractType = ""
	c.ContractSalary = nil
	c.ContractStartDate = nil
	c.ContractEndDate = nil
}

// NumCandidatesOr returns the requested search size or the given default.
func (c *Context) NumCandidatesOr(def int) int {
	if c.NumCandidates != nil {
		return *c.NumCandidates
	}
	return def
}

// Session is the active conversation state held in memory. One instance per
// conversation; never shared across conversations.
type Session struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	State  State   `json:"state"`
	Ctx    Context `json:"context"`

	// Append-only; read for persistence/export only, never for decisions.
	History []Turn `json:"history"`

	CreatedAt time.Time `json:"created_at"`
}

// NewSession creates an idle session with an empty context.
func NewSession(id, userID string) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		State:     StateIdle,
		CreatedAt: time.Now(),
	}
}

// Append records one turn in the history.
func (s *Session) Append(role, text string) {
	s.History = append(s.History, Turn{Role: role, Text: text, Timestamp: time.Now()})
}
