package dispatcher

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"smart-hire-be/pkg/engine/action"
	"smart-hire-be/pkg/store"
)

type fakeMatcher struct {
	result *MatchResult
	err    error
	panics bool
}

func (f *fakeMatcher) Match(ctx context.Context, description string, pool []store.Candidate, count int) (*MatchResult, error) {
	if f.panics {
		panic("matcher exploded")
	}
	return f.result, f.err
}

type sentInvite struct {
	to       string
	name     string
	location string
}

type fakeMailer struct {
	configured bool
	failFor    map[string]error
	sent       []sentInvite
}

func (f *fakeMailer) Configured() bool { return f.configured }

func (f *fakeMailer) SendInterviewInvite(ctx context.Context, to, candidateName string, date time.Time, location, duration string) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentInvite{to: to, name: candidateName, location: location})
	return nil
}

type fakeRenderer struct {
	path  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(ctx context.Context, candidate store.Candidate, contractType string, salary int, start time.Time, end *time.Time) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakePublisher struct {
	configured bool
	authed     bool
	content    string
	publishErr error
	published  []string
	drafts     []string
}

func (f *fakePublisher) IsConfigured() bool    { return f.configured }
func (f *fakePublisher) IsAuthenticated() bool { return f.authed }
func (f *fakePublisher) AuthURL() (string, error) {
	return "https://www.linkedin.com/oauth/v2/authorization?client_id=test", nil
}

func (f *fakePublisher) GeneratePostContent(ctx context.Context, description string, count int) (string, error) {
	return f.content, nil
}

func (f *fakePublisher) SaveDraft(content string) (string, error) {
	f.drafts = append(f.drafts, content)
	return "data/linkedin_drafts/post_20260901_120000.txt", nil
}

func (f *fakePublisher) Publish(ctx context.Context, content string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, content)
	return nil
}

type fakeSyncer struct {
	summary  *SyncSummary
	err      error
	gotCreds SyncCredentials
}

func (f *fakeSyncer) Sync(ctx context.Context, creds SyncCredentials) (*SyncSummary, error) {
	f.gotCreds = creds
	return f.summary, f.err
}

type fakeDirectory struct {
	pool []store.Candidate
	err  error
}

func (f *fakeDirectory) All(ctx context.Context) ([]store.Candidate, error) {
	return f.pool, f.err
}

func (f *fakeDirectory) Count(ctx context.Context) (int64, error) {
	return int64(len(f.pool)), f.err
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func testPool() []store.Candidate {
	return []store.Candidate{
		{ID: "c1", LastName: "Dupont", FirstName: "Jean", Email: "jean.dupont@gmail.com", Title: "Développeur Python", Experience: 6},
		{ID: "c2", LastName: "Martin", FirstName: "Sophie", Email: "sophie.martin@outlook.com", Title: "Data Scientist", Experience: 4},
		{ID: "c3", LastName: "Bernard", FirstName: "Lucas", Email: "lucas.bernard@gmail.com", Title: "Développeur Full Stack", Experience: 3},
	}
}

type testDeps struct {
	matcher   *fakeMatcher
	mailer    *fakeMailer
	renderer  *fakeRenderer
	publisher *fakePublisher
	syncer    *fakeSyncer
	directory *fakeDirectory
}

func newTestDispatcher(t *testing.T, creds SyncCredentials) (*Dispatcher, *testDeps) {
	t.Helper()
	deps := &testDeps{
		matcher:   &fakeMatcher{result: &MatchResult{}},
		mailer:    &fakeMailer{configured: true},
		renderer:  &fakeRenderer{path: "data/contracts/contrat_Dupont_Jean_20260901.pdf"},
		publisher: &fakePublisher{configured: true, authed: true, content: "🔍 NOUS RECRUTONS"},
		syncer:    &fakeSyncer{summary: &SyncSummary{Connected: true}},
		directory: &fakeDirectory{pool: testPool()},
	}
	d := New(deps.matcher, deps.mailer, deps.renderer, deps.publisher, deps.syncer, deps.directory, creds, log.New(io.Discard, "", 0)).
		WithClock(func() time.Time { return testNow })
	return d, deps
}

func clearSyncEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SENDER_EMAIL", "SMTP_SENDER", "SENDER_PASSWORD", "SMTP_PASSWORD", "IMAP_SERVER"} {
		t.Setenv(key, "")
	}
}

func TestExecuteSearchMatched(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.matcher.result = &MatchResult{Candidates: testPool()[:2], HasResults: true}

	session := store.NewSession("s1", "")
	session.Ctx.JobDescription = "développeur python senior"

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindExecuteSearch}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if session.State != store.StateMatched {
		t.Errorf("state = %s, want %s", session.State, store.StateMatched)
	}
	if len(session.Ctx.MatchedCandidates) != 2 {
		t.Errorf("matched candidates = %d, want 2", len(session.Ctx.MatchedCandidates))
	}
	if _, ok := res.Data["matched_candidates"]; !ok {
		t.Error("result data missing matched_candidates")
	}
	if len(res.Actions) == 0 || res.Actions[0].Action != string(action.KindSendInvitations) {
		t.Errorf("first action = %+v, want send invitations", res.Actions)
	}
}

func TestExecuteSearchNoMatchPivotsToLinkedIn(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.matcher.result = &MatchResult{HasResults: false, Reason: "Compétences recherchées absentes du vivier"}

	session := store.NewSession("s1", "")
	session.Ctx.JobDescription = "ingénieur quantique"

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindExecuteSearch}, session)
	if !res.Success {
		t.Fatalf("no-match is not a failure, got %q", res.Message)
	}
	if session.State != store.StateNoMatch {
		t.Errorf("state = %s, want %s", session.State, store.StateNoMatch)
	}
	if session.Ctx.PendingLinkedInPost != "ingénieur quantique" {
		t.Errorf("pending post = %q", session.Ctx.PendingLinkedInPost)
	}
	if len(res.Actions) == 0 || res.Actions[0].Action != string(action.KindPublishLinkedInJob) {
		t.Errorf("first action = %+v, want publish", res.Actions)
	}
	if !strings.Contains(res.Message, "Compétences recherchées absentes") {
		t.Errorf("message should carry the matcher reason, got %q", res.Message)
	}
}

func TestExecuteSearchDirectoryError(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.directory.err = errors.New("db down")

	session := store.NewSession("s1", "")
	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindExecuteSearch}, session)
	if res.Success {
		t.Fatal("expected failure")
	}
	if session.State != store.StateIdle {
		t.Errorf("failed search must not move the session, state = %s", session.State)
	}
}

func TestSendInvitationsWithoutSearch(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSendInvitations}, session)
	if res.Success {
		t.Fatal("expected failure without a prior search")
	}
	if len(res.Actions) != 1 || res.Actions[0].Action != string(action.KindNewSearch) {
		t.Errorf("recovery action = %+v, want new search", res.Actions)
	}
}

func TestSendInvitationsOffersCounts(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.MatchedCandidates = testPool()

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSendInvitations}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if session.State != store.StateSelectingInviteCount {
		t.Errorf("state = %s, want %s", session.State, store.StateSelectingInviteCount)
	}
	// 3 count buttons plus the invite-all shortcut
	if len(res.Actions) != 4 {
		t.Fatalf("actions = %d, want 4", len(res.Actions))
	}
	if res.Actions[0].Action != "set_invitation_count_1" {
		t.Errorf("first action = %q", res.Actions[0].Action)
	}
	if res.Actions[3].Action != "set_invitation_count_all" {
		t.Errorf("last action = %q", res.Actions[3].Action)
	}
}

func TestSetInviteCountAllSkipsSelection(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.MatchedCandidates = testPool()

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetInviteCount, All: true}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if session.State != store.StateAwaitingDate {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingDate)
	}
	if len(session.Ctx.SelectedCandidates) != 3 {
		t.Errorf("selected = %d, want all 3", len(session.Ctx.SelectedCandidates))
	}
	// Fixed clock: "tomorrow" is 2026-09-02
	if res.Actions[0].Action != "set_date_2026-09-02_10:00" {
		t.Errorf("first date choice = %q", res.Actions[0].Action)
	}
}

func TestSelectCandidateDedupAndCompletion(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.MatchedCandidates = testPool()

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetInviteCount, Count: 2}, session)
	if session.State != store.StateSelectingCandidates {
		t.Fatalf("state = %s, want %s", session.State, store.StateSelectingCandidates)
	}
	if len(res.Actions) != 3 {
		t.Fatalf("initial pick list = %d, want 3", len(res.Actions))
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSelectCandidate, Index: 0}, session)
	if len(session.Ctx.SelectedCandidates) != 1 {
		t.Fatalf("selected = %d, want 1", len(session.Ctx.SelectedCandidates))
	}
	// Already-picked candidates drop out of the pick list
	if len(res.Actions) != 2 {
		t.Errorf("pick list after one pick = %d, want 2", len(res.Actions))
	}

	// Picking the same candidate twice must not double-count
	d.Dispatch(context.Background(), action.Token{Kind: action.KindSelectCandidate, Index: 0}, session)
	if len(session.Ctx.SelectedCandidates) != 1 {
		t.Fatalf("duplicate pick counted, selected = %d", len(session.Ctx.SelectedCandidates))
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSelectCandidate, Index: 2}, session)
	if session.State != store.StateAwaitingDate {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingDate)
	}
	if len(session.Ctx.SelectedCandidates) != 2 {
		t.Errorf("selected = %d, want 2", len(session.Ctx.SelectedCandidates))
	}
	if !res.Success {
		t.Errorf("completion should succeed, got %q", res.Message)
	}
}

func TestSetDate(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetDate, Date: "2026-09-10", Time: "10:00"}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if session.State != store.StateAwaitingLocation {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingLocation)
	}
	if session.Ctx.InterviewDate == nil || session.Ctx.InterviewDate.Day() != 10 {
		t.Errorf("interview date = %v", session.Ctx.InterviewDate)
	}
	if len(res.Actions) != 4 {
		t.Errorf("location choices = %d, want 4", len(res.Actions))
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetDate, Date: "not-a-date", Time: "10:00"}, session)
	if res.Success {
		t.Error("malformed date must fail")
	}
}

func TestSetLocationSendsOneInvitePerCandidate(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.mailer.failFor = map[string]error{"sophie.martin@outlook.com": errors.New("mailbox full")}

	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()
	date := testNow.AddDate(0, 0, 1)
	session.Ctx.InterviewDate = &date

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetLocation, Location: "visio"}, session)
	if !res.Success {
		t.Fatalf("partial failure should still report success, got %q", res.Message)
	}
	if session.State != store.StateInvitationsSent {
		t.Errorf("state = %s, want %s", session.State, store.StateInvitationsSent)
	}
	if len(deps.mailer.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(deps.mailer.sent))
	}
	if deps.mailer.sent[0].to != "jean.dupont@gmail.com" || deps.mailer.sent[1].to != "lucas.bernard@gmail.com" {
		t.Errorf("send order wrong: %+v", deps.mailer.sent)
	}
	if deps.mailer.sent[0].location != locationMap["visio"] {
		t.Errorf("location = %q", deps.mailer.sent[0].location)
	}
	if !strings.Contains(res.Message, "Non envoyés") {
		t.Errorf("summary should list failed sends, got %q", res.Message)
	}
	report, ok := res.Data["invitations_sent"].(map[string]interface{})
	if !ok {
		t.Fatalf("invitations_sent payload = %v", res.Data["invitations_sent"])
	}
	if recipients, _ := report["recipients"].([]string); len(recipients) != 2 {
		t.Errorf("recipients = %v, failed sends must not be reported as delivered", recipients)
	}
}

func TestInvitationChainReportsRecipients(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.MatchedCandidates = testPool()

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetInviteCount, All: true}, session)
	if !res.Success {
		t.Fatalf("count step failed: %q", res.Message)
	}
	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetDate, Date: "2026-09-02", Time: "10:00"}, session)
	if !res.Success {
		t.Fatalf("date step failed: %q", res.Message)
	}
	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetLocation, Location: "bureau"}, session)
	if !res.Success {
		t.Fatalf("location step failed: %q", res.Message)
	}

	if session.State != store.StateInvitationsSent {
		t.Errorf("state = %s, want %s", session.State, store.StateInvitationsSent)
	}
	if len(deps.mailer.sent) != 3 {
		t.Fatalf("sent = %d, want 3", len(deps.mailer.sent))
	}
	report, ok := res.Data["invitations_sent"].(map[string]interface{})
	if !ok {
		t.Fatalf("invitations_sent payload = %v, the event pipeline reads this key", res.Data["invitations_sent"])
	}
	recipients, _ := report["recipients"].([]string)
	if len(recipients) != 3 || recipients[0] != "jean.dupont@gmail.com" {
		t.Errorf("recipients = %v", recipients)
	}
	if report["count"] != 3 {
		t.Errorf("count = %v, want 3", report["count"])
	}
	if report["location"] != locationMap["bureau"] {
		t.Errorf("location = %v", report["location"])
	}
}

func TestSetLocationMailerUnconfigured(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.mailer.configured = false

	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]
	date := testNow
	session.Ctx.InterviewDate = &date

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetLocation, Location: "bureau"}, session)
	if res.Success {
		t.Fatal("expected failure without SMTP credentials")
	}
	if !strings.Contains(res.Message, "Credentials SMTP manquants") {
		t.Errorf("message = %q", res.Message)
	}
	if len(deps.mailer.sent) != 0 {
		t.Error("must not attempt a send without credentials")
	}
}

func TestSetLocationAllSendsFailedOffersRetry(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.mailer.failFor = map[string]error{
		"jean.dupont@gmail.com": errors.New("timeout"),
	}

	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]
	date := testNow
	session.Ctx.InterviewDate = &date

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetLocation, Location: "visio"}, session)
	if res.Success {
		t.Fatal("expected failure when every send failed")
	}
	if len(res.Actions) == 0 || res.Actions[0].Action != "set_location_visio" {
		t.Errorf("retry action = %+v, want the same location token", res.Actions)
	}
	if session.State == store.StateInvitationsSent {
		t.Error("state must not advance when nothing was sent")
	}
}

func TestSyncNowMissingCredentials(t *testing.T) {
	clearSyncEnv(t)
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSyncNow}, session)
	if res.Success {
		t.Fatal("expected failure without credentials")
	}
	if !strings.Contains(res.Message, "Credentials email manquants") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestSyncNowReportsSummary(t *testing.T) {
	clearSyncEnv(t)
	d, deps := newTestDispatcher(t, SyncCredentials{Email: "recruteur@example.com", Password: "secret"})
	deps.syncer.summary = &SyncSummary{
		Connected:    true,
		EmailsFound:  12,
		CVsProcessed: 4,
		CVsAdded:     2,
		CandidatesAdded: []store.Candidate{
			{LastName: "Nouveau", FirstName: "Alice", Email: "alice@example.com"},
			{LastName: "Nouveau", FirstName: "Bob", Email: "bob@example.com"},
		},
	}

	session := store.NewSession("s1", "")
	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSyncNow}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if deps.syncer.gotCreds.Email != "recruteur@example.com" {
		t.Errorf("creds email = %q", deps.syncer.gotCreds.Email)
	}
	if deps.syncer.gotCreds.IMAPServer != "imap.gmail.com" {
		t.Errorf("default IMAP server = %q", deps.syncer.gotCreds.IMAPServer)
	}
	if !strings.Contains(res.Message, "Emails trouvés : 12") || !strings.Contains(res.Message, "Candidats ajoutés : 2") {
		t.Errorf("summary message = %q", res.Message)
	}
	if !strings.Contains(res.Message, "Nouveau Alice") {
		t.Errorf("summary should name the new candidates, got %q", res.Message)
	}
	if _, ok := res.Data["sync_summary"]; !ok {
		t.Error("result data missing sync_summary")
	}
}

func TestContractFlowCDI(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindStartContract}, session)
	if session.State != store.StateChoosingContractType {
		t.Fatalf("state = %s, want %s", session.State, store.StateChoosingContractType)
	}
	if len(res.Actions) != 4 {
		t.Fatalf("contract type choices = %d, want 4", len(res.Actions))
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindContractType, ContractType: "CDI"}, session)
	if session.State != store.StateAwaitingSalary {
		t.Fatalf("state = %s, want %s", session.State, store.StateAwaitingSalary)
	}
	if res.Actions[1].Action != "set_salary_CDI_45000" {
		t.Errorf("salary action = %q", res.Actions[1].Action)
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetSalary, ContractType: "CDI", Salary: 45000}, session)
	if session.State != store.StateAwaitingStartDate {
		t.Fatalf("state = %s, want %s", session.State, store.StateAwaitingStartDate)
	}
	// Fixed clock: one week out is 2026-09-08
	if res.Actions[0].Action != "set_contract_start_CDI_2026-09-08" {
		t.Errorf("start date action = %q", res.Actions[0].Action)
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetContractStart, ContractType: "CDI", Date: "2026-09-08"}, session)
	if !res.Success {
		t.Fatalf("expected generated contract, got %q", res.Message)
	}
	if deps.renderer.calls != 1 {
		t.Errorf("renderer calls = %d, want 1", deps.renderer.calls)
	}
	if session.State != store.StateContractGenerated {
		t.Errorf("state = %s, want %s", session.State, store.StateContractGenerated)
	}
	if session.Ctx.ContractType != "" || session.Ctx.ContractSalary != nil {
		t.Error("contract scratch slots must be cleared after generation")
	}
	if res.Data["contract_filename"] != "contrat_Dupont_Jean_20260901.pdf" {
		t.Errorf("contract_filename = %v", res.Data["contract_filename"])
	}
}

func TestContractFlowCDDNeedsEndDate(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]
	session.Ctx.ContractType = "CDD"
	salary := 35000
	session.Ctx.ContractSalary = &salary

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindSetContractStart, ContractType: "CDD", Date: "2026-10-01"}, session)
	if session.State != store.StateAwaitingEndDate {
		t.Fatalf("state = %s, want %s", session.State, store.StateAwaitingEndDate)
	}
	if deps.renderer.calls != 0 {
		t.Fatal("CDD must not generate before an end date")
	}
	// 6 months from the start date
	if res.Actions[0].Action != "set_contract_end_CDD_2027-03-30" {
		t.Errorf("end date action = %q", res.Actions[0].Action)
	}

	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindSetContractEnd, ContractType: "CDD", Date: "2027-03-30"}, session)
	if !res.Success {
		t.Fatalf("expected generated contract, got %q", res.Message)
	}
	if deps.renderer.calls != 1 {
		t.Errorf("renderer calls = %d, want 1", deps.renderer.calls)
	}
}

func TestGenerateContractFailureKeepsScratch(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.renderer.err = errors.New("disk full")

	session := store.NewSession("s1", "")
	session.Ctx.SelectedCandidates = testPool()[:1]
	session.Ctx.ContractType = "CDI"
	salary := 45000
	session.Ctx.ContractSalary = &salary
	start := testNow
	session.Ctx.ContractStartDate = &start

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindGenerateContractNow}, session)
	if res.Success {
		t.Fatal("expected failure")
	}
	if session.Ctx.ContractType != "CDI" || session.Ctx.ContractSalary == nil {
		t.Error("scratch must survive a failed render so the retry works")
	}
	if len(res.Actions) == 0 || res.Actions[0].Action != string(action.KindGenerateContractNow) {
		t.Errorf("retry action = %+v", res.Actions)
	}
}

func TestStartContractWithoutCandidatesAsksForName(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")

	d.Dispatch(context.Background(), action.Token{Kind: action.KindStartContract}, session)
	if session.State != store.StateAwaitingCandidateName {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingCandidateName)
	}
	if !session.Ctx.AwaitingCandidateName {
		t.Error("next free-text turn should be read as a name")
	}
}

func TestContractTypeBeforePickReoffersWithResumeTokens(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.Ctx.MatchedCandidates = testPool()

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindContractType, ContractType: "CDI"}, session)
	if session.State != store.StateChoosingContractCandidate {
		t.Fatalf("state = %s, want %s", session.State, store.StateChoosingContractCandidate)
	}
	if len(res.Actions) != 3 {
		t.Fatalf("pick list = %d, want 3", len(res.Actions))
	}
	if res.Actions[0].Action != "select_for_contract_contract_cdi_0" {
		t.Errorf("resume token = %q", res.Actions[0].Action)
	}

	// The resume token carries candidate and type in one step
	res = d.Dispatch(context.Background(), action.Token{Kind: action.KindResumeContract, ContractType: "CDI", Index: 1}, session)
	if session.State != store.StateAwaitingSalary {
		t.Errorf("state = %s, want %s", session.State, store.StateAwaitingSalary)
	}
	if len(session.Ctx.SelectedCandidates) != 1 || session.Ctx.SelectedCandidates[0].ID != "c2" {
		t.Errorf("selected = %+v", session.Ctx.SelectedCandidates)
	}
	if !strings.Contains(res.Message, "Martin Sophie") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestHandleNameInput(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})

	t.Run("single hit binds the candidate", func(t *testing.T) {
		session := store.NewSession("s1", "")
		session.Ctx.AwaitingCandidateName = true

		res := d.HandleNameInput(context.Background(), "Dupont Jean", session)
		if !res.Success {
			t.Fatalf("expected success, got %q", res.Message)
		}
		if session.State != store.StateChoosingContractType {
			t.Errorf("state = %s, want %s", session.State, store.StateChoosingContractType)
		}
		if session.Ctx.AwaitingCandidateName {
			t.Error("name capture must be disarmed after a hit")
		}
		if len(session.Ctx.SelectedCandidates) != 1 || session.Ctx.SelectedCandidates[0].ID != "c1" {
			t.Errorf("selected = %+v", session.Ctx.SelectedCandidates)
		}
	})

	t.Run("partial word matches several", func(t *testing.T) {
		d2, deps := newTestDispatcher(t, SyncCredentials{})
		deps.directory.pool = []store.Candidate{
			{ID: "c1", LastName: "Dupont", FirstName: "Jean"},
			{ID: "c4", LastName: "Dupont", FirstName: "Marie"},
		}
		session := store.NewSession("s1", "")
		session.Ctx.AwaitingCandidateName = true

		res := d2.HandleNameInput(context.Background(), "dupont", session)
		if session.State != store.StateChoosingContractCandidate {
			t.Errorf("state = %s, want %s", session.State, store.StateChoosingContractCandidate)
		}
		if len(res.Actions) != 2 {
			t.Errorf("pick list = %d, want 2", len(res.Actions))
		}
	})

	t.Run("no hit keeps capture armed", func(t *testing.T) {
		session := store.NewSession("s1", "")
		session.Ctx.AwaitingCandidateName = true

		res := d.HandleNameInput(context.Background(), "Zorglub", session)
		if res.Success {
			t.Fatal("expected failure")
		}
		if !session.Ctx.AwaitingCandidateName {
			t.Error("a miss should leave the capture armed for a retry")
		}
	})
}

func TestPublishLinkedInJob(t *testing.T) {
	t.Run("publishes the generated post", func(t *testing.T) {
		d, deps := newTestDispatcher(t, SyncCredentials{})
		session := store.NewSession("s1", "")
		session.Ctx.PendingLinkedInPost = "développeur go senior"

		res := d.Dispatch(context.Background(), action.Token{Kind: action.KindPublishLinkedInJob}, session)
		if !res.Success {
			t.Fatalf("expected success, got %q", res.Message)
		}
		if len(deps.publisher.published) != 1 {
			t.Fatalf("published = %d, want 1", len(deps.publisher.published))
		}
		if res.Data["post_content"] != deps.publisher.content {
			t.Errorf("post_content = %v", res.Data["post_content"])
		}
		if len(deps.publisher.drafts) != 1 || deps.publisher.drafts[0] != deps.publisher.content {
			t.Errorf("drafts = %v, the post must be saved before publishing", deps.publisher.drafts)
		}
		if res.Data["draft_path"] == "" {
			t.Error("draft_path missing from result data")
		}
	})

	t.Run("publish failure still saves the draft", func(t *testing.T) {
		d, deps := newTestDispatcher(t, SyncCredentials{})
		deps.publisher.publishErr = errors.New("api quota")
		session := store.NewSession("s1", "")
		session.Ctx.PendingLinkedInPost = "développeur go senior"

		res := d.Dispatch(context.Background(), action.Token{Kind: action.KindPublishLinkedInJob}, session)
		if res.Success {
			t.Fatal("expected publish failure")
		}
		if len(deps.publisher.drafts) != 1 {
			t.Errorf("drafts = %d, want 1", len(deps.publisher.drafts))
		}
	})

	t.Run("unauthenticated routes to login", func(t *testing.T) {
		d, deps := newTestDispatcher(t, SyncCredentials{})
		deps.publisher.authed = false
		session := store.NewSession("s1", "")
		session.Ctx.PendingLinkedInPost = "développeur go senior"

		res := d.Dispatch(context.Background(), action.Token{Kind: action.KindPublishLinkedInJob}, session)
		if res.Success {
			t.Fatal("expected auth failure")
		}
		if len(res.Actions) == 0 || res.Actions[0].Action != string(action.KindLinkedInLogin) {
			t.Errorf("actions = %+v, want login first", res.Actions)
		}
		if session.Ctx.PendingLinkedInPost == "" {
			t.Error("pending post must survive until authentication")
		}
	})

	t.Run("nothing pending fails", func(t *testing.T) {
		d, _ := newTestDispatcher(t, SyncCredentials{})
		session := store.NewSession("s1", "")

		res := d.Dispatch(context.Background(), action.Token{Kind: action.KindPublishLinkedInJob}, session)
		if res.Success {
			t.Fatal("expected failure with no pending post")
		}
	})
}

func TestDispatchRawRejectsMalformedToken(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")

	res := d.DispatchRaw(context.Background(), "does_not_exist", session)
	if res.Success {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(res.Message, "Action non reconnue") {
		t.Errorf("message = %q", res.Message)
	}
	if len(res.Actions) != 2 {
		t.Errorf("help actions = %d, want 2", len(res.Actions))
	}
	if session.State != store.StateIdle {
		t.Errorf("rejected token must not move the session, state = %s", session.State)
	}
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	d, deps := newTestDispatcher(t, SyncCredentials{})
	deps.matcher.panics = true

	session := store.NewSession("s1", "")
	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindExecuteSearch}, session)
	if res == nil || res.Success {
		t.Fatal("panic must surface as a failure result")
	}
	if !strings.Contains(res.Message, "Erreur interne") {
		t.Errorf("message = %q", res.Message)
	}
}

func TestNewSearchResetsEverything(t *testing.T) {
	d, _ := newTestDispatcher(t, SyncCredentials{})
	session := store.NewSession("s1", "")
	session.State = store.StateAwaitingSalary
	session.Ctx.MatchedCandidates = testPool()
	session.Ctx.ContractType = "CDI"

	res := d.Dispatch(context.Background(), action.Token{Kind: action.KindNewSearch}, session)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if session.State != store.StateIdle {
		t.Errorf("state = %s, want %s", session.State, store.StateIdle)
	}
	if len(session.Ctx.MatchedCandidates) != 0 || session.Ctx.ContractType != "" {
		t.Error("context must be fully reset")
	}
}
