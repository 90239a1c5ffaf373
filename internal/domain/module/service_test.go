package module

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// stubRepo is an in-memory Repository for exercising transition logic
type stubRepo struct {
	modules  map[uuid.UUID]*Module
	criteria map[uuid.UUID]*AcceptanceCriterion
	feedback []*TestFeedback
	updates  int
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		modules:  make(map[uuid.UUID]*Module),
		criteria: make(map[uuid.UUID]*AcceptanceCriterion),
	}
}

func (r *stubRepo) Create(_ context.Context, m *Module, criteria []*AcceptanceCriterion) error {
	cp := *m
	r.modules[m.ID] = &cp
	for _, c := range criteria {
		cc := *c
		r.criteria[c.ID] = &cc
	}
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id uuid.UUID) (*Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *stubRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*Module, error) {
	var out []*Module
	for _, m := range r.modules {
		if m.CustomerID == customerID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubRepo) ListAll(_ context.Context) ([]*Module, error) {
	var out []*Module
	for _, m := range r.modules {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, m *Module) error {
	if _, ok := r.modules[m.ID]; !ok {
		return ErrNotFound
	}
	cp := *m
	r.modules[m.ID] = &cp
	r.updates++
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.modules[id]; !ok {
		return ErrNotFound
	}
	delete(r.modules, id)
	return nil
}

func (r *stubRepo) ListCriteria(_ context.Context, moduleID uuid.UUID) ([]*AcceptanceCriterion, error) {
	var out []*AcceptanceCriterion
	for _, c := range r.criteria {
		if c.ModuleID == moduleID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubRepo) GetCriterion(_ context.Context, moduleID, criterionID uuid.UUID) (*AcceptanceCriterion, error) {
	c, ok := r.criteria[criterionID]
	if !ok || c.ModuleID != moduleID {
		return nil, ErrCriterionNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubRepo) AddCriterion(_ context.Context, c *AcceptanceCriterion) error {
	cp := *c
	r.criteria[c.ID] = &cp
	return nil
}

func (r *stubRepo) SetCriterionAccepted(_ context.Context, moduleID, criterionID uuid.UUID, accepted bool, at time.Time) error {
	c, ok := r.criteria[criterionID]
	if !ok || c.ModuleID != moduleID {
		return ErrCriterionNotFound
	}
	c.Accepted = accepted
	c.AcceptedAt = sql.NullTime{Time: at, Valid: accepted}
	return nil
}

func (r *stubRepo) SetAllCriteriaAccepted(_ context.Context, moduleID uuid.UUID, accepted bool, at time.Time) error {
	for _, c := range r.criteria {
		if c.ModuleID == moduleID {
			c.Accepted = accepted
			c.AcceptedAt = sql.NullTime{Time: at, Valid: accepted}
		}
	}
	return nil
}

func (r *stubRepo) AddFeedback(_ context.Context, f *TestFeedback) error {
	cp := *f
	r.feedback = append(r.feedback, &cp)
	return nil
}

func (r *stubRepo) ListFeedback(_ context.Context, moduleID uuid.UUID) ([]*TestFeedback, error) {
	var out []*TestFeedback
	for _, f := range r.feedback {
		if f.ModuleID == moduleID {
			cp := *f
			out = append(out, &cp)
		}
	}
	return out, nil
}

// stubNotifier tracks the pending test flag the way the notification store
// would: a test notification raises it, clearing lowers it.
type stubNotifier struct {
	testFlagActive       bool
	acceptanceFlagActive bool
	testNotifs           int
	acceptanceNotifs     int
	projectUpdates       int
	err                  error
}

func (n *stubNotifier) NotifyTestRequired(context.Context, uuid.UUID, uuid.UUID, string) error {
	if n.err != nil {
		return n.err
	}
	n.testNotifs++
	n.testFlagActive = true
	return nil
}

func (n *stubNotifier) NotifyAcceptanceRequired(context.Context, uuid.UUID, uuid.UUID, string) error {
	if n.err != nil {
		return n.err
	}
	n.acceptanceNotifs++
	n.acceptanceFlagActive = true
	return nil
}

func (n *stubNotifier) NotifyProjectUpdate(context.Context, uuid.UUID, uuid.UUID, string, string) error {
	if n.err != nil {
		return n.err
	}
	n.projectUpdates++
	return nil
}

func (n *stubNotifier) ClearTestRequired(context.Context, uuid.UUID) error {
	if n.err != nil {
		return n.err
	}
	n.testFlagActive = false
	return nil
}

func (n *stubNotifier) ClearAcceptanceRequired(context.Context, uuid.UUID) error {
	if n.err != nil {
		return n.err
	}
	n.acceptanceFlagActive = false
	return nil
}

type stubAudit struct {
	subjects []string
	contents []string
}

func (a *stubAudit) SendSystem(_ context.Context, _ uuid.UUID, subject, content string) error {
	a.subjects = append(a.subjects, subject)
	a.contents = append(a.contents, content)
	return nil
}

func seedModule(t *testing.T, repo *stubRepo, status Status) *Module {
	t.Helper()
	m := &Module{
		ID:               uuid.New(),
		CustomerID:       uuid.New(),
		Title:            "KI-Chatbot Support",
		Status:           status,
		AcceptanceStatus: AcceptanceAusstehend,
		LiveStatus:       LiveAktiv,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := repo.Create(context.Background(), m, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return m
}

func TestEnterImTestRaisesTestFlag(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	audit := &stubAudit{}
	svc := NewService(repo, notifier, audit)
	m := seedModule(t, repo, StatusInArbeit)

	_, err := svc.UpdateStatus(context.Background(), m.ID, &UpdateStatusRequest{Status: "im_test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !notifier.testFlagActive {
		t.Fatal("expected pending test flag after entering im_test")
	}
	if notifier.testNotifs != 1 {
		t.Fatalf("expected 1 test notification, got %d", notifier.testNotifs)
	}
	if len(audit.subjects) != 1 {
		t.Fatalf("expected 1 audit message, got %d", len(audit.subjects))
	}
	if audit.contents[0] != "Modul \"KI-Chatbot Support\" wurde von In Arbeit nach Im Test verschoben." {
		t.Fatalf("unexpected audit content: %q", audit.contents[0])
	}
}

func TestLeaveImTestClearsTestFlag(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, &stubAudit{})
	m := seedModule(t, repo, StatusInArbeit)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "im_test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "abgeschlossen"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.testFlagActive {
		t.Fatal("expected test flag cleared after leaving im_test")
	}
	// Leaving im_test still announces the new column
	if notifier.projectUpdates != 1 {
		t.Fatalf("expected 1 project update, got %d", notifier.projectUpdates)
	}
}

func TestSameStatusIsNoOp(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	audit := &stubAudit{}
	svc := NewService(repo, notifier, audit)
	m := seedModule(t, repo, StatusGeplant)

	if _, err := svc.UpdateStatus(context.Background(), m.ID, &UpdateStatusRequest{Status: "geplant"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.updates != 0 {
		t.Fatalf("expected no repository update, got %d", repo.updates)
	}
	if len(audit.subjects) != 0 || notifier.projectUpdates != 0 {
		t.Fatal("expected no side effects for a same-status move")
	}
}

func TestCompleteTestClearsFlagWithoutStatusChange(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, &stubAudit{})
	m := seedModule(t, repo, StatusInArbeit)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "im_test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.CompleteTest(ctx, m.ID, &CompleteTestRequest{CompletedBy: "Frau Müller"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Status != StatusImTest {
		t.Fatalf("completing the test must not change the status, got %q", updated.Status)
	}
	if !updated.TestCompletedAt.Valid || updated.TestCompletedBy.String != "Frau Müller" {
		t.Fatal("test completion fields not recorded")
	}
	if notifier.testFlagActive {
		t.Fatal("expected test flag cleared after completion")
	}
}

func TestReenterImTestAfterCompletionSkipsNotification(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, &stubAudit{})
	m := seedModule(t, repo, StatusInArbeit)
	ctx := context.Background()

	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "im_test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.CompleteTest(ctx, m.ID, &CompleteTestRequest{CompletedBy: "Frau Müller"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "in_arbeit"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, m.ID, &UpdateStatusRequest{Status: "im_test"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.testNotifs != 1 {
		t.Fatalf("expected no second test notification after sign-off, got %d", notifier.testNotifs)
	}
	if notifier.testFlagActive {
		t.Fatal("expected no pending flag for an already-tested module")
	}
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{err: errors.New("notification store down")}
	svc := NewService(repo, notifier, &stubAudit{})
	m := seedModule(t, repo, StatusGeplant)

	updated, err := svc.UpdateStatus(context.Background(), m.ID, &UpdateStatusRequest{Status: "im_test"})
	if err != nil {
		t.Fatalf("status change must survive notifier failure: %v", err)
	}
	if updated.Status != StatusImTest {
		t.Fatalf("expected im_test, got %q", updated.Status)
	}
}

func TestRejectRequiresComment(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	audit := &stubAudit{}
	svc := NewService(repo, notifier, audit)
	m := seedModule(t, repo, StatusImTest)

	for _, comment := range []string{"", "   ", "\n\t"} {
		_, err := svc.RejectCriteria(context.Background(), m.ID, &RejectRequest{
			RejectedBy: "Herr Schmidt",
			Comment:    comment,
		})
		if !errors.Is(err, ErrCommentRequired) {
			t.Fatalf("comment %q: expected ErrCommentRequired, got %v", comment, err)
		}
	}

	// Nothing written, no side effects
	if repo.updates != 0 {
		t.Fatalf("expected no writes on failed rejection, got %d", repo.updates)
	}
	if len(audit.subjects) != 0 {
		t.Fatal("expected no rejection message on failed rejection")
	}
	stored, _ := repo.GetByID(context.Background(), m.ID)
	if stored.AcceptanceStatus != AcceptanceAusstehend {
		t.Fatalf("acceptance status mutated: %q", stored.AcceptanceStatus)
	}
}

func TestRejectSendsRationaleAndClearsFlag(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	audit := &stubAudit{}
	svc := NewService(repo, notifier, audit)
	m := seedModule(t, repo, StatusImTest)
	ctx := context.Background()

	if _, err := svc.RequestAcceptance(ctx, m.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !notifier.acceptanceFlagActive {
		t.Fatal("expected pending acceptance flag after request")
	}

	updated, err := svc.RejectCriteria(ctx, m.ID, &RejectRequest{
		RejectedBy: "Herr Schmidt",
		Comment:    "Antwortzeiten zu lang",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.AcceptanceStatus != AcceptanceAbgelehnt {
		t.Fatalf("expected abgelehnt, got %q", updated.AcceptanceStatus)
	}
	if notifier.acceptanceFlagActive {
		t.Fatal("expected acceptance flag cleared after rejection")
	}
	if len(audit.contents) == 0 {
		t.Fatal("expected a rejection message")
	}
	last := audit.contents[len(audit.contents)-1]
	if last != "Herr Schmidt hat die Abnahme abgelehnt: Antwortzeiten zu lang" {
		t.Fatalf("unexpected rationale: %q", last)
	}
}

func TestAcceptMarksAllCriteria(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, &stubAudit{})
	ctx := context.Background()

	detail, err := svc.Create(ctx, &CreateModuleRequest{
		CustomerID:         uuid.New().String(),
		Title:              "Angebots-Generator",
		AcceptanceCriteria: []string{"PDF-Export funktioniert", "Preislogik korrekt"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AcceptCriteria(ctx, detail.ID, &AcceptRequest{AcceptedBy: "Frau Weber"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.AcceptanceStatus != AcceptanceAkzeptiert {
		t.Fatalf("expected akzeptiert, got %q", updated.AcceptanceStatus)
	}
	if !updated.AcceptedAt.Valid || updated.AcceptedBy.String != "Frau Weber" {
		t.Fatal("acceptance fields not recorded")
	}

	criteria, _ := repo.ListCriteria(ctx, detail.ID)
	for _, c := range criteria {
		if !c.Accepted || !c.AcceptedAt.Valid {
			t.Fatalf("criterion %q not marked accepted", c.Text)
		}
	}
}

func TestCreateIntoImTestNotifies(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	svc := NewService(repo, notifier, &stubAudit{})

	_, err := svc.Create(context.Background(), &CreateModuleRequest{
		CustomerID: uuid.New().String(),
		Title:      "Rechnungs-OCR",
		Status:     "im_test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.testNotifs != 1 || !notifier.testFlagActive {
		t.Fatal("expected test notification for a module created into im_test")
	}
}

func TestToggleCriterion(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, &stubNotifier{}, &stubAudit{})
	ctx := context.Background()

	detail, err := svc.Create(ctx, &CreateModuleRequest{
		CustomerID:         uuid.New().String(),
		Title:              "Wissensdatenbank",
		AcceptanceCriteria: []string{"Suche liefert Treffer"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	criterionID := detail.AcceptanceCriteria[0].ID

	toggled, err := svc.ToggleCriterion(ctx, detail.ID, criterionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled.Accepted || !toggled.AcceptedAt.Valid {
		t.Fatal("expected criterion accepted after first toggle")
	}

	toggled, err = svc.ToggleCriterion(ctx, detail.ID, criterionID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toggled.Accepted || toggled.AcceptedAt.Valid {
		t.Fatal("expected criterion reset after second toggle")
	}
}

func TestUpdateRoutesStatusChangeThroughTransition(t *testing.T) {
	repo := newStubRepo()
	notifier := &stubNotifier{}
	audit := &stubAudit{}
	svc := NewService(repo, notifier, audit)
	m := seedModule(t, repo, StatusGeplant)

	status := "im_test"
	assignee := "Jonas"
	_, err := svc.Update(context.Background(), m.ID, &UpdateModuleRequest{
		Status:   &status,
		Assignee: &assignee,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.testNotifs != 1 {
		t.Fatalf("expected the patch to trigger the transition effects, got %d notifications", notifier.testNotifs)
	}
	if len(audit.subjects) != 1 {
		t.Fatalf("expected 1 audit message, got %d", len(audit.subjects))
	}
}
