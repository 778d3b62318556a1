package service

import (
	"context"
	"fmt"
	"sync"

	"donor-reconciler/internal/core/domain"
	"donor-reconciler/internal/core/ports"
)

// fakeCRM is an in-memory CRM tenant. Setting an entry in failOn makes the
// named method return that error.
type fakeCRM struct {
	mu       sync.Mutex
	instance domain.Instance
	seq      int

	matches      []domain.DuplicateMatch
	constituents map[string]domain.Constituent
	prefs        map[string][]domain.Preference
	tags         map[string][]string
	activities   []domain.Activity
	declarations map[string][]domain.GiftAidDeclaration
	transactions map[string]domain.Transaction
	updates      int
	failOn       map[string]error
}

func newFakeCRM(instance domain.Instance) *fakeCRM {
	return &fakeCRM{
		instance:     instance,
		constituents: map[string]domain.Constituent{},
		prefs:        map[string][]domain.Preference{},
		tags:         map[string][]string{},
		declarations: map[string][]domain.GiftAidDeclaration{},
		transactions: map[string]domain.Transaction{},
		failOn:       map[string]error{},
	}
}

func (f *fakeCRM) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeCRM) fail(method string) error {
	return f.failOn[method]
}

func (f *fakeCRM) Instance() domain.Instance { return f.instance }

func (f *fakeCRM) DuplicateCheck(_ context.Context, _ string) ([]domain.DuplicateMatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DuplicateCheck"); err != nil {
		return nil, err
	}
	return f.matches, nil
}

func (f *fakeCRM) CreateConstituent(_ context.Context, c domain.Constituent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateConstituent"); err != nil {
		return "", err
	}
	c.ID = f.nextID("con")
	f.constituents[c.ID] = c
	return c.ID, nil
}

func (f *fakeCRM) GetConstituent(_ context.Context, id string) (*domain.Constituent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetConstituent"); err != nil {
		return nil, err
	}
	c, ok := f.constituents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCRM) UpdateConstituent(_ context.Context, c domain.Constituent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdateConstituent"); err != nil {
		return err
	}
	if _, ok := f.constituents[c.ID]; !ok {
		return domain.ErrNotFound
	}
	f.constituents[c.ID] = c
	f.updates++
	return nil
}

func (f *fakeCRM) DeleteConstituent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.constituents, id)
	return nil
}

func (f *fakeCRM) GetPreferences(_ context.Context, constituentID string) ([]domain.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prefs[constituentID], nil
}

func (f *fakeCRM) UpdatePreferences(_ context.Context, constituentID string, prefs []domain.Preference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("UpdatePreferences"); err != nil {
		return err
	}
	f.prefs[constituentID] = prefs
	return nil
}

func (f *fakeCRM) AddTags(_ context.Context, constituentID string, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("AddTags"); err != nil {
		return err
	}
	f.tags[constituentID] = append(f.tags[constituentID], tags...)
	return nil
}

func (f *fakeCRM) RemoveTag(_ context.Context, constituentID string, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tags[constituentID][:0]
	for _, t := range f.tags[constituentID] {
		if t != tag {
			kept = append(kept, t)
		}
	}
	f.tags[constituentID] = kept
	return nil
}

func (f *fakeCRM) GetTags(_ context.Context, constituentID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags[constituentID], nil
}

func (f *fakeCRM) CreateActivity(_ context.Context, activity domain.Activity) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateActivity"); err != nil {
		return "", err
	}
	f.activities = append(f.activities, activity)
	return f.nextID("act"), nil
}

func (f *fakeCRM) CreateGiftAidDeclaration(_ context.Context, constituentID string, decl domain.GiftAidDeclaration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateGiftAidDeclaration"); err != nil {
		return "", err
	}
	f.declarations[constituentID] = append(f.declarations[constituentID], decl)
	return f.nextID("ga"), nil
}

func (f *fakeCRM) CreateTransaction(_ context.Context, tx domain.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("CreateTransaction"); err != nil {
		return "", err
	}
	tx.ID = f.nextID("tx")
	f.transactions[tx.ID] = tx
	return tx.ID, nil
}

func (f *fakeCRM) GetTransaction(_ context.Context, id string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tx, ok := f.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &tx, nil
}

func (f *fakeCRM) DeleteTransaction(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.transactions, id)
	return nil
}

// fakeRegistry serves fakeCRM tenants, creating them on first use.
type fakeRegistry struct {
	clients map[domain.Instance]*fakeCRM
	err     error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{clients: map[domain.Instance]*fakeCRM{}}
}

func (r *fakeRegistry) Client(instance domain.Instance) (ports.CRMClient, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.tenant(instance), nil
}

func (r *fakeRegistry) tenant(instance domain.Instance) *fakeCRM {
	c, ok := r.clients[instance]
	if !ok {
		c = newFakeCRM(instance)
		r.clients[instance] = c
	}
	return c
}

// recordingMailer keeps every message it is asked to send.
type recordingMailer struct {
	mu   sync.Mutex
	sent []ports.TemplateMessage
	err  error
}

func (m *recordingMailer) SendTemplate(_ context.Context, msg ports.TemplateMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func boolPtr(v bool) *bool { return &v }

// memEventRepo is an in-memory ledger table applying the same update guard
// as the webhook_events upsert.
type memEventRepo struct {
	mu   sync.Mutex
	rows map[string]domain.WebhookEvent
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{rows: map[string]domain.WebhookEvent{}}
}

func (r *memEventRepo) GetByEventID(_ context.Context, eventID string) (*domain.WebhookEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[eventID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *memEventRepo) Upsert(_ context.Context, e *domain.WebhookEvent) (domain.EventStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rows[e.EventID]
	if !ok {
		r.rows[e.EventID] = *e
		return e.Status, nil
	}

	row := existing
	if domain.CanTransition(existing.Status, e.Status) {
		row.Status = e.Status
		row.Notes = e.Notes
	}
	if e.Payload != nil {
		row.Payload = e.Payload
	}
	row.Links = e.Links.Coalesce(existing.Links)
	if e.ProcessedAt != nil {
		row.ProcessedAt = e.ProcessedAt
	}
	row.UpdatedAt = e.UpdatedAt
	r.rows[e.EventID] = row
	return row.Status, nil
}
