package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/volunteer-service/internal/domain"
	"github.com/spec-kit/volunteer-service/internal/events"
	"github.com/spec-kit/volunteer-service/internal/notify"
	"github.com/spec-kit/volunteer-service/internal/repository"
)

type fakeVolunteerRepo struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]domain.Volunteer
	now       time.Time
	createErr error
	lastList  repository.VolunteerFilter
}

func newFakeVolunteerRepo() *fakeVolunteerRepo {
	return &fakeVolunteerRepo{items: map[int64]domain.Volunteer{}, now: time.Date(2024, 3, 5, 14, 7, 0, 0, time.UTC)}
}

func (f *fakeVolunteerRepo) Create(_ context.Context, v *domain.Volunteer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	v.ID = f.nextID
	v.SignupDate, v.CreatedAt, v.UpdatedAt = f.now, f.now, f.now
	for i := range v.Ministries {
		v.Ministries[i].VolunteerID = v.ID
	}
	f.items[v.ID] = *v
	return nil
}

func (f *fakeVolunteerRepo) Update(_ context.Context, v *domain.Volunteer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.items[v.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	v.SignupDate, v.CreatedAt = old.SignupDate, old.CreatedAt
	f.items[v.ID] = *v
	return nil
}

func (f *fakeVolunteerRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeVolunteerRepo) GetByID(_ context.Context, id int64) (*domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &v, nil
}

func (f *fakeVolunteerRepo) List(_ context.Context, filter repository.VolunteerFilter) ([]domain.Volunteer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = filter
	out := make([]domain.Volunteer, 0, len(f.items))
	for _, v := range f.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeVolunteerRepo) CountByArea(context.Context) ([]repository.AreaCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[[2]string]int64{}
	for _, v := range f.items {
		for _, m := range v.Ministries {
			counts[[2]string{m.Category, m.MinistryArea}]++
		}
	}
	var out []repository.AreaCount
	for k, n := range counts {
		out = append(out, repository.AreaCount{Category: k[0], MinistryArea: k[1], Volunteers: n})
	}
	return out, nil
}

type fakeAdminRepo struct {
	mu        sync.Mutex
	nextID    int64
	items     map[int64]domain.AdminUser
	createErr error
	updateErr error
}

func newFakeAdminRepo(admins ...domain.AdminUser) *fakeAdminRepo {
	f := &fakeAdminRepo{items: map[int64]domain.AdminUser{}}
	for _, a := range admins {
		if a.ID > f.nextID {
			f.nextID = a.ID
		}
		f.items[a.ID] = a
	}
	return f
}

func (f *fakeAdminRepo) Create(_ context.Context, a *domain.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	a.Email = strings.ToLower(a.Email)
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAdminRepo) UpdateProfile(_ context.Context, a *domain.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	old, ok := f.items[a.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	old.Name, old.IsActive = a.Name, a.IsActive
	f.items[a.ID] = old
	return nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	old, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	old.PasswordHash = hash
	f.items[id] = old
	return nil
}

func (f *fakeAdminRepo) GetByID(_ context.Context, id int64) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &a, nil
}

func (f *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if strings.EqualFold(a.Email, email) {
			return &a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdminRepo) List(context.Context) ([]domain.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.AdminUser, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeAdminRepo) TransferSuperAdmin(_ context.Context, fromID, toID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	from, ok := f.items[fromID]
	if !ok || !from.IsSuperAdmin {
		return repository.ErrNotSuperAdmin
	}
	to, ok := f.items[toID]
	if !ok || !to.IsActive {
		return pgx.ErrNoRows
	}
	from.IsSuperAdmin, to.IsSuperAdmin = false, true
	f.items[fromID], f.items[toID] = from, to
	return nil
}

func (f *fakeAdminRepo) get(id int64) domain.AdminUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id]
}

type fakeNoteRepo struct {
	nextID int64
	items  map[int64]domain.VolunteerNote
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{items: map[int64]domain.VolunteerNote{}}
}

func (f *fakeNoteRepo) Create(_ context.Context, n *domain.VolunteerNote) error {
	f.nextID++
	n.ID = f.nextID
	f.items[n.ID] = *n
	return nil
}

func (f *fakeNoteRepo) GetByID(_ context.Context, id int64) (*domain.VolunteerNote, error) {
	n, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &n, nil
}

func (f *fakeNoteRepo) ListByVolunteer(_ context.Context, volunteerID int64) ([]domain.VolunteerNote, error) {
	var out []domain.VolunteerNote
	for _, n := range f.items {
		if n.VolunteerID == volunteerID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeNoteRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

type fakeResetRepo struct {
	nextID int64
	items  map[string]*domain.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{items: map[string]*domain.PasswordResetToken{}}
}

func (f *fakeResetRepo) Create(_ context.Context, t *domain.PasswordResetToken) error {
	f.nextID++
	t.ID = f.nextID
	cp := *t
	f.items[t.Token] = &cp
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	t, ok := f.items[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeResetRepo) MarkUsed(_ context.Context, id int64) error {
	for _, t := range f.items {
		if t.ID == id {
			if t.UsedAt != nil {
				return pgx.ErrNoRows
			}
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.published = append(d.published, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

type fakeMailer struct {
	sent []notify.Message
	err  error
}

func (m *fakeMailer) Name() string { return "fake" }

func (m *fakeMailer) Send(_ context.Context, msg notify.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeLimiter struct {
	blocked  bool
	failures map[string]int
	resets   int
}

func (l *fakeLimiter) Allowed(context.Context, string) bool { return !l.blocked }

func (l *fakeLimiter) RecordFailure(_ context.Context, email string) {
	if l.failures == nil {
		l.failures = map[string]int{}
	}
	l.failures[email]++
}

func (l *fakeLimiter) Reset(context.Context, string) { l.resets++ }

func ptr[T any](v T) *T { return &v }
