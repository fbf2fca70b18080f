// Package servicetest provides in-memory store fakes implementing the
// service store interfaces, for tests that exercise lifecycle rules without
// a database.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"bidmarket/internal/model"
	"bidmarket/internal/repository"
)

// Store is a single in-memory data store backing all fake store views.
type Store struct {
	mu           sync.Mutex
	users        map[int]*model.User
	projects     map[int]*model.Project
	bids         map[int]*model.Bid
	deliverables map[int]*model.Deliverable
	nextID       int
	clock        time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[int]*model.User),
		projects:     make(map[int]*model.Project),
		bids:         make(map[int]*model.Bid),
		deliverables: make(map[int]*model.Deliverable),
		clock:        time.Now().Add(-time.Hour),
	}
}

func (s *Store) allocate() (int, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

// SeedUser inserts a user directly, bypassing signup.
func (s *Store) SeedUser(u *model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID, u.CreatedAt = s.allocate()
	s.users[u.ID] = u
	return u
}

// SeedProject inserts a project directly.
func (s *Store) SeedProject(p *model.Project) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID, p.CreatedAt = s.allocate()
	if p.Status == "" {
		p.Status = model.StatusOpen
	}
	s.projects[p.ID] = p
	return p
}

// SeedBid inserts a bid directly.
func (s *Store) SeedBid(b *model.Bid) *model.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID, b.CreatedAt = s.allocate()
	s.bids[b.ID] = b
	return b
}

// SeedDeliverable inserts a deliverable directly.
func (s *Store) SeedDeliverable(d *model.Deliverable) *model.Deliverable {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID, d.CreatedAt = s.allocate()
	s.deliverables[d.ID] = d
	return d
}

// Project returns the stored project row, for assertions.
func (s *Store) Project(id int) *model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects[id]
}

// Bid returns the stored bid row, for assertions.
func (s *Store) Bid(id int) *model.Bid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bids[id]
}

func (s *Store) userSummary(id int) *model.UserSummary {
	if u, ok := s.users[id]; ok {
		return u.Summary()
	}
	return nil
}

func copyProject(p *model.Project) *model.Project {
	cp := *p
	cp.Buyer = nil
	cp.Bids = nil
	cp.SelectedBid = nil
	cp.Deliverables = nil
	if p.SelectedBidID != nil {
		id := *p.SelectedBidID
		cp.SelectedBidID = &id
	}
	return &cp
}

func copyBid(b *model.Bid) *model.Bid {
	cb := *b
	cb.Seller = nil
	cb.Project = nil
	return &cb
}

// Users is the UserStore view.
type Users struct{ S *Store }

func (f *Users) Create(ctx context.Context, u *model.User) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	u.ID, u.CreatedAt = f.S.allocate()
	f.S.users[u.ID] = u
	return nil
}

func (f *Users) ByEmail(ctx context.Context, email string) (*model.User, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	for _, u := range f.S.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *Users) ByID(ctx context.Context, id int) (*model.User, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	u, ok := f.S.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

// Projects is the ProjectStore view.
type Projects struct{ S *Store }

func (f *Projects) Create(ctx context.Context, p *model.Project) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	p.ID, p.CreatedAt = f.S.allocate()
	stored := copyProject(p)
	f.S.projects[p.ID] = stored
	return nil
}

func (f *Projects) List(ctx context.Context) ([]*model.Project, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	var projects []*model.Project
	for _, p := range f.S.projects {
		cp := copyProject(p)
		cp.Buyer = f.S.userSummary(p.BuyerID)
		projects = append(projects, cp)
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

func (f *Projects) Get(ctx context.Context, id int) (*model.Project, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	p, ok := f.S.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return copyProject(p), nil
}

func (f *Projects) ByID(ctx context.Context, id int) (*model.Project, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	p, ok := f.S.projects[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}

	cp := copyProject(p)
	cp.Buyer = f.S.userSummary(p.BuyerID)

	for _, b := range f.S.bids {
		if b.ProjectID != id {
			continue
		}
		cb := copyBid(b)
		cb.Seller = f.S.userSummary(b.SellerID)
		cp.Bids = append(cp.Bids, cb)
	}
	sort.Slice(cp.Bids, func(i, j int) bool {
		return cp.Bids[i].CreatedAt.After(cp.Bids[j].CreatedAt)
	})

	if cp.SelectedBidID != nil {
		for _, b := range cp.Bids {
			if b.ID == *cp.SelectedBidID {
				cp.SelectedBid = b
				break
			}
		}
	}

	for _, d := range f.S.deliverables {
		if d.ProjectID != id {
			continue
		}
		cd := *d
		cd.Seller = f.S.userSummary(d.SellerID)
		cp.Deliverables = append(cp.Deliverables, &cd)
	}
	sort.Slice(cp.Deliverables, func(i, j int) bool {
		return cp.Deliverables[i].CreatedAt.After(cp.Deliverables[j].CreatedAt)
	})

	return cp, nil
}

func (f *Projects) AssignBid(ctx context.Context, projectID, bidID int) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	p, ok := f.S.projects[projectID]
	if !ok || p.Status != model.StatusOpen {
		return repository.ErrStaleStatus
	}
	p.Status = model.StatusAssigned
	id := bidID
	p.SelectedBidID = &id
	return nil
}

func (f *Projects) Complete(ctx context.Context, projectID int) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	p, ok := f.S.projects[projectID]
	if !ok || p.Status != model.StatusAssigned {
		return repository.ErrStaleStatus
	}
	p.Status = model.StatusCompleted
	return nil
}

// Bids is the BidStore view.
type Bids struct{ S *Store }

func (f *Bids) Create(ctx context.Context, b *model.Bid) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	b.ID, b.CreatedAt = f.S.allocate()
	f.S.bids[b.ID] = copyBid(b)
	return nil
}

func (f *Bids) ByID(ctx context.Context, id int) (*model.Bid, error) {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	b, ok := f.S.bids[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cb := copyBid(b)
	cb.Seller = f.S.userSummary(b.SellerID)
	if p, ok := f.S.projects[b.ProjectID]; ok {
		cb.Project = copyProject(p)
	}
	return cb, nil
}

func (f *Bids) Update(ctx context.Context, b *model.Bid) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	stored, ok := f.S.bids[b.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Amount = b.Amount
	stored.Message = b.Message
	return nil
}

func (f *Bids) Delete(ctx context.Context, id int) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	delete(f.S.bids, id)
	return nil
}

// Deliverables is the DeliverableStore view.
type Deliverables struct{ S *Store }

func (f *Deliverables) Create(ctx context.Context, d *model.Deliverable) error {
	f.S.mu.Lock()
	defer f.S.mu.Unlock()
	d.ID, d.CreatedAt = f.S.allocate()
	cd := *d
	cd.Seller = nil
	f.S.deliverables[d.ID] = &cd
	return nil
}

// Notification is one captured dispatch.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// DispatcherFake records dispatched notifications.
type DispatcherFake struct {
	mu   sync.Mutex
	Sent []Notification
}

func (d *DispatcherFake) Dispatch(ctx context.Context, to, subject, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Sent = append(d.Sent, Notification{To: to, Subject: subject, Body: body})
}
