package service

import (
	"context"

	"bidmarket/internal/model"
)

// Store interfaces are satisfied by the pgx repositories and by in-memory
// fakes in tests. Services depend on these, never on the pool directly.

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int) (*model.User, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	List(ctx context.Context) ([]*model.Project, error)
	// Get returns the bare project row; ByID embeds buyer, bids, selected
	// bid and deliverables.
	Get(ctx context.Context, id int) (*model.Project, error)
	ByID(ctx context.Context, id int) (*model.Project, error)
	// AssignBid and Complete are conditional on the current status and
	// return repository.ErrStaleStatus when the transition lost a race.
	AssignBid(ctx context.Context, projectID, bidID int) error
	Complete(ctx context.Context, projectID int) error
}

type BidStore interface {
	Create(ctx context.Context, b *model.Bid) error
	// ByID loads the bid with its seller summary and parent project row.
	ByID(ctx context.Context, id int) (*model.Bid, error)
	Update(ctx context.Context, b *model.Bid) error
	Delete(ctx context.Context, id int) error
}

type DeliverableStore interface {
	Create(ctx context.Context, d *model.Deliverable) error
}

// FileStore persists a staged upload durably and returns its public URL.
type FileStore interface {
	Store(ctx context.Context, stagedPath string) (string, error)
}

// NotificationDispatcher delivers notifications best-effort; it never
// reports failure to the caller.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, to, subject, body string)
}
