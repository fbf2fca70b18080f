package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bidmarket/internal/model"
	"bidmarket/pkg/metrics"
)

// ErrStaleStatus is returned by conditional status updates when the project
// was no longer in the expected status, e.g. two concurrent bid selections.
var ErrStaleStatus = errors.New("project status changed")

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// Create inserts a new project with status OPEN.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "projects", time.Since(start)) }()

	query := `
        INSERT INTO projects (title, description, budget_min, budget_max, deadline, buyer_id, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		p.Title, p.Description, p.BudgetMin, p.BudgetMax, p.Deadline, p.BuyerID, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err))
		return err
	}
	return nil
}

// List returns all projects with their buyer summaries, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "projects", time.Since(start)) }()

	query := `
        SELECT p.id, p.title, p.description, p.budget_min, p.budget_max,
               p.deadline, p.buyer_id, p.status, p.selected_bid_id, p.created_at,
               u.id, u.name, u.email
        FROM projects p
        JOIN users u ON u.id = p.buyer_id
        ORDER BY p.created_at DESC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var p model.Project
		var buyer model.UserSummary
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.BudgetMin, &p.BudgetMax,
			&p.Deadline, &p.BuyerID, &p.Status, &p.SelectedBidID, &p.CreatedAt,
			&buyer.ID, &buyer.Name, &buyer.Email,
		)
		if err != nil {
			return nil, err
		}
		p.Buyer = &buyer
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Get returns a bare project row without embedded relations.
func (r *ProjectRepository) Get(ctx context.Context, id int) (*model.Project, error) {
	query := `
        SELECT id, title, description, budget_min, budget_max,
               deadline, buyer_id, status, selected_bid_id, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.BudgetMin, &p.BudgetMax,
		&p.Deadline, &p.BuyerID, &p.Status, &p.SelectedBidID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ByID returns one project with buyer summary, bids (newest first, each with
// seller summary), the selected bid if any, and deliverables.
func (r *ProjectRepository) ByID(ctx context.Context, id int) (*model.Project, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("select", "projects", time.Since(start)) }()

	query := `
        SELECT p.id, p.title, p.description, p.budget_min, p.budget_max,
               p.deadline, p.buyer_id, p.status, p.selected_bid_id, p.created_at,
               u.id, u.name, u.email
        FROM projects p
        JOIN users u ON u.id = p.buyer_id
        WHERE p.id = $1
    `
	var p model.Project
	var buyer model.UserSummary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.BudgetMin, &p.BudgetMax,
		&p.Deadline, &p.BuyerID, &p.Status, &p.SelectedBidID, &p.CreatedAt,
		&buyer.ID, &buyer.Name, &buyer.Email,
	)
	if err != nil {
		return nil, err
	}
	p.Buyer = &buyer

	if p.Bids, err = r.bidsForProject(ctx, id); err != nil {
		return nil, err
	}

	if p.SelectedBidID != nil {
		for _, b := range p.Bids {
			if b.ID == *p.SelectedBidID {
				p.SelectedBid = b
				break
			}
		}
	}

	if p.Deliverables, err = r.deliverablesForProject(ctx, id); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProjectRepository) bidsForProject(ctx context.Context, projectID int) ([]*model.Bid, error) {
	query := `
        SELECT b.id, b.project_id, b.seller_id, b.amount, b.message, b.created_at,
               u.id, u.name, u.email
        FROM bids b
        JOIN users u ON u.id = b.seller_id
        WHERE b.project_id = $1
        ORDER BY b.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*model.Bid
	for rows.Next() {
		var b model.Bid
		var seller model.UserSummary
		err := rows.Scan(
			&b.ID, &b.ProjectID, &b.SellerID, &b.Amount, &b.Message, &b.CreatedAt,
			&seller.ID, &seller.Name, &seller.Email,
		)
		if err != nil {
			return nil, err
		}
		b.Seller = &seller
		bids = append(bids, &b)
	}
	return bids, rows.Err()
}

func (r *ProjectRepository) deliverablesForProject(ctx context.Context, projectID int) ([]*model.Deliverable, error) {
	query := `
        SELECT d.id, d.project_id, d.seller_id, d.file_url, d.created_at,
               u.id, u.name, u.email
        FROM deliverables d
        JOIN users u ON u.id = d.seller_id
        WHERE d.project_id = $1
        ORDER BY d.created_at DESC
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliverables []*model.Deliverable
	for rows.Next() {
		var d model.Deliverable
		var seller model.UserSummary
		err := rows.Scan(
			&d.ID, &d.ProjectID, &d.SellerID, &d.FileURL, &d.CreatedAt,
			&seller.ID, &seller.Name, &seller.Email,
		)
		if err != nil {
			return nil, err
		}
		d.Seller = &seller
		deliverables = append(deliverables, &d)
	}
	return deliverables, rows.Err()
}

// AssignBid moves a project from OPEN to ASSIGNED and records the winning
// bid. The update is conditional on the status still being OPEN so that
// concurrent selections cannot both win.
func (r *ProjectRepository) AssignBid(ctx context.Context, projectID, bidID int) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "projects", time.Since(start)) }()

	query := `
        UPDATE projects
        SET status = $1, selected_bid_id = $2
        WHERE id = $3 AND status = $4
    `
	tag, err := r.db.Exec(ctx, query, model.StatusAssigned, bidID, projectID, model.StatusOpen)
	if err != nil {
		r.logger.Error("Failed to assign bid",
			zap.Int("project_id", projectID),
			zap.Int("bid_id", bidID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}

// Complete moves a project from ASSIGNED to COMPLETED, conditional on the
// status still being ASSIGNED.
func (r *ProjectRepository) Complete(ctx context.Context, projectID int) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "projects", time.Since(start)) }()

	query := `
        UPDATE projects
        SET status = $1
        WHERE id = $2 AND status = $3
    `
	tag, err := r.db.Exec(ctx, query, model.StatusCompleted, projectID, model.StatusAssigned)
	if err != nil {
		r.logger.Error("Failed to complete project",
			zap.Int("project_id", projectID),
			zap.Error(err),
		)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}
	return nil
}
