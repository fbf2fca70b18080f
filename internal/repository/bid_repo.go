package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bidmarket/internal/model"
	"bidmarket/pkg/metrics"
)

type BidRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBidRepository(db *pgxpool.Pool, logger *zap.Logger) *BidRepository {
	return &BidRepository{db: db, logger: logger}
}

// Create inserts a new bid.
func (r *BidRepository) Create(ctx context.Context, b *model.Bid) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "bids", time.Since(start)) }()

	query := `
        INSERT INTO bids (project_id, seller_id, amount, message)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, b.ProjectID, b.SellerID, b.Amount, b.Message).
		Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert bid",
			zap.Int("project_id", b.ProjectID),
			zap.Int("seller_id", b.SellerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ByID returns a bid with its seller summary and parent project row, as
// needed by the ownership and deadline checks on bid mutation.
func (r *BidRepository) ByID(ctx context.Context, id int) (*model.Bid, error) {
	query := `
        SELECT b.id, b.project_id, b.seller_id, b.amount, b.message, b.created_at,
               u.id, u.name, u.email,
               p.id, p.title, p.description, p.budget_min, p.budget_max,
               p.deadline, p.buyer_id, p.status, p.selected_bid_id, p.created_at
        FROM bids b
        JOIN users u ON u.id = b.seller_id
        JOIN projects p ON p.id = b.project_id
        WHERE b.id = $1
    `
	var b model.Bid
	var seller model.UserSummary
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ProjectID, &b.SellerID, &b.Amount, &b.Message, &b.CreatedAt,
		&seller.ID, &seller.Name, &seller.Email,
		&p.ID, &p.Title, &p.Description, &p.BudgetMin, &p.BudgetMax,
		&p.Deadline, &p.BuyerID, &p.Status, &p.SelectedBidID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Seller = &seller
	b.Project = &p
	return &b, nil
}

// Update rewrites a bid's amount and message.
func (r *BidRepository) Update(ctx context.Context, b *model.Bid) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("update", "bids", time.Since(start)) }()

	query := `
        UPDATE bids
        SET amount = $1, message = $2
        WHERE id = $3
    `
	_, err := r.db.Exec(ctx, query, b.Amount, b.Message, b.ID)
	if err != nil {
		r.logger.Error("Failed to update bid", zap.Int("bid_id", b.ID), zap.Error(err))
	}
	return err
}

// Delete removes a bid.
func (r *BidRepository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("delete", "bids", time.Since(start)) }()

	_, err := r.db.Exec(ctx, `DELETE FROM bids WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete bid", zap.Int("bid_id", id), zap.Error(err))
	}
	return err
}
