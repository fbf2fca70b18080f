package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bidmarket/internal/model"
	"bidmarket/pkg/metrics"
)

type DeliverableRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDeliverableRepository(db *pgxpool.Pool, logger *zap.Logger) *DeliverableRepository {
	return &DeliverableRepository{db: db, logger: logger}
}

// Create inserts a deliverable record.
func (r *DeliverableRepository) Create(ctx context.Context, d *model.Deliverable) error {
	start := time.Now()
	defer func() { metrics.RecordDBQueryDuration("insert", "deliverables", time.Since(start)) }()

	query := `
        INSERT INTO deliverables (project_id, seller_id, file_url)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query, d.ProjectID, d.SellerID, d.FileURL).
		Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert deliverable",
			zap.Int("project_id", d.ProjectID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
