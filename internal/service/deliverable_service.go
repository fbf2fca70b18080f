package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
	"bidmarket/internal/upload"
)

// DeliverableService accepts staged deliverable uploads from the selected
// seller of an ASSIGNED project.
type DeliverableService struct {
	users        UserStore
	projects     ProjectStore
	bids         BidStore
	deliverables DeliverableStore
	files        FileStore
	logger       *zap.Logger
}

func NewDeliverableService(
	users UserStore,
	projects ProjectStore,
	bids BidStore,
	deliverables DeliverableStore,
	files FileStore,
	logger *zap.Logger,
) *DeliverableService {
	return &DeliverableService{
		users:        users,
		projects:     projects,
		bids:         bids,
		deliverables: deliverables,
		files:        files,
		logger:       logger,
	}
}

// Submit validates the staged file against the project lifecycle and moves
// it into durable storage. The staged copy is removed on every exit path;
// after a successful store-move the discard is a no-op.
func (s *DeliverableService) Submit(ctx context.Context, callerID, projectID int, stagedPath string) (*model.Deliverable, error) {
	defer upload.Discard(stagedPath)

	seller, err := requireRole(ctx, s.users, callerID, model.RoleSeller, "Only sellers can submit deliverables")
	if err != nil {
		return nil, err
	}

	if projectID == 0 || stagedPath == "" {
		return nil, apperrors.E(apperrors.ErrValidation, "Project ID and file are required")
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Project not found")
		}
		return nil, err
	}
	if project.Status != model.StatusAssigned {
		return nil, apperrors.E(apperrors.ErrValidation, "Project is not in ASSIGNED status")
	}

	if project.SelectedBidID == nil {
		return nil, apperrors.E(apperrors.ErrForbidden, "You are not the selected seller for this project")
	}
	selectedBid, err := s.bids.ByID(ctx, *project.SelectedBidID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrForbidden, "You are not the selected seller for this project")
		}
		return nil, err
	}
	if selectedBid.SellerID != callerID {
		return nil, apperrors.E(apperrors.ErrForbidden, "You are not the selected seller for this project")
	}

	fileURL, err := s.files.Store(ctx, stagedPath)
	if err != nil {
		return nil, err
	}

	deliverable := &model.Deliverable{
		ProjectID: projectID,
		SellerID:  callerID,
		FileURL:   fileURL,
	}
	if err := s.deliverables.Create(ctx, deliverable); err != nil {
		// The stored file is orphaned here; accepted tradeoff, the staged
		// copy is already gone.
		return nil, err
	}
	deliverable.Seller = seller.Summary()

	s.logger.Info("Deliverable submitted",
		zap.Int("deliverable_id", deliverable.ID),
		zap.Int("project_id", projectID),
		zap.Int("seller_id", callerID),
	)
	return deliverable, nil
}
