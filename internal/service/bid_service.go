package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
	"bidmarket/pkg/metrics"
)

// BidService owns bid placement and the ownership/deadline guards on bid
// mutation. Bids are mutable only while the parent project is OPEN and its
// deadline has not passed.
type BidService struct {
	users    UserStore
	projects ProjectStore
	bids     BidStore
	logger   *zap.Logger
}

func NewBidService(users UserStore, projects ProjectStore, bids BidStore, logger *zap.Logger) *BidService {
	return &BidService{users: users, projects: projects, bids: bids, logger: logger}
}

// Create places a bid on an open project.
func (s *BidService) Create(ctx context.Context, callerID, projectID int, amount *float64, message string) (*model.Bid, error) {
	seller, err := requireRole(ctx, s.users, callerID, model.RoleSeller, "Only sellers can place bids")
	if err != nil {
		return nil, err
	}

	if projectID == 0 || amount == nil {
		return nil, apperrors.E(apperrors.ErrValidation, "Project ID and amount are required")
	}
	if *amount <= 0 {
		return nil, apperrors.E(apperrors.ErrValidation, "Bid amount must be greater than 0")
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Project not found")
		}
		return nil, err
	}
	if project.Deadline.Before(time.Now()) {
		return nil, apperrors.E(apperrors.ErrValidation, "Project bidding deadline has passed")
	}
	if project.Status != model.StatusOpen {
		return nil, apperrors.E(apperrors.ErrValidation, "Project is no longer open for bidding")
	}

	bid := &model.Bid{
		ProjectID: projectID,
		SellerID:  callerID,
		Amount:    *amount,
		Message:   message,
	}
	if err := s.bids.Create(ctx, bid); err != nil {
		return nil, err
	}
	bid.Seller = seller.Summary()

	metrics.IncrementBidsPlaced()
	s.logger.Info("Bid placed",
		zap.Int("bid_id", bid.ID),
		zap.Int("project_id", projectID),
		zap.Int("seller_id", callerID),
	)
	return bid, nil
}

// guardMutable checks ownership and the mutation window shared by update and
// delete.
func (s *BidService) guardMutable(ctx context.Context, callerID, bidID int, ownerMessage string) (*model.Bid, error) {
	bid, err := s.bids.ByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Bid not found")
		}
		return nil, err
	}

	if bid.SellerID != callerID {
		return nil, apperrors.E(apperrors.ErrForbidden, ownerMessage)
	}
	if bid.Project.Deadline.Before(time.Now()) {
		return nil, apperrors.E(apperrors.ErrValidation, "Project bidding deadline has passed")
	}
	if bid.Project.Status != model.StatusOpen {
		return nil, apperrors.E(apperrors.ErrValidation, "Project is no longer open for bidding")
	}
	return bid, nil
}

// Update rewrites a bid's amount, keeping the existing message when none is
// provided.
func (s *BidService) Update(ctx context.Context, callerID, bidID int, amount *float64, message string) (*model.Bid, error) {
	if bidID == 0 || amount == nil {
		return nil, apperrors.E(apperrors.ErrValidation, "Bid ID and amount are required")
	}
	if *amount <= 0 {
		return nil, apperrors.E(apperrors.ErrValidation, "Bid amount must be greater than 0")
	}

	bid, err := s.guardMutable(ctx, callerID, bidID, "You can only edit your own bids")
	if err != nil {
		return nil, err
	}

	bid.Amount = *amount
	if message != "" {
		bid.Message = message
	}
	if err := s.bids.Update(ctx, bid); err != nil {
		return nil, err
	}

	s.logger.Info("Bid updated", zap.Int("bid_id", bidID), zap.Int("seller_id", callerID))
	return bid, nil
}

// Delete removes a bid, subject to the same guards as update.
func (s *BidService) Delete(ctx context.Context, callerID, bidID int) error {
	if bidID == 0 {
		return apperrors.E(apperrors.ErrValidation, "Bid ID is required")
	}

	bid, err := s.guardMutable(ctx, callerID, bidID, "You can only delete your own bids")
	if err != nil {
		return err
	}

	if err := s.bids.Delete(ctx, bid.ID); err != nil {
		return err
	}

	s.logger.Info("Bid deleted", zap.Int("bid_id", bidID), zap.Int("seller_id", callerID))
	return nil
}
