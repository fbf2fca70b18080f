package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
	"bidmarket/internal/notify"
	"bidmarket/internal/repository"
)

// ProjectService owns the project lifecycle: creation, listing, the
// OPEN -> ASSIGNED transition (bid selection) and the ASSIGNED -> COMPLETED
// transition.
type ProjectService struct {
	users    UserStore
	projects ProjectStore
	bids     BidStore
	notifier NotificationDispatcher
	logger   *zap.Logger
}

func NewProjectService(
	users UserStore,
	projects ProjectStore,
	bids BidStore,
	notifier NotificationDispatcher,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		users:    users,
		projects: projects,
		bids:     bids,
		notifier: notifier,
		logger:   logger,
	}
}

type CreateProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	BudgetMin   *float64 `json:"budgetMin"`
	BudgetMax   *float64 `json:"budgetMax"`
	Deadline    string   `json:"deadline"`
}

func parseDeadline(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Create persists a new OPEN project for a buyer.
func (s *ProjectService) Create(ctx context.Context, callerID int, in CreateProjectInput) (*model.Project, error) {
	buyer, err := requireRole(ctx, s.users, callerID, model.RoleBuyer, "Only buyers can create projects")
	if err != nil {
		return nil, err
	}

	if in.Title == "" || in.Description == "" || in.BudgetMin == nil || in.BudgetMax == nil || in.Deadline == "" {
		return nil, apperrors.E(apperrors.ErrValidation, "All fields are required")
	}

	if *in.BudgetMin < 0 || *in.BudgetMax < *in.BudgetMin {
		return nil, apperrors.E(apperrors.ErrValidation, "Invalid budget range")
	}

	deadline, ok := parseDeadline(in.Deadline)
	if !ok || !deadline.After(time.Now()) {
		return nil, apperrors.E(apperrors.ErrValidation, "Deadline must be a valid date in the future")
	}

	project := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		BudgetMin:   *in.BudgetMin,
		BudgetMax:   *in.BudgetMax,
		Deadline:    deadline,
		BuyerID:     callerID,
		Status:      model.StatusOpen,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	project.Buyer = buyer.Summary()

	s.logger.Info("Project created",
		zap.Int("project_id", project.ID),
		zap.Int("buyer_id", callerID),
	)
	return project, nil
}

// List returns all projects with buyer summaries, newest first.
func (s *ProjectService) List(ctx context.Context) ([]*model.Project, error) {
	return s.projects.List(ctx)
}

// GetByID returns a project with its buyer, bids, selected bid and
// deliverables embedded.
func (s *ProjectService) GetByID(ctx context.Context, id int) (*model.Project, error) {
	project, err := s.projects.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Project not found")
		}
		return nil, err
	}
	return project, nil
}

// SelectBid moves a project from OPEN to ASSIGNED with the chosen bid and
// notifies the winning seller.
func (s *ProjectService) SelectBid(ctx context.Context, callerID, projectID, bidID int) (*model.Project, error) {
	if projectID == 0 || bidID == 0 {
		return nil, apperrors.E(apperrors.ErrValidation, "Project ID and Bid ID are required")
	}

	buyer, err := requireRole(ctx, s.users, callerID, model.RoleBuyer, "Only buyers can select bids")
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Project not found")
		}
		return nil, err
	}
	if project.BuyerID != callerID {
		return nil, apperrors.E(apperrors.ErrForbidden, "You can only select bids for your own projects")
	}
	if !project.Status.CanTransition(model.StatusAssigned) {
		return nil, apperrors.E(apperrors.ErrValidation, "Project is not open for bid selection")
	}

	bid, err := s.bids.ByID(ctx, bidID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Bid not found or does not belong to this project")
		}
		return nil, err
	}
	if bid.ProjectID != projectID {
		return nil, apperrors.E(apperrors.ErrNotFound, "Bid not found or does not belong to this project")
	}

	// Conditional update: a concurrent selection that won the race turns
	// this into the same rejection as a stale status pre-check.
	if err := s.projects.AssignBid(ctx, projectID, bidID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.E(apperrors.ErrValidation, "Project is not open for bid selection")
		}
		return nil, err
	}

	s.logger.Info("Bid selected",
		zap.Int("project_id", projectID),
		zap.Int("bid_id", bidID),
		zap.Int("seller_id", bid.SellerID),
	)

	updated, err := s.projects.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	subject, body := notify.BidSelectedMessage(
		bid.Seller.Name, buyer.Name, buyer.Email, project.Title, bid.Amount,
	)
	s.notifier.Dispatch(ctx, bid.Seller.Email, subject, body)

	return updated, nil
}

// Complete moves a project from ASSIGNED to COMPLETED and notifies both
// parties.
func (s *ProjectService) Complete(ctx context.Context, callerID, projectID int) (*model.Project, error) {
	if projectID == 0 {
		return nil, apperrors.E(apperrors.ErrValidation, "Project ID is required")
	}

	buyer, err := requireRole(ctx, s.users, callerID, model.RoleBuyer, "Only buyers can mark projects as completed")
	if err != nil {
		return nil, err
	}

	project, err := s.projects.ByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.E(apperrors.ErrNotFound, "Project not found")
		}
		return nil, err
	}
	if project.BuyerID != callerID {
		return nil, apperrors.E(apperrors.ErrForbidden, "You can only complete your own projects")
	}
	if !project.Status.CanTransition(model.StatusCompleted) {
		return nil, apperrors.E(apperrors.ErrValidation, "Project is not in ASSIGNED status")
	}
	if len(project.Deliverables) == 0 {
		return nil, apperrors.E(apperrors.ErrValidation, "Cannot complete project without deliverables")
	}
	if project.SelectedBid == nil || project.SelectedBid.Seller == nil {
		return nil, apperrors.E(apperrors.ErrValidation, "No selected bid or seller found for this project")
	}

	if err := s.projects.Complete(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.E(apperrors.ErrValidation, "Project is not in ASSIGNED status")
		}
		return nil, err
	}

	s.logger.Info("Project completed",
		zap.Int("project_id", projectID),
		zap.Int("buyer_id", callerID),
	)

	updated, err := s.projects.ByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	seller := project.SelectedBid.Seller
	subject, body := notify.ProjectCompletedSellerMessage(seller.Name, buyer.Name, buyer.Email, project.Title)
	s.notifier.Dispatch(ctx, seller.Email, subject, body)

	subject, body = notify.ProjectCompletedBuyerMessage(buyer.Name, project.Title)
	s.notifier.Dispatch(ctx, buyer.Email, subject, body)

	return updated, nil
}
