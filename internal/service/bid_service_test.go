package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
	"bidmarket/internal/service/servicetest"
)

func newBidService(store *servicetest.Store) *BidService {
	return NewBidService(
		&servicetest.Users{S: store},
		&servicetest.Projects{S: store},
		&servicetest.Bids{S: store},
		zap.NewNop(),
	)
}

func seedOpenProject(store *servicetest.Store, buyerID int) *model.Project {
	return store.SeedProject(&model.Project{
		Title:    "Open project",
		BuyerID:  buyerID,
		Status:   model.StatusOpen,
		Deadline: time.Now().Add(24 * time.Hour),
	})
}

func TestBidCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("seller places a bid", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		svc := newBidService(store)

		bid, err := svc.Create(ctx, seller.ID, project.ID, f64(250), "Can start Monday")
		require.NoError(t, err)
		assert.Equal(t, 250.0, bid.Amount)
		require.NotNil(t, bid.Seller)
		assert.Equal(t, seller.Email, bid.Seller.Email)
		assert.NotNil(t, store.Bid(bid.ID))
	})

	t.Run("empty message is allowed", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, project.ID, f64(250), "")
		assert.NoError(t, err)
	})

	t.Run("buyer is rejected", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, _ := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		svc := newBidService(store)

		_, err := svc.Create(ctx, buyer.ID, project.ID, f64(250), "")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "Only sellers can place bids")
	})

	t.Run("missing amount", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, project.ID, nil, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project ID and amount are required")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, project.ID, f64(0), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Bid amount must be greater than 0")
	})

	t.Run("unknown project", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller := seedBuyerSeller(store)
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, 9999, f64(250), "")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "Project not found")
	})

	t.Run("deadline passed", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := store.SeedProject(&model.Project{
			Title:    "Stale",
			BuyerID:  buyer.ID,
			Status:   model.StatusOpen,
			Deadline: time.Now().Add(-time.Hour),
		})
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, project.ID, f64(250), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project bidding deadline has passed")
	})

	t.Run("assigned project", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		store.Project(project.ID).Status = model.StatusAssigned
		svc := newBidService(store)

		_, err := svc.Create(ctx, seller.ID, project.ID, f64(250), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project is no longer open for bidding")
	})
}

func TestBidUpdate(t *testing.T) {
	ctx := context.Background()

	setup := func() (*servicetest.Store, *model.User, *model.Bid) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		bid := store.SeedBid(&model.Bid{ProjectID: project.ID, SellerID: seller.ID, Amount: 100, Message: "original"})
		return store, seller, bid
	}

	t.Run("owner updates amount and message", func(t *testing.T) {
		store, seller, bid := setup()
		svc := newBidService(store)

		updated, err := svc.Update(ctx, seller.ID, bid.ID, f64(180), "revised")
		require.NoError(t, err)
		assert.Equal(t, 180.0, updated.Amount)
		assert.Equal(t, "revised", updated.Message)
		assert.Equal(t, 180.0, store.Bid(bid.ID).Amount)
	})

	t.Run("empty message keeps the existing one", func(t *testing.T) {
		store, seller, bid := setup()
		svc := newBidService(store)

		updated, err := svc.Update(ctx, seller.ID, bid.ID, f64(180), "")
		require.NoError(t, err)
		assert.Equal(t, "original", updated.Message)
		assert.Equal(t, "original", store.Bid(bid.ID).Message)
	})

	t.Run("non-owner seller", func(t *testing.T) {
		store, _, bid := setup()
		other := store.SeedUser(&model.User{Email: "other@x.com", Name: "Ola", Role: model.RoleSeller})
		svc := newBidService(store)

		_, err := svc.Update(ctx, other.ID, bid.ID, f64(180), "")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "You can only edit your own bids")
	})

	t.Run("unknown bid", func(t *testing.T) {
		store, seller, _ := setup()
		svc := newBidService(store)

		_, err := svc.Update(ctx, seller.ID, 9999, f64(180), "")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "Bid not found")
	})

	t.Run("missing amount", func(t *testing.T) {
		store, seller, bid := setup()
		svc := newBidService(store)

		_, err := svc.Update(ctx, seller.ID, bid.ID, nil, "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("project no longer open", func(t *testing.T) {
		store, seller, bid := setup()
		store.Project(bid.ProjectID).Status = model.StatusAssigned
		svc := newBidService(store)

		_, err := svc.Update(ctx, seller.ID, bid.ID, f64(180), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project is no longer open for bidding")
	})

	t.Run("deadline passed", func(t *testing.T) {
		store, seller, bid := setup()
		store.Project(bid.ProjectID).Deadline = time.Now().Add(-time.Minute)
		svc := newBidService(store)

		_, err := svc.Update(ctx, seller.ID, bid.ID, f64(180), "")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project bidding deadline has passed")
	})
}

func TestBidDelete(t *testing.T) {
	ctx := context.Background()

	setup := func() (*servicetest.Store, *model.User, *model.Bid) {
		store := servicetest.NewStore()
		buyer, seller := seedBuyerSeller(store)
		project := seedOpenProject(store, buyer.ID)
		bid := store.SeedBid(&model.Bid{ProjectID: project.ID, SellerID: seller.ID, Amount: 100})
		return store, seller, bid
	}

	t.Run("owner deletes", func(t *testing.T) {
		store, seller, bid := setup()
		svc := newBidService(store)

		require.NoError(t, svc.Delete(ctx, seller.ID, bid.ID))
		assert.Nil(t, store.Bid(bid.ID))
	})

	t.Run("non-owner seller", func(t *testing.T) {
		store, _, bid := setup()
		other := store.SeedUser(&model.User{Email: "other@x.com", Name: "Ola", Role: model.RoleSeller})
		svc := newBidService(store)

		err := svc.Delete(ctx, other.ID, bid.ID)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "You can only delete your own bids")
		assert.NotNil(t, store.Bid(bid.ID))
	})

	t.Run("project no longer open", func(t *testing.T) {
		store, seller, bid := setup()
		store.Project(bid.ProjectID).Status = model.StatusCompleted
		svc := newBidService(store)

		err := svc.Delete(ctx, seller.ID, bid.ID)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
