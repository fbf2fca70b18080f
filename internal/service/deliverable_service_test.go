package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bidmarket/internal/apperrors"
	"bidmarket/internal/model"
	"bidmarket/internal/service/servicetest"
	"bidmarket/internal/storage"
)

func newDeliverableService(t *testing.T, store *servicetest.Store) (*DeliverableService, string) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocal(dir)
	require.NoError(t, err)

	svc := NewDeliverableService(
		&servicetest.Users{S: store},
		&servicetest.Projects{S: store},
		&servicetest.Bids{S: store},
		&servicetest.Deliverables{S: store},
		files,
		zap.NewNop(),
	)
	return svc, dir
}

func stageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

func seedAssignedProject(store *servicetest.Store) (*model.User, *model.User, *model.Project) {
	buyer, seller := seedBuyerSeller(store)
	project := store.SeedProject(&model.Project{
		Title:    "Assigned project",
		BuyerID:  buyer.ID,
		Status:   model.StatusAssigned,
		Deadline: time.Now().Add(24 * time.Hour),
	})
	bid := store.SeedBid(&model.Bid{ProjectID: project.ID, SellerID: seller.ID, Amount: 200})
	store.Project(project.ID).SelectedBidID = &bid.ID
	return buyer, seller, project
}

func TestDeliverableSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("selected seller submits", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller, project := seedAssignedProject(store)
		svc, storeDir := newDeliverableService(t, store)
		staged := stageFile(t)

		deliverable, err := svc.Submit(ctx, seller.ID, project.ID, staged)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(deliverable.FileURL, storage.URLPrefix))
		require.NotNil(t, deliverable.Seller)
		assert.Equal(t, seller.Email, deliverable.Seller.Email)

		// The staged copy is gone and the durable copy exists.
		_, err = os.Stat(staged)
		assert.True(t, os.IsNotExist(err))
		stored := filepath.Join(storeDir, strings.TrimPrefix(deliverable.FileURL, storage.URLPrefix))
		_, err = os.Stat(stored)
		assert.NoError(t, err)
	})

	assertStagedRemoved := func(t *testing.T, staged string) {
		t.Helper()
		_, err := os.Stat(staged)
		assert.True(t, os.IsNotExist(err), "staged file should be discarded on rejection")
	}

	t.Run("buyer is rejected", func(t *testing.T) {
		store := servicetest.NewStore()
		buyer, _, project := seedAssignedProject(store)
		svc, _ := newDeliverableService(t, store)
		staged := stageFile(t)

		_, err := svc.Submit(ctx, buyer.ID, project.ID, staged)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "Only sellers can submit deliverables")
		assertStagedRemoved(t, staged)
	})

	t.Run("unknown project", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller, _ := seedAssignedProject(store)
		svc, _ := newDeliverableService(t, store)
		staged := stageFile(t)

		_, err := svc.Submit(ctx, seller.ID, 9999, staged)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		assert.EqualError(t, err, "Project not found")
		assertStagedRemoved(t, staged)
	})

	t.Run("project not assigned", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller, project := seedAssignedProject(store)
		store.Project(project.ID).Status = model.StatusOpen
		svc, _ := newDeliverableService(t, store)
		staged := stageFile(t)

		_, err := svc.Submit(ctx, seller.ID, project.ID, staged)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.EqualError(t, err, "Project is not in ASSIGNED status")
		assertStagedRemoved(t, staged)
	})

	t.Run("seller who lost the bid", func(t *testing.T) {
		store := servicetest.NewStore()
		_, _, project := seedAssignedProject(store)
		loser := store.SeedUser(&model.User{Email: "loser@x.com", Name: "Lou", Role: model.RoleSeller})
		svc, _ := newDeliverableService(t, store)
		staged := stageFile(t)

		_, err := svc.Submit(ctx, loser.ID, project.ID, staged)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.EqualError(t, err, "You are not the selected seller for this project")
		assertStagedRemoved(t, staged)
	})

	t.Run("assigned project without a selected bid", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller, project := seedAssignedProject(store)
		store.Project(project.ID).SelectedBidID = nil
		svc, _ := newDeliverableService(t, store)
		staged := stageFile(t)

		_, err := svc.Submit(ctx, seller.ID, project.ID, staged)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assertStagedRemoved(t, staged)
	})

	t.Run("repeat submissions accumulate", func(t *testing.T) {
		store := servicetest.NewStore()
		_, seller, project := seedAssignedProject(store)
		svc, _ := newDeliverableService(t, store)

		_, err := svc.Submit(ctx, seller.ID, project.ID, stageFile(t))
		require.NoError(t, err)
		_, err = svc.Submit(ctx, seller.ID, project.ID, stageFile(t))
		require.NoError(t, err)

		projects := &servicetest.Projects{S: store}
		full, err := projects.ByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Len(t, full.Deliverables, 2)
	})
}
