package writeintent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTransaction(ctx context.Context, tx models.SubscriptionTransaction) (int, error) {
	args := m.Called(ctx, tx)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpdateStoreSubscriptionType(ctx context.Context, storeID int, t models.SubscriptionType) error {
	return m.Called(ctx, storeID, t).Error(0)
}

func (m *RepoMock) CancelTransaction(ctx context.Context, storeID, txnID int, reason *string) (int, error) {
	args := m.Called(ctx, storeID, txnID, reason)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newHolder(snap *snapshot.Snapshot) *snapshot.Holder {
	h := snapshot.NewHolder()
	if snap != nil {
		h.Set(snap)
	}
	return h
}

func testSnapshot() *snapshot.Snapshot {
	return snapshot.New(
		[]models.User{
			{UserID: 1, Stores: []int{2}},
			{UserID: 2, Stores: []int{99}}, // связь с несуществующим магазином
			{UserID: 3},                    // без владения и связей
		},
		[]models.Store{
			{StoreID: 1, OwnerUserID: 1},
			{StoreID: 2, OwnerUserID: 2},
			{StoreID: 3, OwnerUserID: 2},
		},
		nil, time.Now(),
	)
}

func TestCreate_ByUserUnionOfOwnedAndAssociated(t *testing.T) {
	repo := new(RepoMock)
	// пользователь 1: владеет магазином 1, связан с магазином 2
	for _, sid := range []int{1, 2} {
		repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.SubscriptionTransaction) bool {
			return tx.Type == models.SubscriptionPro && tx.IsActive && tx.AmountPaid == 400_000
		})).Return(10+sid, nil).Once()
		repo.On("UpdateStoreSubscriptionType", mock.Anything, sid, models.SubscriptionPro).Return(nil).Once()
	}

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	targets, err := svc.Create(context.Background(), models.DummyCreateTransaction{
		Scope:           models.ScopeByUser,
		SelectedUserIDs: []int{1},
		Type:            "Pro",
		DurationDays:    30,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, targets)
	repo.AssertExpectations(t)
}

func TestCreate_ByUserSkipsDanglingStoreRefs(t *testing.T) {
	repo := new(RepoMock)
	// пользователь 2: владеет магазинами 2 и 3, связь с магазином 99 пропускается
	for _, sid := range []int{2, 3} {
		repo.On("CreateTransaction", mock.Anything, mock.Anything).Return(sid, nil).Once()
		repo.On("UpdateStoreSubscriptionType", mock.Anything, sid, models.SubscriptionBasic).Return(nil).Once()
	}

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	targets, err := svc.Create(context.Background(), models.DummyCreateTransaction{
		Scope:           models.ScopeByUser,
		SelectedUserIDs: []int{2},
		Type:            "Basic",
		DurationDays:    90,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, targets)
	repo.AssertExpectations(t)
}

func TestCreate_ByStoreExplicitList(t *testing.T) {
	repo := new(RepoMock)
	amount := 150_000
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.SubscriptionTransaction) bool {
		return tx.StoreID == 3 && tx.AmountPaid == amount
	})).Return(1, nil).Once()
	repo.On("UpdateStoreSubscriptionType", mock.Anything, 3, models.SubscriptionBasic).Return(nil).Once()

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	targets, err := svc.Create(context.Background(), models.DummyCreateTransaction{
		Scope:        models.ScopeByStore,
		StoreIDs:     []int{3},
		Type:         "Basic",
		DurationDays: 180,
		Amount:       &amount,
	})

	require.NoError(t, err)
	assert.Equal(t, []int{3}, targets)
	repo.AssertExpectations(t)
}

func TestCreate_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  models.DummyCreateTransaction
	}{
		{
			name: "unknown type",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByStore, StoreIDs: []int{1}, Type: "Gold", DurationDays: 30},
		},
		{
			name: "duration not accepted",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByStore, StoreIDs: []int{1}, Type: "Pro", DurationDays: 45},
		},
		{
			name: "empty target set",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByStore, Type: "Pro", DurationDays: 30},
		},
		{
			name: "user without owned or associated stores",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByUser, SelectedUserIDs: []int{3}, Type: "Pro", DurationDays: 30},
		},
		{
			name: "unknown scope",
			req:  models.DummyCreateTransaction{Scope: "by_city", Type: "Pro", DurationDays: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

			_, err := svc.Create(context.Background(), tt.req)

			require.Error(t, err)
			assert.True(t, apperr.IsValidation(err))
			repo.AssertNotCalled(t, "CreateTransaction")
		})
	}
}

func TestCreate_NegativeAmount(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())
	amount := -1

	_, err := svc.Create(context.Background(), models.DummyCreateTransaction{
		Scope:        models.ScopeByStore,
		StoreIDs:     []int{1},
		Type:         "Pro",
		DurationDays: 30,
		Amount:       &amount,
	})

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCreate_UnknownTargets(t *testing.T) {
	tests := []struct {
		name string
		req  models.DummyCreateTransaction
		kind string
	}{
		{
			name: "unknown user",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByUser, SelectedUserIDs: []int{42}, Type: "Pro", DurationDays: 30},
			kind: "user",
		},
		{
			name: "unknown store",
			req:  models.DummyCreateTransaction{Scope: models.ScopeByStore, StoreIDs: []int{42}, Type: "Pro", DurationDays: 30},
			kind: "store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

			_, err := svc.Create(context.Background(), tt.req)

			require.Error(t, err)
			var nf *apperr.NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.kind, nf.Kind)
			assert.Equal(t, 42, nf.ID)
		})
	}
}

func TestCreate_NoSnapshot(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newHolder(nil), newNoopLogger())

	_, err := svc.Create(context.Background(), models.DummyCreateTransaction{
		Scope:        models.ScopeByStore,
		StoreIDs:     []int{1},
		Type:         "Pro",
		DurationDays: 30,
	})

	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
}

func TestCancel_Success(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CancelTransaction", mock.Anything, 1, 5, mock.MatchedBy(func(r *string) bool {
		return r != nil && *r == "duplicate payment"
	})).Return(1, nil).Once()

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	err := svc.Cancel(context.Background(), 1, 5, "duplicate payment")

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCancel_EmptyReasonPassedAsNil(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CancelTransaction", mock.Anything, 1, 5, (*string)(nil)).Return(1, nil).Once()

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	require.NoError(t, svc.Cancel(context.Background(), 1, 5, ""))
	repo.AssertExpectations(t)
}

func TestCancel_MissingTransactionID(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	err := svc.Cancel(context.Background(), 1, 0, "")

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	repo.AssertNotCalled(t, "CancelTransaction")
}

func TestCancel_TransactionNotInStore(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CancelTransaction", mock.Anything, 1, 5, (*string)(nil)).Return(0, nil).Once()

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	err := svc.Cancel(context.Background(), 1, 5, "")

	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestCancel_RepositoryError(t *testing.T) {
	repo := new(RepoMock)
	repo.On("CancelTransaction", mock.Anything, 1, 5, (*string)(nil)).
		Return(0, errors.New("db error")).Once()

	svc := New(repo, newHolder(testSnapshot()), newNoopLogger())

	err := svc.Cancel(context.Background(), 1, 5, "")

	require.Error(t, err)
	assert.False(t, apperr.IsValidation(err))
}
