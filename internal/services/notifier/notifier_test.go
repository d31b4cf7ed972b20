package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/possax-admin/internal/lib/expiry"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

type DashboardMock struct{ mock.Mock }

func (m *DashboardMock) Refresh(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *DashboardMock) Snapshot() (*snapshot.Snapshot, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*snapshot.Snapshot), args.Error(1)
}

func (m *DashboardMock) Expiring(snap *snapshot.Snapshot, f models.Filter, w expiry.Window, now time.Time) ([]models.ExpiringStoreRow, []models.ExpiringTrendRow, []models.User) {
	args := m.Called(snap, f, w, now)
	var rows []models.ExpiringStoreRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]models.ExpiringStoreRow)
	}
	var owners []models.User
	if args.Get(2) != nil {
		owners = args.Get(2).([]models.User)
	}
	return rows, nil, owners
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRunScan_NoSnapshot(t *testing.T) {
	dash := new(DashboardMock)
	dash.On("Refresh", mock.Anything).Return(errors.New("db down")).Once()
	dash.On("Snapshot").Return(nil, errors.New("no snapshot available yet")).Once()

	svc := New(dash, newNoopLogger())

	// канал не используется: скан прерывается до публикации
	svc.runScan(context.Background(), nil)

	dash.AssertExpectations(t)
	dash.AssertNotCalled(t, "Expiring")
}

func TestRunScan_RefreshFailureUsesPreviousSnapshot(t *testing.T) {
	snap := snapshot.New(nil, nil, nil, time.Now())

	dash := new(DashboardMock)
	dash.On("Refresh", mock.Anything).Return(errors.New("db down")).Once()
	dash.On("Snapshot").Return(snap, nil).Once()
	dash.On("Expiring", snap, models.Filter{}, expiry.Window7d, mock.Anything).
		Return(nil, nil, nil).Once()

	svc := New(dash, newNoopLogger())

	svc.runScan(context.Background(), nil)

	dash.AssertExpectations(t)
}

func TestRunScan_NoExpiringStores(t *testing.T) {
	snap := snapshot.New(nil, nil, nil, time.Now())

	dash := new(DashboardMock)
	dash.On("Refresh", mock.Anything).Return(nil).Once()
	dash.On("Snapshot").Return(snap, nil).Once()
	dash.On("Expiring", snap, models.Filter{}, expiry.Window7d, mock.Anything).
		Return([]models.ExpiringStoreRow{}, nil, []models.User{}).Once()

	svc := New(dash, newNoopLogger())

	svc.runScan(context.Background(), nil)

	dash.AssertExpectations(t)
}
