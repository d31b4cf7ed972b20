package summary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/possax-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// MockService реализует интерфейс summary.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Summary(snap *snapshot.Snapshot, f models.Filter) (models.Summary, error) {
	args := m.Called(snap, f)
	return args.Get(0).(models.Summary), args.Error(1)
}

func TestSummaryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	snap := snapshot.New(nil, nil, nil, time.Now())

	tests := []struct {
		name           string
		url            string
		withSnapshot   bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:         "успешная сводка",
			url:          "/reports/summary",
			withSnapshot: true,
			setupMock: func(m *MockService) {
				m.On("Summary", snap, models.Filter{}).
					Return(models.Summary{TotalUsers: 3, TotalStores: 2, TotalIncome: 600_000}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_users":3`,
		},
		{
			name:         "фильтр передаётся в сервис",
			url:          "/reports/summary?cities=Jakarta&subscription_types=Pro",
			withSnapshot: true,
			setupMock: func(m *MockService) {
				m.On("Summary", snap, models.Filter{
					Cities:            []string{"Jakarta"},
					SubscriptionTypes: []models.SubscriptionType{models.SubscriptionPro},
				}).Return(models.Summary{TotalUsers: 1}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total_users":1`,
		},
		{
			name:           "некорректная дата фильтра",
			url:            "/reports/summary?from=2025-01-01",
			withSnapshot:   true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field From can contain only date in format 02-01-2006`,
		},
		{
			name:           "to раньше from",
			url:            "/reports/summary?from=10-02-2025&to=09-02-2025",
			withSnapshot:   true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `to date is earlier than from date`,
		},
		{
			name:           "снимок ещё не готов",
			url:            "/reports/summary",
			withSnapshot:   false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `report data is not ready yet`,
		},
		{
			name:         "ошибка сервиса",
			url:          "/reports/summary",
			withSnapshot: true,
			setupMock: func(m *MockService) {
				m.On("Summary", snap, models.Filter{}).
					Return(models.Summary{}, errors.New("cache down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not build summary`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.withSnapshot {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.SnapshotKey, snap))
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
