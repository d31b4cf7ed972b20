// Package expiring реализует HTTP-обработчик отчёта об истекающих подписках:
// магазины выбранного окна истечения, тренд по датам окончания
// и затронутые владельцы.
package expiring

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/possax-admin/internal/http/filterquery"
	"github.com/magabrotheeeer/possax-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/possax-admin/internal/http/response"
	"github.com/magabrotheeeer/possax-admin/internal/lib/expiry"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/services/dashboard"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// Service описывает интерфейс бизнес-логики отчёта об истекающих подписках.
type Service interface {
	Expiring(snap *snapshot.Snapshot, f models.Filter, w expiry.Window, now time.Time) ([]models.ExpiringStoreRow, []models.ExpiringTrendRow, []models.User)
}

// Handler управляет HTTP-запросами отчёта об истекающих подписках.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Истекающие подписки магазинов
// @Description Магазины выбранного окна истечения, тренд и затронутые владельцы.
// @Tags Reports
// @Produce json
// @Param window query string false "Окно истечения: all, 7d, 14d, 30d, expired"
// @Param from query string false "Начало диапазона CreatedAt, формат 02-01-2006"
// @Param to query string false "Конец диапазона CreatedAt, формат 02-01-2006"
// @Param cities query []string false "Допустимые города"
// @Param roles query []string false "Допустимые роли"
// @Param subscription_types query []string false "Допустимые тарифы"
// @Success 200 {object} map[string]any "Отчёт об истекающих подписках"
// @Failure 422 {object} response.ErrorResponse "Некорректное окно или фильтр"
// @Router /reports/expiring [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.expiring"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	window, err := expiry.ParseWindow(r.URL.Query().Get("window"))
	if err != nil {
		log.Error("failed to parse expiry window", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	req := filterquery.FromQuery(r.URL.Query())
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	filter, err := dashboard.ParseFilter(req)
	if err != nil {
		log.Error("failed to parse filter", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	snap, ok := middlewarectx.SnapshotFrom(r.Context())
	if !ok {
		log.Error("snapshot not found in context")
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("report data is not ready yet"))
		return
	}

	stores, trendRows, owners := h.service.Expiring(snap, filter, window, time.Now())

	log.Info("expiring report built",
		slog.String("window", string(window)),
		slog.Int("stores", len(stores)),
		slog.Int("owners", len(owners)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"window":          window,
		"stores":          stores,
		"trend":           trendRows,
		"affected_owners": owners,
	}))
}
