// Package stores реализует HTTP-обработчик таблицы магазинов
// с производными полями, отсортированной по близости окончания подписки.
package stores

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
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
	"github.com/magabrotheeeer/possax-admin/internal/services/dashboard"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

// Service описывает интерфейс бизнес-логики таблицы магазинов.
type Service interface {
	Stores(snap *snapshot.Snapshot, f models.Filter, now time.Time) []models.ExpiringStoreRow
}

// Handler управляет HTTP-запросами таблицы магазинов.
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
// @Summary Таблица магазинов
// @Description Магазины с окном подписки и владельцем, от самых близких к истечению.
// @Tags Listings
// @Produce json
// @Param from query string false "Начало диапазона CreatedAt, формат 02-01-2006"
// @Param to query string false "Конец диапазона CreatedAt, формат 02-01-2006"
// @Param cities query []string false "Допустимые города"
// @Param roles query []string false "Допустимые роли"
// @Param subscription_types query []string false "Допустимые тарифы"
// @Success 200 {object} map[string]any "Магазины"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации фильтра"
// @Router /stores [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.stores"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	result := h.service.Stores(snap, filter, time.Now())

	log.Info("stores listed", slog.Int("count", len(result)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":  len(result),
		"stores": result,
	}))
}
