// Package summary реализует HTTP-обработчик сводных метрик панели:
// количество пользователей и магазинов, Pro/Basic магазины и суммарный доход
// по отфильтрованной выборке.
package summary

import (
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики сводных метрик.
type Service interface {
	Summary(snap *snapshot.Snapshot, f models.Filter) (models.Summary, error)
}

// Handler управляет HTTP-запросами сводных метрик.
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
// @Summary Сводные метрики панели
// @Description Возвращает ключевые метрики по отфильтрованной выборке.
// @Tags Reports
// @Produce json
// @Param from query string false "Начало диапазона CreatedAt, формат 02-01-2006"
// @Param to query string false "Конец диапазона CreatedAt, формат 02-01-2006"
// @Param cities query []string false "Допустимые города"
// @Param roles query []string false "Допустимые роли"
// @Param subscription_types query []string false "Допустимые тарифы"
// @Success 200 {object} map[string]any "Сводные метрики"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации фильтра"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.summary"
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

	sum, err := h.service.Summary(snap, filter)
	if err != nil {
		log.Error("failed to build summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build summary"))
		return
	}

	log.Info("summary built", slog.String("snapshot", snap.Version))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"summary": sum,
	}))
}
