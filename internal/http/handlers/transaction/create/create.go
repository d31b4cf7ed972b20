// Package create реализует HTTP-обработчик создания транзакций подписки
// для набора магазинов (write-intent).
//
// Handler принимает JSON-запрос с областью применения, тарифом, длительностью
// и суммой, валидирует его, вызывает бизнес-логику и возвращает список
// целевых магазинов для подтверждения.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/http/response"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
)

// Service описывает интерфейс бизнес-логики создания транзакций.
type Service interface {
	Create(ctx context.Context, req models.DummyCreateTransaction) ([]int, error)
}

// Handler управляет HTTP-запросами на создание транзакций подписки.
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
// @Summary Создать транзакции подписки
// @Description Создает по одной транзакции для каждого целевого магазина и возвращает их список.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body models.DummyCreateTransaction true "Параметры write-intent"
// @Success 200 {object} map[string]any "Целевые магазины"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь или магазин не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /transactions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCreateTransaction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	targets, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case apperr.IsValidation(err):
			log.Error("write-intent rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		case apperr.IsNotFound(err):
			log.Error("write-intent target not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to create transactions", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create transactions"))
		}
		return
	}

	log.Info("transactions created", slog.Int("stores", len(targets)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"target_store_ids": targets,
	}))
}
