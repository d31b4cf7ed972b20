// Package cancel реализует HTTP-обработчик отмены транзакции подписки
// магазина (write-intent). История не удаляется: транзакция помечается
// отменённой, окно подписки пересчитывается на следующем цикле.
package cancel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/possax-admin/internal/apperr"
	"github.com/magabrotheeeer/possax-admin/internal/http/response"
	"github.com/magabrotheeeer/possax-admin/internal/lib/sl"
	"github.com/magabrotheeeer/possax-admin/internal/models"
)

// Service описывает интерфейс бизнес-логики отмены транзакции.
type Service interface {
	Cancel(ctx context.Context, storeID, txnID int, reason string) error
}

// Handler управляет HTTP-запросами на отмену транзакции подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить транзакцию подписки
// @Description Помечает транзакцию магазина отменённой, не удаляя историю.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param storeID path int true "Идентификатор магазина"
// @Param id path int true "Идентификатор транзакции"
// @Param request body models.DummyCancelTransaction false "Причина отмены"
// @Success 200 {object} map[string]any "Транзакция отменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 422 {object} response.ErrorResponse "Транзакция не относится к магазину"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stores/{storeID}/transactions/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.transaction.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	storeID, err := strconv.Atoi(chi.URLParam(r, "storeID"))
	if err != nil {
		log.Error("failed to decode store id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode store id from url"))
		return
	}
	txnID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode transaction id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode transaction id from url"))
		return
	}

	var req models.DummyCancelTransaction
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.service.Cancel(r.Context(), storeID, txnID, req.Reason); err != nil {
		switch {
		case apperr.IsValidation(err):
			log.Error("write-intent rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to cancel transaction", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not cancel transaction"))
		}
		return
	}

	log.Info("transaction cancelled",
		slog.Int("store_id", storeID),
		slog.Int("transaction_id", txnID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"store_id":       storeID,
		"transaction_id": txnID,
	}))
}
