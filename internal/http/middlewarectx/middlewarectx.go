// Package middlewarectx содержит middleware, закрепляющее снимок цикла
// за HTTP-запросом. Каждый запрос читает ровно один снимок: даже если цикл
// обновится во время обработки, все вычисления запроса останутся согласованными.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/possax-admin/internal/http/response"
	"github.com/magabrotheeeer/possax-admin/internal/snapshot"
)

type contextKey string

// SnapshotKey — ключ контекста, под которым хранится снимок запроса.
const SnapshotKey contextKey = "snapshot"

// SnapshotProvider выдаёт актуальный снимок цикла.
type SnapshotProvider interface {
	Snapshot() (*snapshot.Snapshot, error)
}

// SnapshotMiddleware кладёт актуальный снимок в контекст запроса.
// Пока первый цикл не выполнился, запросы получают 503.
func SnapshotMiddleware(provider SnapshotProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, err := provider.Snapshot()
			if err != nil {
				log.Error("no snapshot for request")
				w.WriteHeader(http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("report data is not ready yet"))
				return
			}
			ctx := context.WithValue(r.Context(), SnapshotKey, snap)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SnapshotFrom возвращает снимок, закреплённый за запросом.
func SnapshotFrom(ctx context.Context) (*snapshot.Snapshot, bool) {
	snap, ok := ctx.Value(SnapshotKey).(*snapshot.Snapshot)
	return snap, ok && snap != nil
}
