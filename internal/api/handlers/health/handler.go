package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/m04kA/SMC-EventBookingService/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

// Database источник состояния пула (*sql.DB)
type Database interface {
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
}

type Logger interface {
	Error(format string, v ...interface{})
}

// Response состояние сервиса
type Response struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Pool     PoolStats `json:"pool"`
	Time     time.Time `json:"time"`
}

// PoolStats статистика пула соединений
type PoolStats struct {
	Open    int `json:"open"`
	InUse   int `json:"inUse"`
	Idle    int `json:"idle"`
	MaxOpen int `json:"maxOpen"`
}

type Handler struct {
	db     Database
	logger Logger
}

func NewHandler(db Database, logger Logger) *Handler {
	return &Handler{db: db, logger: logger}
}

// Handle GET /health
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	stats := h.db.Stats()
	resp := Response{
		Status:   "ok",
		Database: "up",
		Pool: PoolStats{
			Open:    stats.OpenConnections,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
			MaxOpen: stats.MaxOpenConnections,
		},
		Time: time.Now().UTC(),
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("GET /health - Database ping failed: %v", err)
		resp.Status = "degraded"
		resp.Database = "down"
		handlers.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
