package health

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDB struct {
	pingErr error
}

func (f fakeDB) PingContext(context.Context) error { return f.pingErr }

func (f fakeDB) Stats() sql.DBStats {
	return sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2, MaxOpenConnections: 25}
}

type nopLogger struct{}

func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	t.Run("database up", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(fakeDB{}, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
		assert.Contains(t, rec.Body.String(), `"maxOpen":25`)
	})

	t.Run("database down", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHandler(fakeDB{pingErr: errors.New("refused")}, nopLogger{}).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"down"`)
		assert.NotContains(t, rec.Body.String(), "refused")
	})
}
