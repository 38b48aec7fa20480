package repairmen

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/config"
	"spaceship-fleet/maintenance-portal/internal/database"
)

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	db, err := database.Open(config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "repairmen.db"),
	}, logger, &Entity{})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	router := gin.New()
	NewHandler(NewService(NewRepository(db), nopPublisher{}, logger), logger).RegisterRoutes(router.Group(""))
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Lifecycle(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/repairmen", map[string]string{"name": "Ripley", "position": "Engineer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Repairman
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)

	w = do(t, router, http.MethodPut, "/repairmen/"+itoa(created.ID), map[string]string{"position": "Chief Engineer"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated Repairman
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, Repairman{ID: created.ID, Name: "Ripley", Position: "Chief Engineer"}, updated)

	w = do(t, router, http.MethodGet, "/repairmen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []Repairman
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, []Repairman{updated}, list)

	w = do(t, router, http.MethodDelete, "/repairmen/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, http.MethodGet, "/repairmen/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var e apierr.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "repairman.absent.error", e.Message)
}

func TestHandler_CreateValidation(t *testing.T) {
	router := setupRouter(t)

	w := do(t, router, http.MethodPost, "/repairmen", map[string]string{"name": "Vasquez"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e apierr.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, "repairman.validation.error", e.Message)

	w = do(t, router, http.MethodGet, "/repairmen/one", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
