package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spaceship-fleet/maintenance-portal/internal/apierr"
	"spaceship-fleet/maintenance-portal/internal/pagination"
)

func TestHTTPError_MessageFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  HTTPError
		want string
	}{
		{"human message", HTTPError{StatusCode: 404, Object: &apierr.Error{Message: "repairman.absent.error", HumanMessage: "Repairman with id=3 not found"}}, "Repairman with id=3 not found"},
		{"machine message", HTTPError{StatusCode: 400, Object: &apierr.Error{Message: "validation.error"}}, "validation.error"},
		{"body text", HTTPError{StatusCode: 502, Body: "bad gateway\n"}, "bad gateway"},
		{"status code", HTTPError{StatusCode: 503}, "HTTP 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClient_DecodesErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":409,"message":"maintenance.request.immutable.error","humanMessage":"Maintenance request 4 is COMPLETED and can no longer be changed"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).UpdateRequest(context.Background(), 4, nil)
	require.Error(t, err)
	assert.Equal(t, "Maintenance request 4 is COMPLETED and can no longer be changed", err.Error())
	assert.True(t, errors.Is(err, apierr.MaintenanceRequestImmutable(0, "")))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.StatusCode)
}

func TestClient_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).GetRepairman(context.Background(), 1)
	assert.EqualError(t, err, "upstream down")
}

func TestClient_ListSendsPage(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		assert.Equal(t, "/repairmen", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Hicks","position":"Welder"}]`))
	}))
	defer srv.Close()

	rows, err := NewClient(srv.URL+"/", time.Second).ListRepairmen(context.Background(), pagination.Page{Number: 2, Size: 5})
	require.NoError(t, err)
	assert.Equal(t, "page=2&size=5", query)
	require.Len(t, rows, 1)
	assert.Equal(t, "Hicks", rows[0].Name)
}

func TestStreamURL(t *testing.T) {
	u, err := streamURL("http://localhost:8080/", "repairmen")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/ws/repairmen", u)

	u, err = streamURL("https://portal.example.com/api", "ping")
	require.NoError(t, err)
	assert.Equal(t, "wss://portal.example.com/api/ws/ping", u)
}
