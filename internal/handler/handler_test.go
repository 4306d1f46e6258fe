package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Shivanand-hulikatti/event-registry/internal/model"
	"github.com/Shivanand-hulikatti/event-registry/internal/repository"
	"github.com/Shivanand-hulikatti/event-registry/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<h1>events</h1>"), 0o644))

	svc := service.NewEventService(repository.NewEventManager(), nil, zerolog.Nop())
	h := NewEventHandler(svc, zerolog.Nop())
	return NewRouter(h, zerolog.Nop(), RouterOptions{WebDir: webDir, MetricsEnabled: true})
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func status(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp model.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Status
}

func listEvents(t *testing.T, router http.Handler) []model.EventSummary {
	t.Helper()
	rr := do(t, router, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var resp model.EventsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Events
}

func TestRegistrationScenario(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, "success", status(t, do(t, router, http.MethodPost, "/add_event",
		`{"name":"Hack","desc":"desc","date":"2024-01-01","capacity":1}`)))

	reg := func(roll string) string {
		return status(t, do(t, router, http.MethodPost, "/register",
			`{"event":"Hack","name":"Asha","roll":"`+roll+`","dept":"CSE"}`))
	}
	assert.Equal(t, "registered", reg("R1"))
	assert.Equal(t, "already_registered", reg("R1"))
	assert.Equal(t, "full", reg("R2"))

	events := listEvents(t, router)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventSummary{Name: "Hack", Description: "desc", Date: "2024-01-01", Capacity: 1, Count: 1}, events[0])

	assert.Equal(t, "event_not_found", status(t, do(t, router, http.MethodPost, "/register",
		`{"event":"Other","name":"Asha","roll":"R1","dept":"CSE"}`)))
}

func TestListEventsEmpty(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/events", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"events":[]}`, rr.Body.String())
}

func TestListEventsRawShape(t *testing.T) {
	router := newTestRouter(t)
	status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"B","desc":"b","date":"d","capacity":"2"}`))
	status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"A","desc":"a","date":"d","capacity":3}`))

	rr := do(t, router, http.MethodGet, "/events", "")
	assert.JSONEq(t, `{"events":[
		{"name":"B","desc":"b","date":"d","capacity":2,"count":0},
		{"name":"A","desc":"a","date":"d","capacity":3,"count":0}
	]}`, rr.Body.String())
}

func TestLargeCapacityFormsAgree(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, "success", status(t, do(t, router, http.MethodPost, "/add_event",
		`{"name":"N","desc":"","date":"","capacity":3000000000}`)))
	assert.Equal(t, "success", status(t, do(t, router, http.MethodPost, "/add_event",
		`{"name":"S","desc":"","date":"","capacity":"3000000000"}`+"\n")))

	events := listEvents(t, router)
	require.Len(t, events, 2)
	assert.Equal(t, 3000000000, events[0].Capacity)
	assert.Equal(t, 3000000000, events[1].Capacity)
}

func TestSearch(t *testing.T) {
	router := newTestRouter(t)
	status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"Hack","desc":"","date":"","capacity":5}`))

	rr := do(t, router, http.MethodPost, "/search", `{"event":"Hack"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"found","participants":[]}`, rr.Body.String())

	status(t, do(t, router, http.MethodPost, "/register", `{"event":"Hack","name":"Asha","roll":"R1","dept":"CSE"}`))
	status(t, do(t, router, http.MethodPost, "/register", `{"event":"Hack","name":"Ravi","roll":"R2","dept":"ECE"}`))

	rr = do(t, router, http.MethodPost, "/search", `{"event":"Hack"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"found","participants":[
		{"name":"Asha","roll":"R1","dept":"CSE"},
		{"name":"Ravi","roll":"R2","dept":"ECE"}
	]}`, rr.Body.String())

	assert.Equal(t, "event_not_found", status(t, do(t, router, http.MethodPost, "/search", `{"event":"Nope"}`)))
}

func TestUpdateEvent(t *testing.T) {
	router := newTestRouter(t)
	status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"Hack","desc":"desc","date":"2024-01-01","capacity":1}`))

	assert.Equal(t, "updated", status(t, do(t, router, http.MethodPost, "/update_event", `{"name":"Hack","capacity":3}`)))
	got := listEvents(t, router)[0]
	assert.Equal(t, "desc", got.Description)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, 3, got.Capacity)

	assert.Equal(t, "updated", status(t, do(t, router, http.MethodPost, "/update_event",
		`{"name":"Hack","desc":"new","date":"","capacity":null}`)))
	got = listEvents(t, router)[0]
	assert.Equal(t, "new", got.Description)
	assert.Equal(t, "2024-01-01", got.Date)
	assert.Equal(t, 3, got.Capacity)

	assert.Equal(t, "event_not_found", status(t, do(t, router, http.MethodPost, "/update_event", `{"name":"Nope","desc":"x"}`)))
}

func TestDeleteEvent(t *testing.T) {
	router := newTestRouter(t)
	status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"Hack","desc":"","date":"","capacity":1}`))

	assert.Equal(t, "deleted", status(t, do(t, router, http.MethodPost, "/delete_event", `{"name":"Hack"}`)))
	assert.Empty(t, listEvents(t, router))

	assert.Equal(t, "deleted", status(t, do(t, router, http.MethodPost, "/delete_event", `{"name":"Hack"}`)))
}

func TestMalformedInputIsHardFailure(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/add_event", `{"name":`},
		{"missing capacity", "/add_event", `{"name":"Hack","desc":"","date":""}`},
		{"non numeric capacity", "/add_event", `{"name":"Hack","desc":"","date":"","capacity":"many"}`},
		{"null name", "/delete_event", `{"name":null}`},
		{"missing roll", "/register", `{"event":"Hack","name":"Asha","dept":"CSE"}`},
		{"missing event", "/search", `{}`},
		{"missing update name", "/update_event", `{"desc":"x"}`},
		{"bad update capacity", "/update_event", `{"name":"Hack","capacity":""}`},
		{"not an object", "/register", `[]`},
		{"trailing garbage", "/add_event", `{"name":"T","desc":"d","date":"x","capacity":1}garbage`},
		{"two objects", "/delete_event", `{"name":"Hack"} {"name":"Hack"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			status(t, do(t, router, http.MethodPost, "/add_event", `{"name":"Hack","desc":"d","date":"x","capacity":1}`))

			rr := do(t, router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rr.Code)
			var resp model.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)

			events := listEvents(t, router)
			require.Len(t, events, 1)
			assert.Equal(t, model.EventSummary{Name: "Hack", Description: "d", Date: "x", Capacity: 1, Count: 0}, events[0])
		})
	}
}

func TestStaticFallback(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>events</h1>")

	rr = do(t, router, http.MethodGet, "/missing.css", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// GET on a POST-only path is not an API call.
	rr = do(t, router, http.MethodGet, "/register", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "eventreg_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	rr := do(t, router, http.MethodOptions, "/register", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
