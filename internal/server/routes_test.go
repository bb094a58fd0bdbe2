package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/listsync/internal/database"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := database.New([]string{"tasks", "journal"})
	ts := httptest.NewServer(NewHandler(db, slog.New(slog.NewTextHandler(io.Discard, nil))))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestCollectionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/tasks", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, body = do(t, http.MethodPost, ts.URL+"/tasks", `{"task":"Buy milk","priority":"Medium","completed":false}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"id":"1","task":"Buy milk","priority":"Medium","completed":false}`, body)

	resp, body = do(t, http.MethodPut, ts.URL+"/tasks/1", `{"completed":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"1","task":"Buy milk","priority":"Medium","completed":true}`, body)

	resp, body = do(t, http.MethodGet, ts.URL+"/tasks/1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"1","task":"Buy milk","priority":"Medium","completed":true}`, body)

	resp, _ = do(t, http.MethodDelete, ts.URL+"/tasks/1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, ts.URL+"/tasks/1", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "record not found")

	_, body = do(t, http.MethodGet, ts.URL+"/tasks", "")
	assert.JSONEq(t, `[]`, body)
}

func TestResourcesAreIsolated(t *testing.T) {
	ts := newTestServer(t)

	do(t, http.MethodPost, ts.URL+"/tasks", `{"task":"a"}`)
	_, body := do(t, http.MethodPost, ts.URL+"/journal", `{"entry":"b"}`)
	assert.JSONEq(t, `{"id":"1","entry":"b"}`, body)

	resp, body := do(t, http.MethodGet, ts.URL+"/recipes", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Unknown resource \"recipes\""}`, body)
}

func TestBadBodies(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "Request body must not be empty"},
		{"syntax", `{"task":`, "Request body contains badly-formed JSON"},
		{"array", `["a"]`, "Request body must be a JSON object"},
		{"null", `null`, "Request body must be a JSON object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/tasks", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var got map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &got))
			assert.Contains(t, got["error"], tt.want)
		})
	}
}

func TestUpdateUnknownID(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := do(t, http.MethodPut, ts.URL+"/tasks/42", `{"completed":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndIndex(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"records_tasks":"0"`)

	_, body = do(t, http.MethodGet, ts.URL+"/", "")
	assert.JSONEq(t, `{"message":"listsync stub collection server","resources":["tasks","journal"]}`, body)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/tasks/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRespondWithJSONLogsMarshalFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	rec := httptest.NewRecorder()
	respondWithJSON(rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error preparing response"}`, rec.Body.String())
	assert.Contains(t, logs.String(), "marshaling JSON response")
}
