package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	levels, err := ParseLevels(fmt.Sprintf("; 1\n\n%s\n", level1))
	if err != nil {
		t.Fatalf("failed to parse levels: %v", err)
	}
	return NewService(levels)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerPing(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodGet, "/api/ping", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestServerLevels(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodGet, "/api/levels", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Levels []levelDTO `json:"levels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Levels) != 1 || payload.Levels[0].Boxes != 2 {
		t.Fatalf("unexpected levels payload: %+v", payload)
	}
}

func TestServerSolveLevelText(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodPost, "/api/solve", solveRequest{
		LevelText: "#####\n#@$.#\n#####",
		Direction: "forward",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload solveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Outcome != "solved" {
		t.Fatalf("expected solved, got %q", payload.Outcome)
	}
	if len(payload.Pushes) != 1 || payload.Pushes[0].Direction != "East" {
		t.Fatalf("unexpected pushes: %+v", payload.Pushes)
	}
}

func TestServerSolveLoadedLevel(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodPost, "/api/solve", solveRequest{
		Level:     1,
		Direction: "forward",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload solveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Outcome != "solved" || payload.Stats.Steps != 8 {
		t.Fatalf("unexpected solve result: %+v", payload)
	}
}

func TestServerSolveUnknownLevel(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodPost, "/api/solve", solveRequest{Level: 99})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestServerConfigRoundTrip(t *testing.T) {
	router := newTestService(t).Router()

	rec := doJSON(t, router, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var config Config
	if err := json.Unmarshal(rec.Body.Bytes(), &config); err != nil {
		t.Fatalf("failed to decode config: %v", err)
	}

	config.MaxNodes = 1234
	rec = doJSON(t, router, http.MethodPost, "/api/config", config)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if GetConfig().MaxNodes != 1234 {
		t.Fatalf("config update not applied")
	}

	// Restore defaults for other tests.
	configStore.Update(DefaultConfig())
}

func TestServerConfigRejectsInvalid(t *testing.T) {
	config := DefaultConfig()
	config.Heuristic = "psychic"
	rec := doJSON(t, newTestService(t).Router(), http.MethodPost, "/api/config", config)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestServerStatus(t *testing.T) {
	rec := doJSON(t, newTestService(t).Router(), http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if payload.Levels != 1 {
		t.Fatalf("expected 1 level, got %d", payload.Levels)
	}
}
