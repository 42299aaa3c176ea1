package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Service exposes the solver over HTTP: level listing, solve requests, and a
// websocket stream of solve progress. Solves are serialized; the solver core
// is single-threaded by design.
type Service struct {
	levels *Levels
	hub    *ProgressHub

	solveMu   sync.Mutex
	statsMu   sync.RWMutex
	lastStats *SolveStats
}

func NewService(levels *Levels) *Service {
	return &Service{levels: levels, hub: NewProgressHub()}
}

type levelDTO struct {
	Level  int    `json:"level"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Boxes  int    `json:"boxes"`
	Text   string `json:"text"`
}

type solveRequest struct {
	// Either the XSB text of a level or the 1-indexed number of a loaded one.
	LevelText string `json:"level_text,omitempty"`
	Level     int    `json:"level,omitempty"`
	// Optional overrides; zero values fall back to the stored config.
	Heuristic string `json:"heuristic,omitempty"`
	Direction string `json:"direction,omitempty"`
	MaxNodes  int64  `json:"max_nodes,omitempty"`
}

type pushDTO struct {
	Box       int    `json:"box"`
	Direction string `json:"direction"`
}

type solveResponse struct {
	Outcome string     `json:"outcome"`
	Pushes  []pushDTO  `json:"pushes"`
	Stats   SolveStats `json:"stats"`
}

type statusResponse struct {
	Config    Config      `json:"config"`
	Levels    int         `json:"levels"`
	LastStats *SolveStats `json:"last_stats,omitempty"`
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		s.statsMu.RLock()
		last := s.lastStats
		s.statsMu.RUnlock()
		writeJSON(w, http.StatusOK, statusResponse{
			Config:    GetConfig(),
			Levels:    s.levelCount(),
			LastStats: last,
		})
	})

	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Post("/api/config", func(w http.ResponseWriter, r *http.Request) {
		var config Config
		if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if _, err := config.SolverOptions(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		configStore.Update(config)
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Get("/api/levels", func(w http.ResponseWriter, r *http.Request) {
		levels := make([]levelDTO, 0, s.levelCount())
		for i := 0; i < s.levelCount(); i++ {
			board := s.levels.Get(i)
			levels = append(levels, levelDTO{
				Level:  i + 1,
				Width:  board.Width(),
				Height: board.Height(),
				Boxes:  board.BoxCount(),
				Text:   s.levels.Text(i),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"levels": levels})
	})

	r.Post("/api/solve", func(w http.ResponseWriter, r *http.Request) {
		var req solveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		board, levelNum, err := s.resolveBoard(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		opts, err := s.resolveOptions(req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		solution := s.solve(board, levelNum, opts)
		writeJSON(w, http.StatusOK, solutionToDTO(solution))
	})

	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		conn, err := wsUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := &ProgressClient{hub: s.hub, send: make(chan []byte, 64)}
		s.hub.Register(client)
		go func() {
			defer conn.Close()
			_ = writeWSWithHeartbeat(conn, client.send)
		}()
		go func() {
			defer s.hub.Unregister(client)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	})

	return r
}

func (s *Service) levelCount() int {
	if s.levels == nil {
		return 0
	}
	return s.levels.Len()
}

func (s *Service) resolveBoard(req solveRequest) (*Board, int, error) {
	if req.LevelText != "" {
		board, err := ParseBoard(req.LevelText)
		return board, 0, err
	}
	if req.Level < 1 || req.Level > s.levelCount() {
		return nil, 0, fmt.Errorf("level %d not found (%d levels loaded)", req.Level, s.levelCount())
	}
	return s.levels.Get(req.Level - 1), req.Level, nil
}

func (s *Service) resolveOptions(req solveRequest) (SolverOptions, error) {
	config := GetConfig()
	if req.Heuristic != "" {
		config.Heuristic = req.Heuristic
	}
	if req.Direction != "" {
		config.Direction = req.Direction
	}
	if req.MaxNodes > 0 {
		config.MaxNodes = req.MaxNodes
	}
	return config.SolverOptions()
}

func (s *Service) solve(board *Board, levelNum int, opts SolverOptions) Solution {
	s.solveMu.Lock()
	defer s.solveMu.Unlock()

	opts.Progress = func(searcher *Searcher) {
		if !s.hub.HasClients() {
			return
		}
		s.hub.PublishProgress(progressPayload{
			Level:     levelNum,
			Direction: directionName(searcher),
			Nodes:     searcher.nodes,
			OpenPeak:  searcher.peakOpen,
			UpdatedAt: time.Now().UnixMilli(),
		})
	}

	solver := NewSolver(board, opts)
	solution := solver.Solve()

	s.statsMu.Lock()
	stats := solution.Stats
	s.lastStats = &stats
	s.statsMu.Unlock()

	s.hub.PublishResult(resultPayload{
		Level:   levelNum,
		Outcome: solution.Outcome.String(),
		Stats:   solution.Stats,
	})
	return solution
}

func solutionToDTO(solution Solution) solveResponse {
	pushes := make([]pushDTO, 0, len(solution.Pushes))
	for _, m := range solution.Pushes {
		pushes = append(pushes, pushDTO{Box: int(m.Box), Direction: m.Dir.String()})
	}
	return solveResponse{
		Outcome: solution.Outcome.String(),
		Pushes:  pushes,
		Stats:   solution.Stats,
	}
}

// Serve runs the HTTP server until the done channel closes.
func (s *Service) Serve(addr string, done <-chan struct{}) error {
	go s.hub.Run(done)

	server := &http.Server{Addr: addr, Handler: s.Router()}
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info().Str("addr", addr).Int("levels", s.levelCount()).Msg("serving")

	select {
	case <-done:
		return server.Close()
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
