// internal/httpserver/routes_runs.go
//
// Run persistence endpoints, the HTTP face of the persistence coordinator:
//   - GET  /runs/{puzzleId}        → load the freshest snapshot (cloud wins
//                                    over local for signed-in users)
//   - PUT  /runs/{puzzleId}        → save a snapshot (local always; cloud
//                                    when signed in; failures never surface)
//   - POST /runs/{puzzleId}/clear  → soft-reset the persisted run
//
// Guests get local-only persistence; nothing here ever 401s.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/purpleboard/connections-server/internal/persist"
)

// mountRuns registers all /runs routes.
func (s *Server) mountRuns(r chi.Router) {
	r.Route("/runs", func(r chi.Router) {
		r.Get("/{puzzleId}", s.handleRunLoad)
		r.Put("/{puzzleId}", s.handleRunSave)
		r.Post("/{puzzleId}/clear", s.handleRunClear)
	})
}

func (s *Server) handleRunLoad(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "puzzleId")
	snap := s.coordinator(r).Load(r.Context(), puzzleID)
	if snap == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleRunSave(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "puzzleId")
	var snap persist.RunSnapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	// Save never fails from the caller's point of view; a dropped cloud
	// sync is logged inside the coordinator and play continues.
	s.coordinator(r).Save(r.Context(), puzzleID, snap)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleRunClear(w http.ResponseWriter, r *http.Request) {
	puzzleID := chi.URLParam(r, "puzzleId")
	s.coordinator(r).Clear(r.Context(), puzzleID)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
