// internal/httpserver/routes_generate.go
//
// POST /generate — proxy to the LLM puzzle-content generator. The handler
// only shapes the request/response; everything model-related lives behind
// the generate.Generator interface.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/purpleboard/connections-server/internal/generate"
)

func (s *Server) mountGenerate() {
	s.r.With(s.requireAuth()).Post("/generate", s.handleGenerate)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		http.Error(w, `{"error":"generator_unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	var req generate.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = generate.ModeAll
	}
	resp, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("generate failed")
		http.Error(w, `{"error":"generate_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}
