// internal/httpserver/routes_share.go
//
// POST /share/sms — text a puzzle link to a phone number. The provider is
// behind the share.Sender interface; this handler validates the number,
// builds the play URL, and reports the provider's message id.

package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/purpleboard/connections-server/internal/share"
)

func (s *Server) mountShare() {
	s.r.With(s.requireAuth()).Post("/share/sms", s.handleShareSMS)
}

type shareSMSReq struct {
	To       string `json:"to"`
	PuzzleID string `json:"puzzleId"`
}

func (s *Server) handleShareSMS(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		http.Error(w, `{"error":"sms_unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	var req shareSMSReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	to := share.ToE164(req.To)
	if to == "" {
		http.Error(w, `{"error":"Enter a valid phone (e.g., 217-440-4327)."}`, http.StatusBadRequest)
		return
	}
	if req.PuzzleID == "" {
		http.Error(w, `{"error":"Missing puzzleId."}`, http.StatusBadRequest)
		return
	}

	base := getEnv("BASE_URL", "http://localhost:5173")
	playURL := fmt.Sprintf("%s/gameboard/%s", base, url.PathEscape(req.PuzzleID))
	body := "Your puzzle is ready! Play here: " + playURL

	sid, err := s.sms.Send(r.Context(), to, body)
	if err != nil {
		log.Error().Err(err).Str("puzzleId", req.PuzzleID).Msg("sms send failed")
		http.Error(w, `{"error":"Send failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("sid", sid).Str("to", to).Msg("sms sent")
	_ = json.NewEncoder(w).Encode(map[string]string{"sid": sid, "to": to})
}
