// internal/httpserver/routes_puzzles.go
//
// HTTP routes for puzzles and guessing.
//   - GET  /puzzles/{id}        → canonical puzzle (normalized from storage)
//   - GET  /puzzles/{id}/board  → puzzle with words laid out by seeded shuffle
//   - POST /puzzles             → create a puzzle document (auth required)
//   - POST /puzzles/{id}/guess  → evaluate a selection against the puzzle,
//                                 update the caller's run, persist debounced
//
// A malformed or missing stored puzzle answers 404 ("unavailable"): the
// normalizer's typed failure is fatal for that puzzle, never auto-repaired.
// The reserved id "example" serves the embedded demo board.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/purpleboard/connections-server/internal/docstore"
	"github.com/purpleboard/connections-server/internal/game"
	"github.com/purpleboard/connections-server/internal/persist"
	"github.com/purpleboard/connections-server/internal/puzzle"
)

// puzzleServer wraps dependencies for /puzzles endpoints. Debouncers for
// in-flight sessions are keyed by owner|puzzle so a burst of guesses from
// one session coalesces into a single persisted write. A session is dropped
// when its run completes, or swept once it sits idle past sessionIdle.
type puzzleServer struct {
	srv      *Server
	mu       sync.Mutex // guards sessions
	sessions map[string]*session
}

// session is one live (player, puzzle) guessing session.
type session struct {
	deb  *persist.Debouncer
	used time.Time
}

// sessionIdle is how long an abandoned session lingers before the next
// debouncer lookup sweeps it.
const sessionIdle = 15 * time.Minute

// mountPuzzles registers all /puzzles routes.
func (s *Server) mountPuzzles(r chi.Router) {
	ps := &puzzleServer{srv: s, sessions: make(map[string]*session)}
	s.puzzles = ps
	r.Route("/puzzles", func(r chi.Router) {
		r.Get("/{id}", ps.handleGet)
		r.Get("/{id}/board", ps.handleBoard)
		r.With(s.requireAuth()).Post("/", ps.handleCreate)
		r.Post("/{id}/guess", ps.handleGuess)
	})
}

// loadPuzzle fetches and normalizes the puzzle document behind id.
func (ps *puzzleServer) loadPuzzle(r *http.Request, id string) (*puzzle.Puzzle, error) {
	if id == puzzle.DemoID {
		return puzzle.Demo()
	}
	raw, err := ps.srv.docs.Get(r.Context(), "puzzles/"+id)
	if err != nil {
		return nil, err
	}
	return puzzle.Normalize(id, raw)
}

// handleGet returns the canonical puzzle.
func (ps *puzzleServer) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := ps.loadPuzzle(r, id)
	if err != nil {
		puzzleUnavailable(w, id, err)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

// boardRes is the laid-out board: canonical puzzle plus display order.
type boardRes struct {
	Puzzle *puzzle.Puzzle `json:"puzzle"`
	Seed   int64          `json:"seed"`
	Order  []puzzle.Word  `json:"order"` // words in display order
}

// handleBoard lays the board out with the deterministic shuffle. The seed
// comes from the query string (a resumed session replays its stored seed)
// or is freshly generated and echoed back for the caller to persist.
func (ps *puzzleServer) handleBoard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := ps.loadPuzzle(r, id)
	if err != nil {
		puzzleUnavailable(w, id, err)
		return
	}
	seed := game.NewSeed()
	if v := r.URL.Query().Get("seed"); v != "" {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			seed = n
		}
	}
	_ = json.NewEncoder(w).Encode(boardRes{
		Puzzle: p,
		Seed:   seed,
		Order:  game.Shuffle(p.Words, seed),
	})
}

// handleCreate validates and stores a new puzzle document in categories
// form. The document must normalize cleanly before it is accepted.
func (ps *puzzleServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	id := uuid.NewString()
	if _, err := puzzle.Normalize(id, raw); err != nil {
		var nerr *puzzle.NormalizationError
		if errors.As(err, &nerr) {
			http.Error(w, `{"error":"invalid_puzzle","rule":`+strconv.Quote(nerr.Rule)+`}`, http.StatusBadRequest)
			return
		}
		http.Error(w, `{"error":"invalid_puzzle"}`, http.StatusBadRequest)
		return
	}
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	raw["createdBy"] = map[string]any{"uid": me.ID, "displayName": me.Username}
	raw["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	if err := ps.srv.docs.Set(r.Context(), "puzzles/"+id, raw, false); err != nil {
		log.Error().Err(err).Str("puzzleId", id).Msg("store puzzle")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// guessReq/Res payloads for POST /puzzles/{id}/guess.
type guessReq struct {
	Selection []string `json:"selection"`
	Seed      *int64   `json:"seed,omitempty"` // layout seed, persisted on first guess
}
type guessRes struct {
	OK        bool   `json:"ok"`
	GroupID   string `json:"groupId,omitempty"`
	GroupName string `json:"groupName,omitempty"`
	Moves     int    `json:"moves"`
	Completed bool   `json:"completed"`
}

// handleGuess evaluates one selection, records the outcome on the caller's
// run, and persists it. Writes go through a per-session trailing-edge
// debouncer; a completed run flushes immediately so the finish is never
// lost to the coalescing window.
func (ps *puzzleServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p, err := ps.loadPuzzle(r, id)
	if err != nil {
		puzzleUnavailable(w, id, err)
		return
	}

	coord := ps.srv.coordinator(r)
	key := ps.ownerKey(r, id)
	deb := ps.debouncer(key)
	deb.Flush() // land any pending write so the load below sees it

	run := game.NewRun(p.Title, "")
	if snap := coord.Load(r.Context(), id); snap != nil {
		run = snap.Run.ToRun()
	}
	if run.Seed == nil && req.Seed != nil {
		run.Seed = req.Seed
	}

	res := game.Evaluate(p, req.Selection)
	run.RecordGuess(req.Selection, res.OK, p.GridCount)

	snap := persist.SnapshotOf(run, time.Now().UnixMilli())
	ctx := context.WithoutCancel(r.Context()) // write outlives the request
	deb.Trigger(func() {
		coord.Save(ctx, id, snap)
	})
	if run.Completed {
		deb.Flush()
		ps.evict(key)
	}

	out := guessRes{OK: res.OK, Moves: run.Moves, Completed: run.Completed}
	if res.OK {
		out.GroupID = res.GroupID
		out.GroupName = p.GroupName(res.GroupID)
	}
	_ = json.NewEncoder(w).Encode(out)
}

// ownerKey scopes a debouncer to one (player, puzzle) session.
func (ps *puzzleServer) ownerKey(r *http.Request, puzzleID string) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID + "|" + puzzleID
	}
	return "anon|" + puzzleID
}

// debouncer returns the session debouncer for key, creating it on first
// use. Idle sessions are swept on the way; a swept session's pending write
// is flushed rather than dropped.
func (ps *puzzleServer) debouncer(key string) *persist.Debouncer {
	now := time.Now()
	ps.mu.Lock()
	var stale []*persist.Debouncer
	for k, sess := range ps.sessions {
		if k != key && now.Sub(sess.used) > sessionIdle {
			stale = append(stale, sess.deb)
			delete(ps.sessions, k)
		}
	}
	sess, ok := ps.sessions[key]
	if !ok {
		sess = &session{deb: persist.NewDebouncer(0)}
		ps.sessions[key] = sess
	}
	sess.used = now
	ps.mu.Unlock()
	for _, d := range stale {
		d.Flush()
	}
	return sess.deb
}

// evict drops a finished session.
func (ps *puzzleServer) evict(key string) {
	ps.mu.Lock()
	delete(ps.sessions, key)
	ps.mu.Unlock()
}

// puzzleUnavailable maps both missing documents and normalization failures
// to the same 404, per the error design: an unnormalizable puzzle is
// indistinguishable from an absent one.
func puzzleUnavailable(w http.ResponseWriter, id string, err error) {
	var nerr *puzzle.NormalizationError
	if errors.As(err, &nerr) {
		log.Warn().Str("puzzleId", id).Str("kind", string(nerr.Kind)).Str("rule", nerr.Rule).Msg("puzzle failed normalization")
	} else if !errors.Is(err, docstore.ErrNotFound) {
		log.Warn().Err(err).Str("puzzleId", id).Msg("puzzle load failed")
	}
	http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
}
