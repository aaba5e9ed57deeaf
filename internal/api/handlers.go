package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/susu3304/geoguess/internal/db"
	"github.com/susu3304/geoguess/internal/game"
	"github.com/susu3304/geoguess/internal/geoscore"
	"github.com/susu3304/geoguess/internal/geourl"
	"github.com/susu3304/geoguess/internal/session"
)

type gameResponse struct {
	State   game.State        `json:"state"`
	View    []ViewCommand     `json:"view"`
	Result  *game.ScoreResult `json:"result,omitempty"`
	Reveal  *game.Reveal      `json:"reveal,omitempty"`
	Warning string            `json:"warning,omitempty"`
}

type createGameRequest struct {
	Difficulty string `json:"difficulty"`
}

type guessRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
	URL string   `json:"url"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"games":  a.games.Len(),
	})
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *API) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	owner := session.Owner{Source: "http"}
	if tokenString, ok := bearerToken(r); ok {
		claims, err := a.parseToken(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		owner.ID = claims.UserID
		owner.Name = claims.Username
	}

	g := a.games.Create(owner, req.Difficulty)
	token, err := a.issueToken(Claims{GameID: g.ID, UserID: owner.ID, Username: owner.Name})
	if err != nil {
		_ = a.games.Remove(g.ID)
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}

	state, err := a.games.State(g.ID)
	if err != nil {
		a.writeGameError(w, gameResponse{}, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"game_id": g.ID,
		"token":   token,
		"state":   state.Public(),
	})
}

// writeGame sends the outcome of an engine operation. Precondition failures are
// reported as warnings together with the unchanged state.
func (a *API) writeGame(w http.ResponseWriter, resp gameResponse, v *commandView, err error) {
	resp.State = resp.State.Public()
	resp.View = v.commands
	if err != nil {
		a.writeGameError(w, resp, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) writeGameError(w http.ResponseWriter, resp gameResponse, err error) {
	switch {
	case game.IsPrecondition(err):
		resp.Warning = err.Error()
		if resp.View == nil {
			resp.View = []ViewCommand{}
		}
		writeJSON(w, http.StatusConflict, resp)
	case errors.Is(err, session.ErrGameNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("Game operation failed: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (a *API) handleGetGame(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	state, err := a.games.State(claims.GameID)
	a.writeGame(w, gameResponse{State: state}, newCommandView(), err)
}

func (a *API) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := a.games.Remove(claims.GameID); err != nil {
		a.writeGameError(w, gameResponse{}, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleStartRound(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	v := newCommandView()
	state, err := a.games.StartRound(claims.GameID, v)
	a.writeGame(w, gameResponse{State: state}, v, err)
}

func (a *API) handlePlaceGuess(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var c geoscore.Coordinate
	switch {
	case req.URL != "":
		parsed, err := geourl.Parse(r.Context(), req.URL)
		if err != nil {
			http.Error(w, "could not read coordinates: "+err.Error(), http.StatusBadRequest)
			return
		}
		c = parsed
	case req.Lat != nil && req.Lng != nil:
		c = geoscore.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	default:
		http.Error(w, "lat and lng, or url, are required", http.StatusBadRequest)
		return
	}

	v := newCommandView()
	state, err := a.games.PlaceGuess(claims.GameID, v, c)
	a.writeGame(w, gameResponse{State: state}, v, err)
}

func (a *API) handleSubmitGuess(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	v := newCommandView()
	result, state, err := a.games.SubmitGuess(r.Context(), claims.GameID, v)

	resp := gameResponse{State: state}
	if err == nil {
		resp.Result = &result
	}
	a.writeGame(w, resp, v, err)
}

func (a *API) handleReveal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	v := newCommandView()
	reveal, state, err := a.games.Reveal(claims.GameID, v)

	resp := gameResponse{State: state}
	if err == nil {
		resp.Reveal = &reveal
	}
	a.writeGame(w, resp, v, err)
}

func (a *API) handleReset(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	v := newCommandView()
	state, err := a.games.Reset(claims.GameID, v)
	a.writeGame(w, gameResponse{State: state}, v, err)
}

func (a *API) handleSetDifficulty(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var req difficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	state, err := a.games.SetDifficulty(claims.GameID, req.Difficulty)
	a.writeGame(w, gameResponse{State: state}, newCommandView(), err)
}

func (a *API) handleListResults(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		http.Error(w, "result archive is not configured", http.StatusServiceUnavailable)
		return
	}

	claims := claimsFrom(r)
	results, err := a.archive.ListResults(r.Context(), claims.GameID)
	if err != nil {
		log.Printf("Failed to list results for game %s: %v", claims.GameID, err)
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []db.RoundResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		http.Error(w, "result archive is not configured", http.StatusServiceUnavailable)
		return
	}

	difficulty := r.URL.Query().Get("difficulty")
	if difficulty != "" {
		if !geoscore.Known(difficulty) {
			http.Error(w, "unknown difficulty", http.StatusBadRequest)
			return
		}
		difficulty = string(geoscore.ParseDifficulty(difficulty))
	}

	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	entries, err := a.archive.Leaderboard(r.Context(), difficulty, limit)
	if err != nil {
		log.Printf("Failed to load leaderboard: %v", err)
		http.Error(w, "failed to load leaderboard", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []db.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
