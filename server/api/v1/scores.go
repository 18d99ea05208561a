// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"log/slog"
	"net/http"

	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/server/httperr"
)

var errPlayerID = errs.NewWarn("Invalid player_id")

// ScoreHandler 計分板 API。
type ScoreHandler struct {
	show *gameshow.Show
	log  *slog.Logger
}

func NewScoreHandler(show *gameshow.Show, log *slog.Logger) *ScoreHandler {
	return &ScoreHandler{show: show, log: log}
}

type scoresResponse struct {
	Success bool           `json:"success"`
	Scores  map[string]int `json:"scores"`
}

// Scores GET /api/scores
func (h *ScoreHandler) Scores(w http.ResponseWriter, q *http.Request) {
	writeJSON(w, http.StatusOK, h.show.Board())
}

// Player GET /api/scores/{id}
func (h *ScoreHandler) Player(w http.ResponseWriter, q *http.Request) {
	id, err := intParam(q, "id")
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	name, v, err := h.show.PlayerScore(id)
	if err != nil {
		httperr.Respond(w, h.log, "api: player score", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		PlayerID int    `json:"player_id"`
		Player   string `json:"player"`
		Score    int    `json:"score"`
	}{id, name, v})
}

// Update POST /api/scores/update  {"player_id": 0, "points": 10}
func (h *ScoreHandler) Update(w http.ResponseWriter, q *http.Request) {
	var req struct {
		PlayerID *int `json:"player_id"`
		Points   int  `json:"points"`
	}
	if err := decodeJSON(w, q, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.PlayerID == nil {
		httperr.Errs(w, errPlayerID)
		return
	}
	b, err := h.show.UpdateScore(*req.PlayerID, req.Points)
	if err != nil {
		httperr.Respond(w, h.log, "api: update score", err)
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{Success: true, Scores: b.Scores})
}

// Set POST /api/scores/set  {"player_id": 0, "score": 100}
func (h *ScoreHandler) Set(w http.ResponseWriter, q *http.Request) {
	var req struct {
		PlayerID *int `json:"player_id"`
		Score    *int `json:"score"`
	}
	if err := decodeJSON(w, q, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.PlayerID == nil {
		httperr.Errs(w, errPlayerID)
		return
	}
	if req.Score == nil {
		httperr.Errs(w, errs.NewWarn("score is required"))
		return
	}
	b, err := h.show.SetScore(*req.PlayerID, *req.Score)
	if err != nil {
		httperr.Respond(w, h.log, "api: set score", err)
		return
	}
	writeJSON(w, http.StatusOK, scoresResponse{Success: true, Scores: b.Scores})
}

// Reset POST /api/scores/reset
func (h *ScoreHandler) Reset(w http.ResponseWriter, q *http.Request) {
	b := h.show.ResetScores()
	writeJSON(w, http.StatusOK, scoresResponse{Success: true, Scores: b.Scores})
}
