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

	"github.com/go-chi/chi/v5"
	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/server/httperr"
	"github.com/zintix-labs/gameshow/wheel"
)

// WheelHandler 轉盤 API。
type WheelHandler struct {
	show *gameshow.Show
	log  *slog.Logger
}

func NewWheelHandler(show *gameshow.Show, log *slog.Logger) *WheelHandler {
	return &WheelHandler{show: show, log: log}
}

type segmentsResponse struct {
	Success  bool            `json:"success"`
	Segments []wheel.Segment `json:"segments"`
}

func (h *WheelHandler) segments(w http.ResponseWriter, status int) {
	writeJSON(w, status, segmentsResponse{Success: true, Segments: h.show.Wheel().Segments()})
}

// Spin POST /api/wheel/spin
//
// 轉盤正在轉動時回 409，不排隊。
func (h *WheelHandler) Spin(w http.ResponseWriter, q *http.Request) {
	res, err := h.show.Spin()
	if err != nil {
		httperr.Respond(w, h.log, "api: spin", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool             `json:"success"`
		Result  wheel.SpinResult `json:"result"`
		Segment wheel.Segment    `json:"segment"`
	}{true, res, res.Segment})
}

// Segments GET /api/wheel/segments
func (h *WheelHandler) Segments(w http.ResponseWriter, q *http.Request) {
	st := h.show.WheelState()
	writeJSON(w, http.StatusOK, struct {
		Segments []wheel.Segment `json:"segments"`
		Current  *wheel.Segment  `json:"current_segment"`
	}{st.Segments, st.Current})
}

// AddSegment POST /api/wheel/segments  {"text": "...", "action": "...", "color": "#RRGGBB"}
func (h *WheelHandler) AddSegment(w http.ResponseWriter, q *http.Request) {
	var req struct {
		Text   string `json:"text"`
		Action string `json:"action"`
		Color  string `json:"color"`
	}
	if err := decodeJSON(w, q, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	seg, err := h.show.AddSegment(req.Text, req.Action, req.Color)
	if err != nil {
		httperr.Respond(w, h.log, "api: add segment", err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Success bool          `json:"success"`
		Segment wheel.Segment `json:"segment"`
	}{true, seg})
}

// RemoveSegment DELETE /api/wheel/segments/{id}
func (h *WheelHandler) RemoveSegment(w http.ResponseWriter, q *http.Request) {
	id, err := intParam(q, "id")
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	if err := h.show.RemoveSegment(id); err != nil {
		httperr.Respond(w, h.log, "api: remove segment", err)
		return
	}
	h.segments(w, http.StatusOK)
}

// Stats GET /api/wheel/stats
func (h *WheelHandler) Stats(w http.ResponseWriter, q *http.Request) {
	writeJSON(w, http.StatusOK, h.show.Wheel().Stats())
}

// Config POST /api/wheel/config  {"spin_duration": 4000, "min_spins": 5}
//
// 超出範圍的值會被夾到合法區間，回應中帶回實際儲存的值。
func (h *WheelHandler) Config(w http.ResponseWriter, q *http.Request) {
	var req struct {
		SpinDuration *int `json:"spin_duration"`
		MinSpins     *int `json:"min_spins"`
	}
	if err := decodeJSON(w, q, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	d, m := h.show.Configure(req.SpinDuration, req.MinSpins)
	writeJSON(w, http.StatusOK, struct {
		Success      bool `json:"success"`
		SpinDuration int  `json:"spin_duration"`
		MinSpins     int  `json:"min_spins"`
	}{true, d, m})
}

// Reset POST /api/wheel/reset
func (h *WheelHandler) Reset(w http.ResponseWriter, q *http.Request) {
	h.show.ResetWheel()
	h.segments(w, http.StatusOK)
}

// Preset POST /api/wheel/preset/{name}
func (h *WheelHandler) Preset(w http.ResponseWriter, q *http.Request) {
	if err := h.show.LoadPreset(chi.URLParam(q, "name")); err != nil {
		httperr.Respond(w, h.log, "api: load preset", err)
		return
	}
	h.segments(w, http.StatusOK)
}

// Presets GET /api/wheel/presets
func (h *WheelHandler) Presets(w http.ResponseWriter, q *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Presets []string `json:"presets"`
	}{wheel.PresetNames()})
}

// Shuffle POST /api/wheel/shuffle
func (h *WheelHandler) Shuffle(w http.ResponseWriter, q *http.Request) {
	h.show.Shuffle()
	h.segments(w, http.StatusOK)
}
