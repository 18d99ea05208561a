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
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/server/httperr"
	"github.com/zintix-labs/gameshow/stats"
)

// SimHandler 在轉盤複本上模擬大量轉動；現場轉盤的狀態不受影響。
type SimHandler struct {
	show      *gameshow.Show
	log       *slog.Logger
	maxRounds int
}

func NewSimHandler(show *gameshow.Show, log *slog.Logger, maxRounds int) *SimHandler {
	return &SimHandler{show: show, log: log, maxRounds: maxRounds}
}

// Sim POST /api/wheel/sim  {"rounds": 100000, "workers": 4, "seed": 42}
//
// rounds 為所有 worker 的合計轉動次數。
func (h *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	// 內部結構 不影響外部 也不被外部使用
	var req struct {
		Rounds  int   `json:"rounds"`
		Workers int   `json:"workers"`
		Seed    int64 `json:"seed"`
	}
	if err := decodeJSON(w, q, &req); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.Rounds < 1 || req.Rounds > h.maxRounds {
		httperr.Errs(w, errs.NewWarn(fmt.Sprintf("rounds must be between 1 to %d", h.maxRounds)))
		return
	}
	workers := min(max(1, req.Workers), runtime.NumCPU(), req.Rounds)
	perWorker := req.Rounds / workers

	rep, used, err := h.show.Simulate(perWorker, workers, req.Seed, false)
	if err != nil {
		httperr.Respond(w, h.log, "api: simulate", err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success  bool              `json:"success"`
		Report   *stats.SpinReport `json:"report"`
		UsedTime int64             `json:"used_ms"`
	}{true, rep, used.Milliseconds()})
}
