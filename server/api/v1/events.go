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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/events"
	"github.com/zintix-labs/gameshow/server/httperr"
)

// heartbeat SSE 註解行的間隔，避免中間的 proxy 把閒置連線切掉。
const heartbeat = 15 * time.Second

var errFeedDisabled = errs.NewNotFound("event feed disabled")

// EventHandler 以 server-sent events 推送計分板與轉盤的變更。
type EventHandler struct {
	bus *events.Bus
	log *slog.Logger
}

func NewEventHandler(bus *events.Bus, log *slog.Logger) *EventHandler {
	return &EventHandler{bus: bus, log: log}
}

// Stream GET /api/events
//
// 每個事件輸出為：
//
//	id: <seq>
//	event: <type>
//	data: <envelope json>
func (h *EventHandler) Stream(w http.ResponseWriter, q *http.Request) {
	if h.bus == nil {
		httperr.Errs(w, errFeedDisabled)
		return
	}
	ctx := q.Context()
	feed, err := h.bus.Subscribe(ctx)
	if err != nil {
		httperr.Respond(w, h.log, "api: subscribe feed", err)
		return
	}

	rc := http.NewResponseController(w)
	// 長連線不受 server WriteTimeout 限制；httptest 等不支援的 writer 直接略過。
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.log.Warn("api: event stream cannot flush", slog.Any("err", err))
		return
	}

	tick := time.NewTicker(heartbeat)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case env, ok := <-feed:
			if !ok {
				return
			}
			data, err := json.Marshal(env)
			if err != nil {
				h.log.Warn("api: encode event", slog.Any("err", err))
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", env.Seq, env.Type, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
