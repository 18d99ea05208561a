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

package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/events"
	"github.com/zintix-labs/gameshow/metrics"
	"github.com/zintix-labs/gameshow/score"
	"github.com/zintix-labs/gameshow/server/httperr"
	"github.com/zintix-labs/gameshow/server/netsvr"
	"github.com/zintix-labs/gameshow/server/svrcfg"
	"github.com/zintix-labs/gameshow/spec"
	"github.com/zintix-labs/gameshow/stats"
	"github.com/zintix-labs/gameshow/wheel"
)

func newServer(t *testing.T, mut func(*svrcfg.SvrCfg)) *netsvr.ChiAdapter {
	t.Helper()
	ss, err := spec.Default()
	if err != nil {
		t.Fatalf("default setting: %v", err)
	}
	ss.ScoreFile = filepath.Join(t.TempDir(), "scores.json")
	ss.Wheel.Seed = 20250101
	show, err := gameshow.New(ss,
		gameshow.WithBus(events.NewBus(nil, 16)),
		gameshow.WithMetrics(metrics.New()),
	)
	if err != nil {
		t.Fatalf("new show: %v", err)
	}
	t.Cleanup(func() { _ = show.Close() })

	cfg := &svrcfg.SvrCfg{Show: show, SpinRate: -1, SimRounds: 5000}
	if mut != nil {
		mut(cfg)
	}
	if err := cfg.Valid(); err != nil {
		t.Fatalf("valid: %v", err)
	}
	svr := netsvr.NewChiServer("")
	RegisterRoutes(svr, cfg)
	return svr
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status=%d want %d body=%s", rec.Code, want, rec.Body.String())
	}
}

func TestIndexAndHealthz(t *testing.T) {
	svr := newServer(t, nil)

	rec := do(t, svr, http.MethodGet, "/", "")
	wantStatus(t, rec, http.StatusOK)
	idx := decode[struct {
		Name      string `json:"name"`
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}](t, rec)
	if idx.Name != "gameshow" || len(idx.Endpoints) == 0 {
		t.Fatalf("index=%+v", idx)
	}

	rec = do(t, svr, http.MethodGet, "/healthz", "")
	wantStatus(t, rec, http.StatusOK)
}

func TestScoreRoutes(t *testing.T) {
	svr := newServer(t, nil)

	rec := do(t, svr, http.MethodGet, "/api/scores", "")
	wantStatus(t, rec, http.StatusOK)
	b := decode[score.Board](t, rec)
	want := score.Board{
		Players: []string{"Player 1", "Player 2", "Player 3"},
		Scores:  map[string]int{"Player 1": 0, "Player 2": 0, "Player 3": 0},
		Winner:  score.WinnerTie,
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Fatalf("initial board (-want +got):\n%s", diff)
	}

	rec = do(t, svr, http.MethodPost, "/api/scores/update", `{"player_id": 1, "points": 5}`)
	wantStatus(t, rec, http.StatusOK)
	up := decode[struct {
		Success bool           `json:"success"`
		Scores  map[string]int `json:"scores"`
	}](t, rec)
	if !up.Success || up.Scores["Player 2"] != 5 {
		t.Fatalf("update resp=%+v", up)
	}

	rec = do(t, svr, http.MethodPost, "/api/scores/set", `{"player_id": 0, "score": -3}`)
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, svr, http.MethodGet, "/api/scores/1", "")
	wantStatus(t, rec, http.StatusOK)
	one := decode[struct {
		Player string `json:"player"`
		Score  int    `json:"score"`
	}](t, rec)
	if one.Player != "Player 2" || one.Score != 5 {
		t.Fatalf("player score=%+v", one)
	}

	rec = do(t, svr, http.MethodGet, "/api/scores", "")
	if got := decode[score.Board](t, rec).Winner; got != "Player 2" {
		t.Fatalf("winner=%q", got)
	}

	rec = do(t, svr, http.MethodPost, "/api/scores/reset", "")
	wantStatus(t, rec, http.StatusOK)
	rec = do(t, svr, http.MethodGet, "/api/scores", "")
	if diff := cmp.Diff(want, decode[score.Board](t, rec)); diff != "" {
		t.Fatalf("after reset (-want +got):\n%s", diff)
	}
}

func TestScoreRouteErrors(t *testing.T) {
	svr := newServer(t, nil)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		msg    string
	}{
		{"missing player id", http.MethodPost, "/api/scores/update", `{"points": 5}`, 400, "Invalid player_id"},
		{"player out of range", http.MethodPost, "/api/scores/update", `{"player_id": 3, "points": 5}`, 400, ""},
		{"negative player", http.MethodPost, "/api/scores/set", `{"player_id": -1, "score": 1}`, 400, ""},
		{"missing score", http.MethodPost, "/api/scores/set", `{"player_id": 0}`, 400, "score is required"},
		{"broken json", http.MethodPost, "/api/scores/update", `{"player_id":`, 400, ""},
		{"non numeric id", http.MethodGet, "/api/scores/abc", "", 400, ""},
		{"unknown id", http.MethodGet, "/api/scores/7", "", 400, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, svr, tc.method, tc.path, tc.body)
			wantStatus(t, rec, tc.status)
			body := decode[httperr.Body](t, rec)
			if body.Success || body.Error == "" {
				t.Fatalf("error body=%+v", body)
			}
			if tc.msg != "" && body.Error != tc.msg {
				t.Fatalf("error=%q want %q", body.Error, tc.msg)
			}
		})
	}

	rec := do(t, svr, http.MethodGet, "/api/scores", "")
	for name, v := range decode[score.Board](t, rec).Scores {
		if v != 0 {
			t.Fatalf("failed requests changed %s to %d", name, v)
		}
	}
}

func TestWheelSpinAndSegments(t *testing.T) {
	svr := newServer(t, nil)

	rec := do(t, svr, http.MethodGet, "/api/wheel/segments", "")
	wantStatus(t, rec, http.StatusOK)
	before := decode[struct {
		Segments []wheel.Segment `json:"segments"`
		Current  *wheel.Segment  `json:"current_segment"`
	}](t, rec)
	if len(before.Segments) != 11 || before.Current != nil {
		t.Fatalf("initial wheel: %d segments, current=%v", len(before.Segments), before.Current)
	}

	rec = do(t, svr, http.MethodPost, "/api/wheel/spin", "")
	wantStatus(t, rec, http.StatusOK)
	spun := decode[struct {
		Success bool             `json:"success"`
		Result  wheel.SpinResult `json:"result"`
		Segment wheel.Segment    `json:"segment"`
	}](t, rec)
	if !spun.Success || spun.Result.ID == "" {
		t.Fatalf("spin resp=%+v", spun)
	}
	if diff := cmp.Diff(spun.Segment, spun.Result.Segment); diff != "" {
		t.Fatalf("segment mismatch:\n%s", diff)
	}
	if spun.Result.WinnerText != strings.ToUpper(spun.Segment.Text) {
		t.Fatalf("winner text=%q", spun.Result.WinnerText)
	}

	rec = do(t, svr, http.MethodGet, "/api/wheel/segments", "")
	after := decode[struct {
		Current *wheel.Segment `json:"current_segment"`
	}](t, rec)
	if after.Current == nil || after.Current.ID != spun.Segment.ID {
		t.Fatalf("current=%v want id %d", after.Current, spun.Segment.ID)
	}
}

func TestWheelEditRoutes(t *testing.T) {
	svr := newServer(t, nil)

	rec := do(t, svr, http.MethodPost, "/api/wheel/segments", `{"text": "Encore", "action": "bonus", "color": "#123456"}`)
	wantStatus(t, rec, http.StatusCreated)
	added := decode[struct {
		Segment wheel.Segment `json:"segment"`
	}](t, rec).Segment
	if added.Text != "Encore" || added.Color != "#123456" {
		t.Fatalf("added=%+v", added)
	}

	rec = do(t, svr, http.MethodPost, "/api/wheel/segments", `{"text": "Too many", "action": "bonus"}`)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, svr, http.MethodDelete, "/api/wheel/segments/9999", "")
	wantStatus(t, rec, http.StatusNotFound)
	rec = do(t, svr, http.MethodDelete, "/api/wheel/segments/abc", "")
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, svr, http.MethodDelete, "/api/wheel/segments/"+strconv.Itoa(added.ID), "")
	wantStatus(t, rec, http.StatusOK)
	if n := len(decode[struct {
		Segments []wheel.Segment `json:"segments"`
	}](t, rec).Segments); n != 11 {
		t.Fatalf("after remove: %d segments", n)
	}

	rec = do(t, svr, http.MethodPost, "/api/wheel/config", `{"spin_duration": 50, "min_spins": 99}`)
	wantStatus(t, rec, http.StatusOK)
	cfg := decode[struct {
		SpinDuration int `json:"spin_duration"`
		MinSpins     int `json:"min_spins"`
	}](t, rec)
	if cfg.SpinDuration != wheel.MinSpinDuration || cfg.MinSpins != wheel.MaxMinSpins {
		t.Fatalf("clamped config=%+v", cfg)
	}

	rec = do(t, svr, http.MethodGet, "/api/wheel/stats", "")
	wantStatus(t, rec, http.StatusOK)
	st := decode[wheel.Stats](t, rec)
	if st.TotalSegments != 11 || st.SpinDuration != wheel.MinSpinDuration || st.Spinning {
		t.Fatalf("stats=%+v", st)
	}

	rec = do(t, svr, http.MethodPost, "/api/wheel/preset/4-segment", "")
	wantStatus(t, rec, http.StatusOK)
	if n := len(decode[struct {
		Segments []wheel.Segment `json:"segments"`
	}](t, rec).Segments); n != 4 {
		t.Fatalf("preset: %d segments", n)
	}
	rec = do(t, svr, http.MethodPost, "/api/wheel/preset/nope", "")
	wantStatus(t, rec, http.StatusBadRequest)

	rec = do(t, svr, http.MethodPost, "/api/wheel/shuffle", "")
	wantStatus(t, rec, http.StatusOK)

	rec = do(t, svr, http.MethodPost, "/api/wheel/reset", "")
	wantStatus(t, rec, http.StatusOK)
	if n := len(decode[struct {
		Segments []wheel.Segment `json:"segments"`
	}](t, rec).Segments); n != 11 {
		t.Fatalf("reset: %d segments", n)
	}

	rec = do(t, svr, http.MethodGet, "/api/wheel/presets", "")
	wantStatus(t, rec, http.StatusOK)
	if diff := cmp.Diff(wheel.PresetNames(), decode[struct {
		Presets []string `json:"presets"`
	}](t, rec).Presets); diff != "" {
		t.Fatalf("presets:\n%s", diff)
	}
}

func TestSpinRateLimit(t *testing.T) {
	svr := newServer(t, func(c *svrcfg.SvrCfg) {
		c.SpinRate = 0.001
		c.SpinBurst = 1
	})
	wantStatus(t, do(t, svr, http.MethodPost, "/api/wheel/spin", ""), http.StatusOK)
	wantStatus(t, do(t, svr, http.MethodPost, "/api/wheel/spin", ""), http.StatusTooManyRequests)
	// 只限 spin
	wantStatus(t, do(t, svr, http.MethodGet, "/api/wheel/segments", ""), http.StatusOK)
}

func TestSimRoute(t *testing.T) {
	svr := newServer(t, nil)

	rec := do(t, svr, http.MethodPost, "/api/wheel/sim", `{"rounds": 2000, "workers": 2, "seed": 9}`)
	wantStatus(t, rec, http.StatusOK)
	resp := decode[struct {
		Success bool              `json:"success"`
		Report  *stats.SpinReport `json:"report"`
	}](t, rec)
	if !resp.Success || resp.Report == nil || resp.Report.Summary.Rounds != 2000 {
		t.Fatalf("sim resp=%+v", resp)
	}
	if len(resp.Report.Segments) != 11 {
		t.Fatalf("report segments=%d", len(resp.Report.Segments))
	}

	wantStatus(t, do(t, svr, http.MethodPost, "/api/wheel/sim", `{"rounds": 0}`), http.StatusBadRequest)
	wantStatus(t, do(t, svr, http.MethodPost, "/api/wheel/sim", `{"rounds": 5001}`), http.StatusBadRequest)

	// 模擬不影響現場轉盤
	rec = do(t, svr, http.MethodGet, "/api/wheel/segments", "")
	if cur := decode[struct {
		Current *wheel.Segment `json:"current_segment"`
	}](t, rec).Current; cur != nil {
		t.Fatalf("simulation touched live wheel: %+v", cur)
	}
}

func TestSimEmptyWheelMessage(t *testing.T) {
	svr := newServer(t, nil)
	segs := decode[struct {
		Segments []wheel.Segment `json:"segments"`
	}](t, do(t, svr, http.MethodGet, "/api/wheel/segments", "")).Segments
	for _, seg := range segs {
		wantStatus(t, do(t, svr, http.MethodDelete, "/api/wheel/segments/"+strconv.Itoa(seg.ID), ""), http.StatusOK)
	}

	rec := do(t, svr, http.MethodPost, "/api/wheel/sim", `{"rounds": 100}`)
	wantStatus(t, rec, http.StatusBadRequest)
	body := decode[httperr.Body](t, rec)
	if body.Error != "wheel has no segments" || body.Level != "warn" {
		t.Fatalf("body=%+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	svr := newServer(t, nil)
	wantStatus(t, do(t, svr, http.MethodPost, "/api/wheel/spin", ""), http.StatusOK)

	rec := do(t, svr, http.MethodGet, "/metrics", "")
	wantStatus(t, rec, http.StatusOK)
	body := rec.Body.String()
	for _, name := range []string{"gameshow_wheel_spins_total", "gameshow_http_requests_total", "gameshow_wheel_segments"} {
		if !strings.Contains(body, name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}

func TestEventStream(t *testing.T) {
	srv := httptest.NewServer(newServer(t, nil))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type=%q", ct)
	}

	rd := bufio.NewReader(resp.Body)
	line, err := rd.ReadString('\n')
	if err != nil || line != ": connected\n" {
		t.Fatalf("first line=%q err=%v", line, err)
	}

	post, err := srv.Client().Post(srv.URL+"/api/scores/update", "application/json", bytes.NewBufferString(`{"player_id": 2, "points": 7}`))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	post.Body.Close()

	var typ string
	var env events.Envelope
	for env.ID == "" {
		line, err := rd.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		switch {
		case strings.HasPrefix(line, "event: "):
			typ = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
		case strings.HasPrefix(line, "data: "):
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &env); err != nil {
				t.Fatalf("decode data: %v", err)
			}
		}
	}
	if typ != events.TypeScoreUpdated || env.Type != typ {
		t.Fatalf("event=%q envelope=%+v", typ, env)
	}
	var b score.Board
	if err := json.Unmarshal(env.Payload, &b); err != nil {
		t.Fatal(err)
	}
	if b.Scores["Player 3"] != 7 {
		t.Fatalf("payload=%+v", b)
	}
}
