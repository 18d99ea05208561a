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

// Package index 提供服務首頁與健康檢查。
package index

import (
	"encoding/json"
	"net/http"
)

// Endpoint 首頁列出的一條路由。
type Endpoint struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Desc   string `json:"desc"`
}

// Endpoints 對外公開的路由清單，與 api.RegisterRoutes 保持一致。
var Endpoints = []Endpoint{
	{"GET", "/healthz", "liveness probe"},
	{"GET", "/metrics", "prometheus metrics"},
	{"GET", "/api/scores", "players, scores and winner"},
	{"GET", "/api/scores/{id}", "single player score"},
	{"POST", "/api/scores/update", "add points: {player_id, points}"},
	{"POST", "/api/scores/set", "set score: {player_id, score}"},
	{"POST", "/api/scores/reset", "reset all scores"},
	{"POST", "/api/wheel/spin", "spin the wheel"},
	{"GET", "/api/wheel/segments", "segments and current segment"},
	{"POST", "/api/wheel/segments", "add segment: {text, action, color}"},
	{"DELETE", "/api/wheel/segments/{id}", "remove segment"},
	{"GET", "/api/wheel/stats", "wheel stats"},
	{"POST", "/api/wheel/config", "spin timing: {spin_duration, min_spins}"},
	{"POST", "/api/wheel/reset", "restore default segments"},
	{"GET", "/api/wheel/presets", "preset names"},
	{"POST", "/api/wheel/preset/{name}", "load preset"},
	{"POST", "/api/wheel/shuffle", "shuffle segments"},
	{"POST", "/api/wheel/sim", "simulate spins: {rounds, workers, seed}"},
	{"GET", "/api/events", "server-sent live feed"},
}

func IndexHandlerFn(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Name      string     `json:"name"`
		Endpoints []Endpoint `json:"endpoints"`
	}{"gameshow", Endpoints})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}
