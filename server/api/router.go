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
	"net/http"

	"github.com/zintix-labs/gameshow/server/api/index"
	v1 "github.com/zintix-labs/gameshow/server/api/v1"
	"github.com/zintix-labs/gameshow/server/netsvr"
	"github.com/zintix-labs/gameshow/server/netsvr/middleware"
	"github.com/zintix-labs/gameshow/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	registerMiddleware(svr, sCfg) // 1. 註冊 middleware
	registerIndex(svr, sCfg)      // 2. 註冊主頁 / 健康檢查 / 指標
	registerAPI(svr, sCfg)        // 3. 註冊 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(sCfg.Log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.CORS(sCfg.CORSOrigins))
	svr.Use(middleware.Metrics(sCfg.Show.Metrics()))
	svr.Use(middleware.Compression)
}

// 註冊主頁
func registerIndex(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	svr.Get("/", index.IndexHandlerFn)
	svr.Get("/healthz", index.Healthz)
	if m := sCfg.Show.Metrics(); m != nil {
		svr.Method(http.MethodGet, "/metrics", m.Handler())
	}
}

// 註冊 api
func registerAPI(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) {
	show, log := sCfg.Show, sCfg.Log
	sc := v1.NewScoreHandler(show, log)
	wh := v1.NewWheelHandler(show, log)
	sim := v1.NewSimHandler(show, log, sCfg.SimRounds)
	ev := v1.NewEventHandler(show.Bus(), log)
	limiter := middleware.NewIPRateLimiter(sCfg.SpinRate, sCfg.SpinBurst)

	svr.Group("/api", func(r netsvr.NetRouter) {
		r.Get("/scores", sc.Scores)
		r.Get("/scores/{id}", sc.Player)
		r.Post("/scores/update", sc.Update)
		r.Post("/scores/set", sc.Set)
		r.Post("/scores/reset", sc.Reset)

		r.Method(http.MethodPost, "/wheel/spin", middleware.Limit(limiter, http.HandlerFunc(wh.Spin)))
		r.Get("/wheel/segments", wh.Segments)
		r.Post("/wheel/segments", wh.AddSegment)
		r.Delete("/wheel/segments/{id}", wh.RemoveSegment)
		r.Get("/wheel/stats", wh.Stats)
		r.Post("/wheel/config", wh.Config)
		r.Post("/wheel/reset", wh.Reset)
		r.Get("/wheel/presets", wh.Presets)
		r.Post("/wheel/preset/{name}", wh.Preset)
		r.Post("/wheel/shuffle", wh.Shuffle)
		r.Post("/wheel/sim", sim.Sim)

		r.Get("/events", ev.Stream)
	})
}
