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

// Package server 組裝並啟動 gameshow 的 HTTP 服務。
package server

import (
	"log/slog"

	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/server/api"
	"github.com/zintix-labs/gameshow/server/app"
	"github.com/zintix-labs/gameshow/server/netsvr"
	"github.com/zintix-labs/gameshow/server/svrcfg"
)

// Handler 依設定建立已掛好 middleware 與路由的 server（尚未監聽），供 Run 與測試共用。
func Handler(sCfg *svrcfg.SvrCfg) (*netsvr.ChiAdapter, error) {
	if err := sCfg.Valid(); err != nil {
		return nil, err
	}
	svr := netsvr.NewChiServer(sCfg.Addr)
	if !svr.Ready() {
		return nil, errs.NewWithExtra(errs.Fatal, "server is not ready", sCfg.Addr)
	}
	api.RegisterRoutes(svr, sCfg)
	return svr, nil
}

// Run 阻塞執行 HTTP 服務直到收到終止信號。
func Run(sCfg *svrcfg.SvrCfg) error {
	svr, err := Handler(sCfg)
	if err != nil {
		return err
	}
	return RunWithSvr(sCfg, svr)
}

// RunWithSvr 以外部組好的 server 執行；事件匯流排先註冊，關閉時最後才停。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if svr == nil {
		return errs.NewFatal("svr is required")
	}
	if err := sCfg.Valid(); err != nil {
		return err
	}
	a := app.New(sCfg.Log)
	if bus := sCfg.Show.Bus(); bus != nil {
		a.Register(bus)
	}
	a.Register(svr)

	sCfg.Log.Info("[gameshow] listening", slog.String("addr", svr.Address()))
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped", slog.Any("err", err))
		return err
	}
	return nil
}
