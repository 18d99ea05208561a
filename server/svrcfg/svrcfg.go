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

// Package svrcfg 收攏 HTTP 服務啟動所需的設定。
package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/server/logger"
	"github.com/zintix-labs/gameshow/server/netsvr"
)

const (
	DefaultSpinRate  = 5.0
	DefaultSpinBurst = 10
	MaxSimRounds     = 1_000_000
)

type SvrCfg struct {
	Log  *slog.Logger
	Addr string
	// CORSOrigins 為空代表允許所有來源。
	CORSOrigins []string
	// SpinRate 每個 IP 每秒可轉動次數；<0 關閉限流，0 使用預設值。
	SpinRate  float64
	SpinBurst int
	// SimRounds HTTP 模擬請求的 rounds 上限。
	SimRounds int
	Show      *gameshow.Show
}

// Valid 補上預設值；Show 為必要欄位。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		sc.Log = logger.Discard()
	}
	if sc.Addr == "" {
		sc.Addr = netsvr.DefaultAddr
	}
	switch {
	case sc.SpinRate == 0:
		sc.SpinRate = DefaultSpinRate
	case sc.SpinRate < 0:
		sc.SpinRate = 0
	}
	if sc.SpinBurst < 1 {
		sc.SpinBurst = DefaultSpinBurst
	}
	if sc.SimRounds < 1 || sc.SimRounds > MaxSimRounds {
		sc.SimRounds = MaxSimRounds
	}
	if sc.Show == nil {
		return errs.NewFatal("show is required")
	}
	return nil
}
