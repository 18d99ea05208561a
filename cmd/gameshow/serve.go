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

package main

import (
	"github.com/urfave/cli/v2"
	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/events"
	"github.com/zintix-labs/gameshow/metrics"
	"github.com/zintix-labs/gameshow/server"
	"github.com/zintix-labs/gameshow/server/netsvr"
	"github.com/zintix-labs/gameshow/server/svrcfg"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API and live event feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Value:   netsvr.DefaultAddr,
				Usage:   "listen address",
				EnvVars: []string{"GAMESHOW_ADDR"},
			},
			&cli.StringFlag{
				Name:    "score-file",
				Usage:   "override score_file from the show setting",
				EnvVars: []string{"GAMESHOW_SCORE_FILE"},
			},
			&cli.StringSliceFlag{
				Name:    "cors-origin",
				Usage:   "allowed CORS origin (repeatable); empty allows all",
				EnvVars: []string{"GAMESHOW_CORS_ORIGINS"},
			},
			&cli.Float64Flag{
				Name:    "spin-rate",
				Value:   svrcfg.DefaultSpinRate,
				Usage:   "spins per second per client IP; negative disables the limit",
				EnvVars: []string{"GAMESHOW_SPIN_RATE"},
			},
			&cli.IntFlag{
				Name:    "spin-burst",
				Value:   svrcfg.DefaultSpinBurst,
				Usage:   "spin burst per client IP",
				EnvVars: []string{"GAMESHOW_SPIN_BURST"},
			},
			&cli.IntFlag{
				Name:    "event-buffer",
				Value:   64,
				Usage:   "per-subscriber live feed buffer",
				EnvVars: []string{"GAMESHOW_EVENT_BUFFER"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	ss, err := loadSetting(c)
	if err != nil {
		return err
	}
	if f := c.String("score-file"); f != "" {
		ss.ScoreFile = f
	}
	log, ah, err := newLogger(c)
	if err != nil {
		return err
	}
	defer ah.Close()

	show, err := gameshow.New(ss,
		gameshow.WithLogger(log),
		gameshow.WithBus(events.NewBus(log, int64(c.Int("event-buffer")))),
		gameshow.WithMetrics(metrics.New()),
	)
	if err != nil {
		return err
	}
	defer show.Close()

	cfg := &svrcfg.SvrCfg{
		Log:         log,
		Addr:        c.String("addr"),
		CORSOrigins: c.StringSlice("cors-origin"),
		SpinRate:    c.Float64("spin-rate"),
		SpinBurst:   c.Int("spin-burst"),
		Show:        show,
	}
	return server.Run(cfg)
}
