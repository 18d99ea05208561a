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
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/zintix-labs/gameshow"
	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/sdk/perf"
	"github.com/zintix-labs/gameshow/stats"
)

func simCommand() *cli.Command {
	return &cli.Command{
		Name:  "sim",
		Usage: "spin a copy of the configured wheel many times and report landing frequencies",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "rounds",
				Aliases: []string{"n"},
				Value:   1_000_000,
				Usage:   "spins per worker",
				EnvVars: []string{"GAMESHOW_SIM_ROUNDS"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Value:   runtime.NumCPU(),
				Usage:   "parallel wheel copies (derived seeds)",
				EnvVars: []string{"GAMESHOW_SIM_WORKERS"},
			},
			&cli.Int64Flag{
				Name:    "seed",
				Usage:   "base seed; 0 picks one at random",
				EnvVars: []string{"GAMESHOW_SIM_SEED"},
			},
			&cli.StringFlag{
				Name:    "preset",
				Usage:   "simulate a preset instead of the configured segments",
				EnvVars: []string{"GAMESHOW_SIM_PRESET"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "output: table | json | yaml",
				EnvVars: []string{"GAMESHOW_SIM_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "pprof",
				Usage:   "profile the simulation: cpu | heap | allocs",
				EnvVars: []string{"GAMESHOW_PPROF"},
			},
			&cli.StringFlag{
				Name:    "pprof-dir",
				Value:   perf.DefaultDir,
				Usage:   "directory for pprof output",
				EnvVars: []string{"GAMESHOW_PPROF_DIR"},
			},
			&cli.BoolFlag{
				Name:    "progress",
				Value:   true,
				Usage:   "show a progress bar (table output only)",
				EnvVars: []string{"GAMESHOW_SIM_PROGRESS"},
			},
		},
		Action: runSim,
	}
}

func runSim(c *cli.Context) error {
	ss, err := loadSetting(c)
	if err != nil {
		return err
	}
	if p := c.String("preset"); p != "" {
		ss.Wheel.Preset = p
		ss.Wheel.Segments = nil
	}
	log, ah, err := newLogger(c)
	if err != nil {
		return err
	}
	defer ah.Close()

	format := c.String("format")
	var render stats.StatReportRender
	if format != "table" {
		if render, err = stats.RenderFor(format); err != nil {
			return err
		}
	}
	workers := c.Int("workers")
	if workers < 1 {
		return errs.NewWarn("workers must > 0")
	}

	// 模擬不碰計分板檔案
	show, err := gameshow.New(ss, gameshow.WithLogger(log), gameshow.WithStore(nil))
	if err != nil {
		return err
	}
	defer show.Close()

	var (
		rep  *stats.SpinReport
		used time.Duration
	)
	prof, err := perf.Run(c.String("pprof-dir"), c.String("pprof"), func() error {
		var err error
		rep, used, err = show.Simulate(c.Int("rounds"), workers, c.Int64("seed"), render == nil && c.Bool("progress"))
		return err
	})
	if err != nil {
		return err
	}
	if prof != "" {
		log.Info("sim: profile written", slog.String("path", prof))
	}
	if render == nil {
		rep.StdOut(used)
		return nil
	}
	return rep.WriteWith(os.Stdout, render)
}
