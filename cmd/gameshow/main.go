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

// Command gameshow 啟動節目後台服務，或在命令列執行模擬與查詢計分板。
//
//	gameshow serve --addr :5001 --config show.yaml
//	gameshow sim --rounds 1000000 --workers 8 --format yaml
//	gameshow scores --reset
//
// 所有旗標都可用 GAMESHOW_* 環境變數設定；工作目錄下的 .env 會先被載入。
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"github.com/zintix-labs/gameshow/server/logger"
	"github.com/zintix-labs/gameshow/spec"
)

func main() {
	// 旗標的 EnvVars 在解析時讀取，dotenv 必須在 Run 之前載入。
	if err := loadEnv(os.Getenv("GAMESHOW_ENV_FILE")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "gameshow",
		Usage: "game show scoreboard and prize wheel",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "show setting file (.yaml / .json); empty uses the built-in default",
				EnvVars: []string{"GAMESHOW_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-mode",
				Value:   "dev",
				Usage:   "log mode: dev | prod | silence",
				EnvVars: []string{"GAMESHOW_LOG_MODE"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			simCommand(),
			scoresCommand(),
		},
	}
}

// loadEnv 載入 dotenv（預設 .env）；檔案不存在不算錯誤。
// 已經存在的環境變數不會被覆寫，因此 shell 的設定優先。
func loadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadSetting 讀取 --config；未指定時使用內建設定。
func loadSetting(c *cli.Context) (*spec.ShowSetting, error) {
	if path := c.String("config"); path != "" {
		return spec.LoadFile(path)
	}
	return spec.Default()
}

// newLogger 依 --log-mode 建立非同步 logger；呼叫端負責 Close 以送出緩衝中的 log。
func newLogger(c *cli.Context) (*slog.Logger, *logger.AsyncHandler, error) {
	mode, err := logger.ParseMode(c.String("log-mode"))
	if err != nil {
		return nil, nil, err
	}
	log, ah := logger.NewAsync(4096, mode)
	return log, ah, nil
}
