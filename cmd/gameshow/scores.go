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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v2"
	"github.com/zintix-labs/gameshow/score"
	"github.com/zintix-labs/gameshow/server/logger"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func scoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "print the persisted scoreboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "score-file",
				Usage:   "override score_file from the show setting",
				EnvVars: []string{"GAMESHOW_SCORE_FILE"},
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "zero every player's score before printing",
			},
		},
		Action: runScores,
	}
}

func runScores(c *cli.Context) error {
	ss, err := loadSetting(c)
	if err != nil {
		return err
	}
	if f := c.String("score-file"); f != "" {
		ss.ScoreFile = f
	}
	mode, err := logger.ParseMode(c.String("log-mode"))
	if err != nil {
		return err
	}
	log := logger.NewDefaultLogger(mode)

	tr, err := score.NewTracker(ss.Roster, score.WithStore(score.NewFileStore(ss.ScoreFile)), score.WithLogger(log))
	if err != nil {
		return err
	}
	if c.Bool("reset") {
		tr.ResetScores()
	}
	printBoard(os.Stdout, tr.Board())
	return nil
}

// printBoard 以對齊的表格輸出計分板；名稱寬度以顯示寬度計算（CJK 佔兩格）。
func printBoard(w io.Writer, b score.Board) {
	p := message.NewPrinter(language.English)
	nameW := runewidth.StringWidth("Player")
	for _, n := range b.Players {
		nameW = max(nameW, runewidth.StringWidth(n))
	}
	scores := make([]string, len(b.Players))
	scoreW := len("Score")
	for i, n := range b.Players {
		scores[i] = p.Sprintf("%d", b.Scores[n])
		scoreW = max(scoreW, len(scores[i]))
	}

	line := "+" + strings.Repeat("-", nameW+2) + "+" + strings.Repeat("-", scoreW+2) + "+"
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "| %s | %*s |\n", runewidth.FillRight("Player", nameW), scoreW, "Score")
	fmt.Fprintln(w, line)
	for i, n := range b.Players {
		fmt.Fprintf(w, "| %s | %*s |\n", runewidth.FillRight(n, nameW), scoreW, scores[i])
	}
	fmt.Fprintln(w, line)
	switch b.Winner {
	case score.WinnerTie:
		fmt.Fprintln(w, "winner: tie")
	case score.NoWinner:
	default:
		fmt.Fprintln(w, "winner: "+b.Winner)
	}
}
