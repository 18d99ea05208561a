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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zintix-labs/gameshow/score"
)

func TestPrintBoardAlignsWideNames(t *testing.T) {
	var buf bytes.Buffer
	printBoard(&buf, score.Board{
		Players: []string{"Ann", "小明"},
		Scores:  map[string]int{"Ann": 1200, "小明": -5},
		Winner:  "Ann",
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 7 {
		t.Fatalf("lines=%d\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[3], "1,200") {
		t.Fatalf("thousands separator missing: %q", lines[3])
	}
	if lines[len(lines)-1] != "winner: Ann" {
		t.Fatalf("winner line=%q", lines[len(lines)-1])
	}
}

func TestScoresCommandReadsAndResets(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scores.json")
	if err := os.WriteFile(file, []byte(`{"Player 1": 3, "Player 2": 9, "Player 3": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	app := newApp()
	if err := app.Run([]string{"gameshow", "--log-mode", "silence", "scores", "--score-file", file, "--reset"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	st := score.NewFileStore(file)
	got, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	for name, v := range got {
		if v != 0 {
			t.Fatalf("%s=%d after reset", name, v)
		}
	}
}

func TestSimCommandRejectsUnknownFormat(t *testing.T) {
	err := newApp().Run([]string{"gameshow", "--log-mode", "silence", "sim", "-n", "10", "-w", "1", "--format", "xml"})
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Fatalf("err=%v", err)
	}
}

func TestLoadEnvMissingFileIsFine(t *testing.T) {
	if err := loadEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("missing dotenv should be ignored: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("GAMESHOW_TEST_ONLY=from-dotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GAMESHOW_TEST_ONLY", "")
	os.Unsetenv("GAMESHOW_TEST_ONLY")
	if err := loadEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv("GAMESHOW_TEST_ONLY"); got != "from-dotenv" {
		t.Fatalf("env=%q", got)
	}
}
