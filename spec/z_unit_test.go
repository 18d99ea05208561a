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

package spec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zintix-labs/gameshow/errs"
)

func TestDefaultSetting(t *testing.T) {
	ss, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if diff := cmp.Diff(DefaultRoster, ss.Roster); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}
	if ss.ScoreFile != DefaultScoreFile {
		t.Fatalf("score file = %q", ss.ScoreFile)
	}
	if ss.Wheel.Preset != DefaultPreset || *ss.Wheel.SpinDuration != 3000 || *ss.Wheel.MinSpins != 3 {
		t.Fatalf("unexpected wheel setting: %+v", ss.Wheel)
	}
}

func TestYAMLFillsDefaults(t *testing.T) {
	ss, err := GetShowSettingByYAML([]byte("roster: [Ann, Bob]\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if diff := cmp.Diff([]string{"Ann", "Bob"}, ss.Roster); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}
	if ss.ScoreFile != DefaultScoreFile || ss.Wheel.Preset != DefaultPreset {
		t.Fatalf("defaults not applied: %+v", ss)
	}
}

func TestExplicitZeroTimingKept(t *testing.T) {
	ss, err := GetShowSettingByYAML([]byte("wheel:\n  spin_duration: 0\n  min_spins: 0\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if *ss.Wheel.SpinDuration != 0 || *ss.Wheel.MinSpins != 0 {
		t.Fatalf("explicit zero replaced: %+v", ss.Wheel)
	}

	cp := ss.Clone()
	*cp.Wheel.MinSpins = 7
	if *ss.Wheel.MinSpins != 0 {
		t.Fatalf("clone shares min_spins")
	}
}

func TestCustomSegmentsSkipPreset(t *testing.T) {
	data := []byte(`
wheel:
  segments:
    - {text: Easy, action: new_rule}
    - {text: Hard, action: challenge, color: "#FF0000"}
`)
	ss, err := GetShowSettingByYAML(data)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if ss.Wheel.Preset != "" {
		t.Fatalf("preset should stay empty when segments are given, got %q", ss.Wheel.Preset)
	}
	want := []SegmentSetting{{Text: "Easy", Action: "new_rule"}, {Text: "Hard", Action: "challenge", Color: "#FF0000"}}
	if diff := cmp.Diff(want, ss.Wheel.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"duplicate name": "roster: [A, A]\n",
		"blank name":     "roster: [A, '  ']\n",
		"segment action": "wheel:\n  segments:\n    - {text: X}\n",
		"bad yaml":       "roster: [A\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := GetShowSettingByYAML([]byte(data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if errs.Level(err) != errs.Fatal {
				t.Fatalf("expected fatal level, got %v", err)
			}
		})
	}
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "show.json")
	if err := os.WriteFile(jsonPath, []byte(`{"roster":["A"],"score_file":"s.json"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	ss, err := LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if ss.ScoreFile != "s.json" || len(ss.Roster) != 1 {
		t.Fatalf("unexpected setting: %+v", ss)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	ss, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	cp := ss.Clone()
	cp.Roster[0] = "changed"
	if ss.Roster[0] == "changed" {
		t.Fatalf("clone shares roster backing array")
	}
}
