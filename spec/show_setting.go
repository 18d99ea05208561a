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

// Package spec 定義 gameshow 的設定檔結構與載入方式。
package spec

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zintix-labs/gameshow/errs"
)

// DefaultRoster 是未指定名單時使用的三位玩家。
var DefaultRoster = []string{"Player 1", "Player 2", "Player 3"}

const (
	DefaultScoreFile    = "game_scores.json"
	DefaultPreset       = "original"
	DefaultSpinDuration = 3000
	DefaultMinSpins     = 3
)

// ShowSetting 包含啟動一場節目所需的所有高階設定。
type ShowSetting struct {
	Roster    []string     `yaml:"roster"      json:"roster"`
	ScoreFile string       `yaml:"score_file"  json:"score_file"`
	Wheel     WheelSetting `yaml:"wheel"       json:"wheel"`
}

// WheelSetting 轉盤設定。
//
// Segments 非空時優先於 Preset；兩者皆空時使用 DefaultPreset。
// Seed 為 0 代表每次啟動自動產生。
// SpinDuration / MinSpins 未填時取預設值；填 0 或超出範圍的值由轉盤夾到合法區間。
type WheelSetting struct {
	Preset       string           `yaml:"preset"         json:"preset"`
	Segments     []SegmentSetting `yaml:"segments"       json:"segments"`
	SpinDuration *int             `yaml:"spin_duration"  json:"spin_duration,omitempty"`
	MinSpins     *int             `yaml:"min_spins"      json:"min_spins,omitempty"`
	Seed         int64            `yaml:"seed"           json:"seed"`
}

// SegmentSetting 單一格子的設定；Color 可省略。
type SegmentSetting struct {
	Text   string `yaml:"text"   json:"text"`
	Action string `yaml:"action" json:"action"`
	Color  string `yaml:"color"  json:"color"`
}

// init 補上預設值並執行基本檢查。
func (ss *ShowSetting) init() error {
	if len(ss.Roster) == 0 {
		ss.Roster = slices.Clone(DefaultRoster)
	}
	if ss.ScoreFile == "" {
		ss.ScoreFile = DefaultScoreFile
	}
	if ss.Wheel.Preset == "" && len(ss.Wheel.Segments) == 0 {
		ss.Wheel.Preset = DefaultPreset
	}
	if ss.Wheel.SpinDuration == nil {
		ss.Wheel.SpinDuration = ptr(DefaultSpinDuration)
	}
	if ss.Wheel.MinSpins == nil {
		ss.Wheel.MinSpins = ptr(DefaultMinSpins)
	}
	return ss.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (ss *ShowSetting) valid() error {
	seen := make(map[string]struct{}, len(ss.Roster))
	for i, name := range ss.Roster {
		if strings.TrimSpace(name) == "" {
			return errs.NewFatal(fmt.Sprintf("roster[%d]: empty player name", i))
		}
		if _, dup := seen[name]; dup {
			return errs.NewFatal(fmt.Sprintf("roster[%d]: duplicate player name %q", i, name))
		}
		seen[name] = struct{}{}
	}
	for i, seg := range ss.Wheel.Segments {
		if seg.Text == "" || seg.Action == "" {
			return errs.NewFatal(fmt.Sprintf("wheel.segments[%d]: text and action are required", i))
		}
	}
	return nil
}

// Clone 回傳深拷貝，讓呼叫端可以自由修改而不影響原設定。
func (ss *ShowSetting) Clone() *ShowSetting {
	cp := *ss
	cp.Roster = slices.Clone(ss.Roster)
	cp.Wheel.Segments = slices.Clone(ss.Wheel.Segments)
	if ss.Wheel.SpinDuration != nil {
		cp.Wheel.SpinDuration = ptr(*ss.Wheel.SpinDuration)
	}
	if ss.Wheel.MinSpins != nil {
		cp.Wheel.MinSpins = ptr(*ss.Wheel.MinSpins)
	}
	return &cp
}

func ptr[T any](v T) *T { return &v }
