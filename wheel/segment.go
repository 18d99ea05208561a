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

package wheel

import "strings"

// MaxSegments 轉盤可容納的最大格數。
const MaxSegments = 12

const (
	PresetOriginal = "original"
	Preset4        = "4-segment"
	Preset6        = "6-segment"
	Preset8        = "8-segment"
	Preset12       = "12-segment"
)

// Segment 是轉盤上的一格。Angle 為該格起始角（度），由引擎在每次變動後重算。
type Segment struct {
	ID     int     `json:"id"`
	Text   string  `json:"text"`
	Action string  `json:"action"`
	Color  string  `json:"color"`
	Angle  float64 `json:"angle"`
}

// Spec 描述一格的內容（不含 id 與角度），用於預設組合與設定檔。
type Spec struct {
	Text   string `json:"text" yaml:"text"`
	Action string `json:"action" yaml:"action"`
	Color  string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Palette 未指定顏色時依位置循環取用。
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4",
	"#FFEAA7", "#DDA0DD", "#98D8C8", "#F7DC6F",
	"#FF9F43", "#A29BFE", "#FD79A8", "#74B9FF",
}

func paletteColor(i int) string {
	return Palette[i%len(Palette)]
}

// DefaultSegments 內建的 11 格：3 new_rule、2 audience_choice、3 challenge、duplicate / reverse / swap 各 1。
func DefaultSegments() []Spec {
	return clonePreset(presets[PresetOriginal])
}

var presets = map[string][]Spec{
	PresetOriginal: {
		{"New Rule", "new_rule", "#FF6B6B"},
		{"New Rule", "new_rule", "#4ECDC4"},
		{"New Rule", "new_rule", "#45B7D1"},
		{"Modify: Audience Choice", "audience_choice", "#96CEB4"},
		{"Modify: Audience Choice", "audience_choice", "#FFEAA7"},
		{"Challenge", "challenge", "#DDA0DD"},
		{"Challenge", "challenge", "#98D8C8"},
		{"Challenge", "challenge", "#F7DC6F"},
		{"Modify: Duplicate", "duplicate", "#FF9F43"},
		{"Modify: Reverse", "reverse", "#A29BFE"},
		{"Modify: Swap", "swap", "#FD79A8"},
	},
	Preset4: {
		{Text: "Easy Mode", Action: "new_rule"},
		{Text: "Medium Mode", Action: "audience_choice"},
		{Text: "Hard Mode", Action: "challenge"},
		{Text: "Extreme Mode", Action: "destroy_rule_self"},
	},
	Preset6: ruleMods[:6],
	Preset8: ruleMods[:8],
	Preset12: append(ruleMods[:8:8],
		Spec{Text: "Challenge", Action: "challenge"},
		Spec{Text: "Duplicate", Action: "duplicate"},
		Spec{Text: "Reverse", Action: "reverse"},
		Spec{Text: "New Rule", Action: "new_rule"},
	),
}

var ruleMods = []Spec{
	{Text: "Destroy Rule (self)", Action: "destroy_rule_self"},
	{Text: "Audience Choice", Action: "audience_choice"},
	{Text: "Swap", Action: "swap"},
	{Text: "Shift 1 to Right", Action: "shift_1_right"},
	{Text: "Opposite Rule", Action: "opposite_rule"},
	{Text: "Destroy Rule (other)", Action: "destroy_rule_other"},
	{Text: "New Rule (self)", Action: "new_rule_self"},
	{Text: "New Rule (other)", Action: "new_rule_other"},
}

// Preset 依名稱回傳預設組合的副本；名稱不分大小寫。
func Preset(name string) ([]Spec, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return clonePreset(p), true
}

// PresetNames 回傳所有預設組合名稱（固定順序）。
func PresetNames() []string {
	return []string{PresetOriginal, Preset4, Preset6, Preset8, Preset12}
}

func clonePreset(p []Spec) []Spec {
	out := make([]Spec, len(p))
	copy(out, p)
	return out
}
