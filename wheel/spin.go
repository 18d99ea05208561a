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

// SpinResult 一次轉動的結果。轉動結果不落地，只會成為轉盤的 current。
type SpinResult struct {
	// ID 由上層指派（例如 uuid），引擎本身不填。
	ID         string  `json:"id,omitempty"`
	Index      int     `json:"index"`
	Segment    Segment `json:"segment"`
	FinalAngle float64 `json:"final_angle"`
	Duration   int     `json:"duration"`
	MinSpins   int     `json:"min_spins"`
	// Rotation = MinSpins*360 + FinalAngle，前端動畫使用的總轉角。
	Rotation   float64 `json:"rotation"`
	WinnerText string  `json:"winner_text"`
}

// Stats 轉盤摘要。
type Stats struct {
	TotalSegments int            `json:"total_segments"`
	Actions       []string       `json:"actions"`
	ActionCounts  map[string]int `json:"action_counts"`
	SpinDuration  int            `json:"spin_duration"`
	MinSpins      int            `json:"min_spins"`
	Spinning      bool           `json:"is_spinning"`
}
