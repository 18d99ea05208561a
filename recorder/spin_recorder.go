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

package recorder

import (
	"fmt"

	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/stats"
	"github.com/zintix-labs/gameshow/wheel"
)

// SpinRecorder 轉盤紀錄員
//
// SpinRecorder 負責紀錄每次轉動的結果，並透過 Done 輸出統計報表。
// 只累積 int 計數；比率、信賴區間與檢定都延後到 Done 才計算。
type SpinRecorder struct {
	Label    string
	Seed     int64
	Workers  int
	Segments []wheel.Segment
	Hits     []int
	Landing  []int
	Rounds   int
	bucket   *stats.AngleBucket
}

// NewSpinRecorder 以轉盤目前的格子建立紀錄員。
func NewSpinRecorder(label string, seed int64, segments []wheel.Segment) (*SpinRecorder, error) {
	if len(segments) == 0 {
		return nil, errs.NewFatal("spin recorder needs at least one segment")
	}
	return &SpinRecorder{
		Label:    label,
		Seed:     seed,
		Workers:  1,
		Segments: append([]wheel.Segment(nil), segments...),
		Hits:     make([]int, len(segments)),
		Landing:  make([]int, stats.Landing.Len()),
		bucket:   stats.Landing,
	}, nil
}

// MergeSpinRecorder 合併多個 worker 的紀錄；格子組成必須一致。
func MergeSpinRecorder(r []*SpinRecorder) (*SpinRecorder, error) {
	if len(r) == 0 {
		return nil, errs.NewFatal("merge spin record err : empty input")
	}
	r0 := r[0]
	s, err := NewSpinRecorder(r0.Label, r0.Seed, r0.Segments)
	if err != nil {
		return nil, err
	}
	s.Workers = len(r)
	for _, v := range r {
		if len(v.Segments) != len(r0.Segments) {
			return nil, errs.NewFatal("merge spin record err : different segment count")
		}
		for i, seg := range v.Segments {
			if seg.ID != r0.Segments[i].ID {
				return nil, errs.NewFatal(fmt.Sprintf("merge spin record err : segment %d id %d != %d", i, seg.ID, r0.Segments[i].ID))
			}
		}
		for i, h := range v.Hits {
			s.Hits[i] += h
		}
		for i, c := range v.Landing {
			s.Landing[i] += c
		}
		s.Rounds += v.Rounds
	}
	return s, nil
}

// Record 以單次轉動結果更新計數。
func (s *SpinRecorder) Record(res wheel.SpinResult) error {
	if res.Index < 0 || res.Index >= len(s.Hits) {
		return errs.Fatalf("spin index %d out of recorder range %d", res.Index, len(s.Hits))
	}
	s.Hits[res.Index]++
	s.Landing[s.bucket.Index(res.FinalAngle)]++
	s.Rounds++
	return nil
}

// Done 產生統計報表（已完成計算）。
func (s *SpinRecorder) Done() *stats.SpinReport {
	segs := make([]*stats.SegmentReport, len(s.Segments))
	for i, seg := range s.Segments {
		segs[i] = &stats.SegmentReport{
			ID:     seg.ID,
			Text:   seg.Text,
			Action: seg.Action,
			Hits:   s.Hits[i],
		}
	}
	report := &stats.SpinReport{
		Summary: &stats.SummaryReport{
			Label:   s.Label,
			Seed:    s.Seed,
			Workers: s.Workers,
			Rounds:  s.Rounds,
		},
		Segments: segs,
		Landing: &stats.LandingReport{
			Bucket:  s.bucket.Labels(),
			Collect: append([]int(nil), s.Landing...),
		},
	}
	report.Done()
	return report
}
