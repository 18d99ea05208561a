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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zintix-labs/gameshow/wheel"
)

func testSegments() []wheel.Segment {
	return []wheel.Segment{
		{ID: 0, Text: "A", Action: "a", Angle: 0},
		{ID: 1, Text: "B", Action: "b", Angle: 120},
		{ID: 2, Text: "C", Action: "a", Angle: 240},
	}
}

func TestRecordAndDone(t *testing.T) {
	r, err := NewSpinRecorder("t", 42, testSegments())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	results := []wheel.SpinResult{
		{Index: 0, FinalAngle: 5},
		{Index: 1, FinalAngle: 125},
		{Index: 1, FinalAngle: 110},
		{Index: 2, FinalAngle: 355},
	}
	for _, res := range results {
		if err := r.Record(res); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := r.Record(wheel.SpinResult{Index: 3}); err == nil {
		t.Fatalf("out of range index should fail")
	}

	rep := r.Done()
	if rep.Summary.Rounds != 4 || rep.Summary.Seed != 42 || rep.Summary.SegmentCount != 3 {
		t.Fatalf("summary = %+v", rep.Summary)
	}
	hits := []int{rep.Segments[0].Hits, rep.Segments[1].Hits, rep.Segments[2].Hits}
	if diff := cmp.Diff([]int{1, 2, 1}, hits); diff != "" {
		t.Fatalf("hits mismatch (-want +got):\n%s", diff)
	}
	// [0,30) / [90,120) / [120,150) / [330,360)
	if rep.Landing.Collect[0] != 1 || rep.Landing.Collect[3] != 1 || rep.Landing.Collect[4] != 1 || rep.Landing.Collect[11] != 1 {
		t.Fatalf("landing = %v", rep.Landing.Collect)
	}
}

func TestMerge(t *testing.T) {
	a, _ := NewSpinRecorder("t", 1, testSegments())
	b, _ := NewSpinRecorder("t", 1, testSegments())
	_ = a.Record(wheel.SpinResult{Index: 0})
	_ = b.Record(wheel.SpinResult{Index: 0})
	_ = b.Record(wheel.SpinResult{Index: 2, FinalAngle: 240})

	m, err := MergeSpinRecorder([]*SpinRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if m.Rounds != 3 || m.Workers != 2 {
		t.Fatalf("merged rounds=%d workers=%d", m.Rounds, m.Workers)
	}
	if diff := cmp.Diff([]int{2, 0, 1}, m.Hits); diff != "" {
		t.Fatalf("hits mismatch (-want +got):\n%s", diff)
	}

	other := testSegments()
	other[1].ID = 9
	c, _ := NewSpinRecorder("t", 1, other)
	if _, err := MergeSpinRecorder([]*SpinRecorder{a, c}); err == nil {
		t.Fatalf("merge with different segments should fail")
	}
	if _, err := MergeSpinRecorder(nil); err == nil {
		t.Fatalf("merge empty should fail")
	}
}

func TestNewRequiresSegments(t *testing.T) {
	if _, err := NewSpinRecorder("t", 1, nil); err == nil {
		t.Fatalf("empty segments should fail")
	}
}
