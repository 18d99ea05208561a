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

package core

import (
	"slices"
	"testing"
)

func TestCoreDeterminism(t *testing.T) {
	c1 := NewSeeded(7)
	c2 := NewSeeded(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Uniform(-15, 15) != c2.Uniform(-15, 15) {
		t.Fatalf("Uniform mismatch")
	}
}

func TestCoreIntNBounds(t *testing.T) {
	c := NewSeeded(3)
	if got := c.IntN(0); got != -1 {
		t.Fatalf("expected -1 for IntN(0), got %d", got)
	}
	for i := 0; i < 1000; i++ {
		if v := c.IntN(11); v < 0 || v >= 11 {
			t.Fatalf("IntN(11) out of range: %d", v)
		}
	}
}

func TestCoreUniformRange(t *testing.T) {
	c := NewSeeded(5)
	for i := 0; i < 10000; i++ {
		v := c.Uniform(-15, 15)
		if v < -15 || v >= 15 {
			t.Fatalf("Uniform(-15,15) out of range: %v", v)
		}
	}
	if got := c.Uniform(3, 3); got != 3 {
		t.Fatalf("degenerate range should return lo, got %v", got)
	}
}

func TestCoreShuffle(t *testing.T) {
	c := NewSeeded(9)

	src := []int{1, 2, 3, 4, 5, 6}
	c.Shuffle(len(src), func(i, j int) { src[i], src[j] = src[j], src[i] })
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal(got, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestSnapshotRestore(t *testing.T) {
	c := NewSeeded(42)
	c.Uint64()
	snap, err := c.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := c.Uint64()

	r := NewSeeded(1)
	if err := r.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := r.Uint64(); got != want {
		t.Fatalf("restored stream diverged: got %d want %d", got, want)
	}
}
