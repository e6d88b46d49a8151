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
	c1 := NewWithSeed(7)
	c2 := NewWithSeed(7)
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.Seed() != 7 {
		t.Fatalf("expected seed 7, got %d", c1.Seed())
	}
}

func TestIndexBounds(t *testing.T) {
	c := NewWithSeed(3)
	if got := c.Index(0); got != -1 {
		t.Fatalf("expected -1 for n=0, got %d", got)
	}
	for i := 0; i < 1000; i++ {
		if v := c.Index(7); v < 0 || v >= 7 {
			t.Fatalf("index out of range: %d", v)
		}
	}
	for i := 0; i < 100; i++ {
		if f := c.Float64(); f < 0 || f >= 1 {
			t.Fatalf("float out of range: %v", f)
		}
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := NewWithSeed(9)
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal([]int{1, 2, 3, 4}, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestRandomSeedNonNegative(t *testing.T) {
	for i := 0; i < 10; i++ {
		if s := RandomSeed(); s < 0 {
			t.Fatalf("negative seed: %d", s)
		}
	}
}
