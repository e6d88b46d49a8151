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
	"encoding/json"
	"testing"
)

func TestRunJSON(t *testing.T) {
	cfg := bindFlags([]string{"-draws", "500", "-batch", "2", "-workers", "2", "-seed", "3", "-format", "json", "-provider", "NetEnt"})
	var buf bytes.Buffer
	if err := run(cfg, &buf); err != nil {
		t.Fatal(err)
	}
	var rep struct {
		N      int   `json:"N"`
		Counts []int `json:"Counts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("bad json: %v\n%s", err, buf.String())
	}
	if rep.N != 4 || len(rep.Counts) != 4 {
		t.Fatalf("NetEnt subset should have 4 items, got %+v", rep)
	}
	sum := 0
	for _, c := range rep.Counts {
		sum += c
	}
	if sum != 2*500*2 {
		t.Fatalf("unexpected total %d", sum)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	var buf bytes.Buffer
	if err := run(bindFlags([]string{"-n", "3", "-batch", "5", "-format", "json"}), &buf); err == nil {
		t.Fatalf("batch > n should fail")
	}
	if err := run(bindFlags([]string{"-n", "3", "-p", "trace"}), &buf); err == nil {
		t.Fatalf("unknown pprof mode should fail")
	}
}
