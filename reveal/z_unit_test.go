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

package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zintix-labs/huntlab/sdk/core"
)

func newTestEngine(seed int64) (*Engine[int], *ManualScheduler) {
	s := NewManualScheduler()
	return New[int](core.NewWithSeed(seed), DefaultConfig(), s), s
}

func subsetN(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// TestFullRunSettlesOnWinner 驗證整個流程：25 個 tick、Settling 中央為 commit 的項目、停頓後公布結果
func TestFullRunSettlesOnWinner(t *testing.T) {
	e, s := newTestEngine(1)
	var frames []Frame[int]
	var results []int
	e.OnFrame(func(f Frame[int]) { frames = append(frames, f) })
	e.OnResult(func(v int) { results = append(results, v) })

	if !e.StartWith(subsetN(40), 17) {
		t.Fatalf("expected start")
	}
	if e.State() != Spinning {
		t.Fatalf("expected spinning, got %s", e.State())
	}

	s.Advance(2400 * time.Millisecond)
	if e.State() != Spinning || e.Snapshot().Tick != 24 {
		t.Fatalf("expected 24 ticks while spinning, got %+v", e.Snapshot())
	}

	s.Advance(100 * time.Millisecond)
	f := e.Snapshot()
	if f.State != Settling || f.Tick != 25 {
		t.Fatalf("expected settling at tick 25, got %+v", f)
	}
	if len(f.Window) != 5 || f.Window[2] != 17 {
		t.Fatalf("center must be committed winner, got %v", f.Window)
	}
	if len(results) != 0 {
		t.Fatalf("result must not be emitted before settle pause")
	}
	if _, ok := e.Result(); ok {
		t.Fatalf("result must stay hidden while settling")
	}

	s.Advance(299 * time.Millisecond)
	if e.State() != Settling {
		t.Fatalf("settle pause not respected")
	}
	s.Advance(time.Millisecond)
	if e.State() != Idle {
		t.Fatalf("expected idle after settle")
	}
	if len(results) != 1 || results[0] != 17 {
		t.Fatalf("expected result 17 once, got %v", results)
	}
	if got, ok := e.Result(); !ok || got != 17 {
		t.Fatalf("unexpected Result() %v %v", got, ok)
	}
	// 25 個轉動畫面 + 1 個定格畫面
	if len(frames) != 26 {
		t.Fatalf("expected 26 frames, got %d", len(frames))
	}
	if s.Pending() != 0 {
		t.Fatalf("no timers should remain, got %d", s.Pending())
	}
}

// TestCenterMatchesCommitEveryRun 驗證每一輪定格中央都等於 Start 時 commit 的項目
func TestCenterMatchesCommitEveryRun(t *testing.T) {
	e, s := newTestEngine(2)
	var settled []int
	e.OnFrame(func(f Frame[int]) {
		if f.State == Settling {
			settled = append(settled, f.Window[2])
		}
	})
	var results []int
	e.OnResult(func(v int) { results = append(results, v) })

	for i := 0; i < 50; i++ {
		if !e.Start(subsetN(9)) {
			t.Fatalf("run %d: expected start", i)
		}
		// 不規則地推進時間，模擬 tick 抖動
		for e.State() != Idle {
			s.Advance(time.Duration(37+i%50) * time.Millisecond)
		}
	}
	if len(settled) != 50 || len(results) != 50 {
		t.Fatalf("expected 50 settles/results, got %d/%d", len(settled), len(results))
	}
	for i := range results {
		if settled[i] != results[i] {
			t.Fatalf("run %d: center %d != result %d", i, settled[i], results[i])
		}
	}
}

func TestStartGuards(t *testing.T) {
	e, s := newTestEngine(3)
	if e.Start(nil) {
		t.Fatalf("start with empty subset must be a no-op")
	}
	if e.State() != Idle {
		t.Fatalf("expected idle")
	}
	if !e.StartWith(subsetN(3), 1) {
		t.Fatalf("expected start")
	}
	if e.Start(subsetN(3)) || e.StartWith(subsetN(3), 2) {
		t.Fatalf("start while spinning must be a no-op")
	}
	s.Advance(2500 * time.Millisecond)
	if e.State() != Settling || e.Start(subsetN(3)) {
		t.Fatalf("start while settling must be a no-op")
	}
	s.Advance(300 * time.Millisecond)
	if got, _ := e.Result(); got != 1 {
		t.Fatalf("re-entrant start must not change the winner, got %d", got)
	}
}

// TestCancelStopsEverything 驗證取消後沒有任何回呼產生效果（包含與 Stop 競態的回呼）
func TestCancelStopsEverything(t *testing.T) {
	for _, at := range []time.Duration{50 * time.Millisecond, 1200 * time.Millisecond, 2600 * time.Millisecond} {
		e, s := newTestEngine(4)
		frames, results := 0, 0
		e.OnFrame(func(Frame[int]) { frames++ })
		e.OnResult(func(int) { results++ })

		e.StartWith(subsetN(10), 5)
		s.Advance(at)
		before := e.Snapshot()
		seen := frames

		if !e.Cancel() {
			t.Fatalf("cancel at %s: expected true", at)
		}
		if e.Cancel() {
			t.Fatalf("second cancel must be a no-op")
		}
		if s.Pending() != 0 {
			t.Fatalf("cancel at %s: pending timers remain", at)
		}
		// 模擬 Stop 失敗、回呼仍然被執行的情況
		s.FireStopped()
		s.Advance(10 * time.Second)

		if frames != seen || results != 0 {
			t.Fatalf("cancel at %s: callbacks fired after cancel (frames %d->%d, results %d)", at, seen, frames, results)
		}
		after := e.Snapshot()
		if after.State != Idle || after.Tick != before.Tick {
			t.Fatalf("cancel at %s: state mutated after cancel: %+v", at, after)
		}
		if _, ok := e.Result(); ok {
			t.Fatalf("cancelled run must not publish a result")
		}
	}
}

func TestRestartAfterCancel(t *testing.T) {
	e, s := newTestEngine(5)
	e.StartWith(subsetN(10), 1)
	s.Advance(500 * time.Millisecond)
	e.Cancel()

	if !e.StartWith(subsetN(10), 8) {
		t.Fatalf("expected restart after cancel")
	}
	s.FireStopped()
	s.Advance(2800 * time.Millisecond)
	if got, ok := e.Result(); !ok || got != 8 {
		t.Fatalf("expected 8 from the new run, got %v %v", got, ok)
	}
}

func TestWait(t *testing.T) {
	e, s := newTestEngine(6)
	if _, err := e.Wait(context.Background()); !errors.Is(err, ErrIdle) {
		t.Fatalf("expected ErrIdle, got %v", err)
	}

	e.StartWith(subsetN(4), 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	done := make(chan int, 1)
	go func() {
		v, err := e.Wait(context.Background())
		if err != nil {
			done <- -1
			return
		}
		done <- v
	}()
	s.Advance(2800 * time.Millisecond)
	select {
	case v := <-done:
		if v != 3 {
			t.Fatalf("expected 3, got %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("wait did not return")
	}

	e.StartWith(subsetN(4), 0)
	e.Cancel()
	if _, err := e.Wait(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestRealSchedulerRun(t *testing.T) {
	cfg := Config{Slots: 3, Center: 1, Tick: time.Millisecond, Duration: 5 * time.Millisecond, Settle: time.Millisecond}
	e := New[string](core.NewWithSeed(7), cfg, nil)
	if !e.StartWith([]string{"a", "b", "c"}, "b") {
		t.Fatalf("expected start")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := e.Wait(ctx)
	if err != nil || v != "b" {
		t.Fatalf("expected b, got %q err=%v", v, err)
	}
}

func TestConfigNormalize(t *testing.T) {
	c := Config{Slots: 3, Center: 9}.normalize()
	if c.Center != 1 || c.Tick != 100*time.Millisecond || c.Ticks() != 25 {
		t.Fatalf("unexpected normalized config %+v", c)
	}
}
