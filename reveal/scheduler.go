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
	"sort"
	"sync"
	"time"
)

// Timer 是可取消的排程。
type Timer interface {
	// Stop 取消排程；回傳 false 表示已觸發或已取消。
	Stop() bool
}

// Scheduler 抽象「d 之後呼叫 f」；Engine 所有的時間行為都經過它。
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler 以 time.AfterFunc 實作 Scheduler。
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler 是手動推進的虛擬時鐘，讓測試可以決定性地驅動 Engine。
//
// 回呼在 Advance 的呼叫端 goroutine 上同步執行，且執行時不持有 ManualScheduler 的鎖，
// 所以回呼內可以再排程。
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return t
}

// Now 回傳虛擬時鐘目前的時間（自建立起經過的時間）。
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance 推進時鐘 d，依到期時間（同時到期則依排程順序）觸發所有到期的排程，回傳觸發數。
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		s.mu.Lock()
		t := s.nextDueLocked(target)
		if t == nil {
			s.now = target
			s.compactLocked()
			s.mu.Unlock()
			return fired
		}
		t.fired = true
		s.now = t.at
		s.mu.Unlock()

		t.fn()
		fired++
	}
}

// Pending 回傳尚未觸發且未取消的排程數。
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// FireStopped 直接執行所有「已取消但未觸發」的回呼，模擬 Stop 與回呼同時發生的競態。
func (s *ManualScheduler) FireStopped() int {
	s.mu.Lock()
	var stale []*manualTimer
	for _, t := range s.timers {
		if t.stopped && !t.fired {
			t.fired = true
			stale = append(stale, t)
		}
	}
	s.mu.Unlock()
	for _, t := range stale {
		t.fn()
	}
	return len(stale)
}

func (s *ManualScheduler) nextDueLocked(target time.Duration) *manualTimer {
	due := make([]*manualTimer, 0, 4)
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

// compactLocked 移除已觸發的排程；已取消未觸發的留給 FireStopped。
func (s *ManualScheduler) compactLocked() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.fired {
			kept = append(kept, t)
		}
	}
	s.timers = kept
}
