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

// Package reveal 實作「轉盤揭曉（spin）」的計時狀態機。
//
// 狀態流轉：Idle → Spinning → Settling → Idle
//
// 兩階段合約（commit → animate）：
//  1. Start 當下就以 sampler.PickOne 決定中獎項目（commit），此後整個流程不會改變它，也不對外暴露。
//  2. Spinning 期間每個 tick 重新抽 5 格純裝飾用的視窗（reel motion），不帶任何選取語意。
//  3. tick 數到上限後進入 Settling，最終視窗中央（Center）固定放中獎項目，其他格再隨機一次。
//  4. 短暫停頓後回到 Idle，並把中獎項目交給 OnResult（對外唯一可觀察的結果）。
//
// 取消：所有排程中的 tick/settle 都可以被 Cancel 取消。每個排程回呼都帶著建立當下的
// generation token，回呼執行時先比對 token，不一致就直接返回，因此就算 Timer.Stop 與回呼
// 發生競態，取消之後也不會有任何狀態被修改。
package reveal

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/sdk/core"
	"github.com/zintix-labs/huntlab/sdk/sampler"
)

var (
	ErrCancelled = errs.NewWarn("reveal: cancelled before settle")
	ErrIdle      = errs.NewWarn("reveal: nothing to wait for")
)

// State 轉盤狀態
type State uint8

const (
	Idle State = iota
	Spinning
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Spinning:
		return "spinning"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// MarshalText 讓 State 在 JSON 中以字串呈現。
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Config 轉盤的設計常數。
type Config struct {
	Slots    int           // 視窗格數
	Center   int           // 中獎項目最終停留的格子索引
	Tick     time.Duration // 每次換格的間隔
	Duration time.Duration // 轉動總時長；tick 上限 = Duration / Tick
	Settle   time.Duration // Settling 停頓後才公布結果
}

func DefaultConfig() Config {
	return Config{
		Slots:    5,
		Center:   2,
		Tick:     100 * time.Millisecond,
		Duration: 2500 * time.Millisecond,
		Settle:   300 * time.Millisecond,
	}
}

// Ticks 回傳 tick 上限，至少為 1。
func (c Config) Ticks() int {
	return max(1, int(c.Duration/c.Tick))
}

// normalize 以預設值補齊非法欄位。
func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.Slots < 1 {
		c.Slots = d.Slots
	}
	if c.Center < 0 || c.Center >= c.Slots {
		c.Center = c.Slots / 2
	}
	if c.Tick <= 0 {
		c.Tick = d.Tick
	}
	if c.Duration <= 0 {
		c.Duration = d.Duration
	}
	if c.Settle < 0 {
		c.Settle = d.Settle
	}
	return c
}

// Frame 是某一時刻對外呈現的畫面。
type Frame[T any] struct {
	State  State `json:"state"`
	Window []T   `json:"window"`
	Tick   int   `json:"tick"`
}

// run 代表一次揭曉流程；Wait 以它等待結束。
type run[T any] struct {
	done   chan struct{}
	result T
	ok     bool
}

// Engine 是轉盤狀態機。所有方法都是併發安全的。
//
// OnFrame / OnResult 觀察者會在 Engine 內部鎖持有期間被呼叫：
// 觀察者必須很快返回，且不可同步回呼本 Engine 的任何方法。
type Engine[T any] struct {
	mu    sync.Mutex
	cfg   Config
	core  *core.Core
	sched Scheduler

	onFrame  func(Frame[T])
	onResult func(T)

	state  State
	gen    uint64 // generation token；每次 start/cancel 遞增
	subset []T
	winner T
	window []T
	tick   int
	timer  Timer
	cur    *run[T]

	last    T
	hasLast bool
}

// New 建立轉盤。c 應為此 Engine 專用（Core 不是併發安全的）；sched 為 nil 時使用真實時鐘。
func New[T any](c *core.Core, cfg Config, sched Scheduler) *Engine[T] {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Engine[T]{
		cfg:   cfg.normalize(),
		core:  c,
		sched: sched,
	}
}

// OnFrame 設定畫面更新的觀察者。
func (e *Engine[T]) OnFrame(fn func(Frame[T])) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFrame = fn
}

// OnResult 設定結果公布的觀察者。
func (e *Engine[T]) OnResult(fn func(T)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onResult = fn
}

func (e *Engine[T]) Config() Config {
	return e.cfg
}

// Start 從 subset 隨機決定中獎項目並開始轉動。
//
// 非 Idle 或 subset 為空時不做任何事並回傳 false（不是錯誤）。
func (e *Engine[T]) Start(subset []T) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle || len(subset) == 0 {
		return false
	}
	winner, err := sampler.PickOne(e.core, subset)
	if err != nil {
		return false
	}
	e.animateLocked(subset, winner)
	return true
}

// StartWith 以呼叫端指定的中獎項目開始轉動（commit 已在外部完成）。
// 守衛條件與 Start 相同。
func (e *Engine[T]) StartWith(subset []T, winner T) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle || len(subset) == 0 {
		return false
	}
	e.animateLocked(subset, winner)
	return true
}

func (e *Engine[T]) animateLocked(subset []T, winner T) {
	e.gen++
	e.subset = slices.Clone(subset)
	e.winner = winner
	e.tick = 0
	e.state = Spinning
	e.cur = &run[T]{done: make(chan struct{})}
	e.scheduleLocked(e.cfg.Tick, e.onTick)
}

// Cancel 取消進行中的揭曉；已排程的回呼都不會再產生效果。回傳是否真的取消了東西。
func (e *Engine[T]) Cancel() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Idle {
		return false
	}
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.state = Idle
	e.subset = nil
	close(e.cur.done)
	return true
}

// State 回傳目前狀態。
func (e *Engine[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot 回傳目前畫面的複本。
func (e *Engine[T]) Snapshot() Frame[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameLocked()
}

// Result 回傳最近一次完成（未被取消）的揭曉結果。
func (e *Engine[T]) Result() (T, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last, e.hasLast
}

// Wait 阻塞直到最近一次揭曉結束（已結束則立即返回）。
//
//   - 正常結束：回傳中獎項目。
//   - 被取消：回傳 ErrCancelled。
//   - 從未開始過任何揭曉：回傳 ErrIdle。
//   - ctx 結束：回傳 ctx.Err()（揭曉本身不受影響）。
func (e *Engine[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	e.mu.Lock()
	r := e.cur
	e.mu.Unlock()
	if r == nil {
		return zero, ErrIdle
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !r.ok {
		return zero, ErrCancelled
	}
	return r.result, nil
}

// ---------------------------------------------------------------------------
// 排程回呼
// ---------------------------------------------------------------------------

func (e *Engine[T]) scheduleLocked(d time.Duration, fn func(gen uint64)) {
	gen := e.gen
	e.timer = e.sched.AfterFunc(d, func() { fn(gen) })
}

func (e *Engine[T]) onTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.state != Spinning {
		return
	}
	e.tick++
	e.window = e.drawWindowLocked()
	e.emitFrameLocked()

	if e.tick < e.cfg.Ticks() {
		e.scheduleLocked(e.cfg.Tick, e.onTick)
		return
	}

	// 到達上限：中央固定中獎項目，其餘格子再隨機一次
	e.state = Settling
	w := e.drawWindowLocked()
	w[e.cfg.Center] = e.winner
	e.window = w
	e.emitFrameLocked()
	e.scheduleLocked(e.cfg.Settle, e.onSettle)
}

func (e *Engine[T]) onSettle(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen || e.state != Settling {
		return
	}
	e.state = Idle
	e.timer = nil
	e.subset = nil
	e.last, e.hasLast = e.winner, true
	e.cur.result, e.cur.ok = e.winner, true
	close(e.cur.done)
	if e.onResult != nil {
		e.onResult(e.winner)
	}
}

func (e *Engine[T]) drawWindowLocked() []T {
	w := make([]T, e.cfg.Slots)
	for i := range w {
		w[i] = e.subset[e.core.Index(len(e.subset))]
	}
	return w
}

func (e *Engine[T]) frameLocked() Frame[T] {
	return Frame[T]{State: e.state, Window: slices.Clone(e.window), Tick: e.tick}
}

func (e *Engine[T]) emitFrameLocked() {
	if e.onFrame != nil {
		e.onFrame(e.frameLocked())
	}
}
