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

// Package huntlab 提供 bonus hunt 引擎的「組裝入口（assembler）」。
//
// Engine 把下列元件組裝在一起，並對外提供單一、序列化的操作介面：
//  1. Catalog：不可變的 slot 目錄，由呼叫端載入後以參照傳入（不持有全域狀態）。
//  2. Filter：目前勾選的供應商與搜尋字串，決定 active subset。
//  3. Reveal：轉盤狀態機，從 active subset 揭曉單一項目。
//  4. Ledger / History：目前的 hunt（下注/派彩紀錄）與最多 50 筆的歷史。
//  5. Persist：每次狀態變動後整份寫回 kvstore（write-through），啟動時還原。
//
// 併發模型：
//   - Engine 的所有方法都是併發安全的；內部以一把 mutex 序列化呼叫。
//   - Engine 持有自己的鎖時不會呼叫 Reveal（Reveal 有自己的鎖與 generation token）。
//   - Reveal 的觀察者只做 log，不會回呼 Engine。
//   - 持久化寫入失敗只記錄 log，不回傳給呼叫端。
//
// 典型使用情境：
//
//	cat, _ := catalog.New(demo.Catalog)
//	eng, _ := huntlab.New(huntlab.Config{Catalog: cat, Store: store, Log: log})
//	eng.ToggleProvider(ctx, "Pragmatic Play")
//	eng.Generate(ctx, 10, "Friday hunt")
//	eng.SetRecord(ctx, 0, hunt.FieldPayout, "125.40")
package huntlab

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/kvstore"
	"github.com/zintix-labs/huntlab/persist"
	"github.com/zintix-labs/huntlab/reveal"
	"github.com/zintix-labs/huntlab/sdk/core"
)

// Config 是 New 需要的參數。除了 Catalog 之外都有預設值。
type Config struct {
	Catalog   *catalog.Catalog
	Store     kvstore.Store    // nil 使用 MemStore（不跨行程）
	Reveal    reveal.Config    // 零值欄位以 reveal.DefaultConfig 補齊
	Scheduler reveal.Scheduler // nil 使用真實時鐘
	Seed      int64            // 0 表示隨機種子
	Log       *slog.Logger     // nil 使用 slog.Default()
	Ledger    []hunt.Option    // 測試用：替換時鐘與 id 產生器
}

// ProviderInfo 是供應商列表中的一筆。
type ProviderInfo struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// HuntView 是目前 hunt 的快照。
type HuntView struct {
	Session *hunt.Session `json:"session"`
	Active  bool          `json:"active"`
	Totals  hunt.Totals   `json:"totals"`
}

// Engine 是 bonus hunt 引擎。
type Engine struct {
	mu sync.Mutex

	cat     *catalog.Catalog
	core    *core.Core
	filter  catalog.Filter
	display []catalog.Item // active subset 的顯示用洗牌結果，條件變動時重算

	ledger *hunt.Ledger
	spin   *reveal.Engine[catalog.Item]
	state  *persist.Adapter
	log    *slog.Logger
	seed   int64
}

// New 建立 Engine，並嘗試從 Store 還原上一次的狀態。
//
// 還原規則：
//   - 沒有舊狀態或整份無法解析：全選供應商、沒有進行中的 hunt、歷史為空。
//   - 還原出的供應商清單只保留目錄中存在的；結果為空時視為全選。
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, errs.NewFatal("catalog required")
	}
	if cfg.Store == nil {
		cfg.Store = kvstore.NewMemStore()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = core.RandomSeed()
	}
	rcfg := mergeReveal(cfg.Reveal)

	e := &Engine{
		cat:    cfg.Catalog,
		core:   core.NewWithSeed(seed),
		filter: cfg.Catalog.AllProviders(),
		state:  persist.NewAdapter(cfg.Store, cfg.Log),
		log:    cfg.Log,
		seed:   seed,
	}
	e.ledger = hunt.NewLedger(e.core, hunt.NewHistory(), cfg.Ledger...)
	// Reveal 在自己的 goroutine/鎖內抽樣，必須使用獨立的 Core
	e.spin = reveal.New[catalog.Item](core.NewWithSeed(seed^0x5eed), rcfg, cfg.Scheduler)
	e.spin.OnResult(func(it catalog.Item) {
		e.log.Info("reveal settled", slog.String("id", it.ID), slog.String("provider", it.Provider))
	})

	e.hydrate(context.Background())
	e.refreshLocked()
	return e, nil
}

func mergeReveal(c reveal.Config) reveal.Config {
	d := reveal.DefaultConfig()
	if c.Slots == 0 {
		c.Slots, c.Center = d.Slots, d.Center
	}
	if c.Tick == 0 {
		c.Tick = d.Tick
	}
	if c.Duration == 0 {
		c.Duration = d.Duration
	}
	if c.Settle == 0 {
		c.Settle = d.Settle
	}
	return c
}

// Seed 回傳 Engine 使用的種子（重現用）。
func (e *Engine) Seed() int64 {
	return e.seed
}

// Catalog 回傳目錄（不可變，可直接共用）。
func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// RevealConfig 回傳轉盤設定。
func (e *Engine) RevealConfig() reveal.Config {
	return e.spin.Config()
}

// ---------------------------------------------------------------------------
// Filter View
// ---------------------------------------------------------------------------

// Filter 回傳目前篩選條件的複本。
func (e *Engine) Filter() catalog.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter.Clone()
}

// Providers 回傳所有供應商、各自的項目數與是否勾選。
func (e *Engine) Providers() []ProviderInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := e.cat.Providers()
	out := make([]ProviderInfo, 0, len(names))
	for _, p := range names {
		out = append(out, ProviderInfo{Name: p, Count: e.cat.ProviderCount(p), Selected: e.filter.Has(p)})
	}
	return out
}

// SetFilter 整個取代篩選條件；不存在的供應商會被忽略。
func (e *Engine) SetFilter(ctx context.Context, f catalog.Filter) catalog.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = catalog.Filter{Providers: e.knownProviders(f.Providers), Search: f.Search}
	e.refreshLocked()
	e.persistLocked(ctx)
	return e.filter.Clone()
}

// ToggleProvider 切換單一供應商的勾選狀態。
func (e *Engine) ToggleProvider(ctx context.Context, provider string) catalog.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cat.ProviderCount(provider) == 0 {
		return e.filter.Clone()
	}
	e.filter = e.filter.Toggle(provider)
	e.refreshLocked()
	e.persistLocked(ctx)
	return e.filter.Clone()
}

// SelectAll 勾選全部供應商（保留搜尋字串）。
func (e *Engine) SelectAll(ctx context.Context) catalog.Filter {
	return e.setProviders(ctx, e.cat.Providers())
}

// SelectNone 取消勾選全部供應商（active subset 變為空）。
func (e *Engine) SelectNone(ctx context.Context) catalog.Filter {
	return e.setProviders(ctx, []string{})
}

func (e *Engine) setProviders(ctx context.Context, ps []string) catalog.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = catalog.Filter{Providers: ps, Search: e.filter.Search}
	e.refreshLocked()
	e.persistLocked(ctx)
	return e.filter.Clone()
}

// SetSearch 設定搜尋字串；空字串即清除搜尋。
func (e *Engine) SetSearch(ctx context.Context, term string) catalog.Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter.Search = term
	e.refreshLocked()
	e.persistLocked(ctx)
	return e.filter.Clone()
}

// Subset 回傳目前的 active subset（目錄順序）。
func (e *Engine) Subset() []catalog.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat.Subset(e.filter)
}

// Display 回傳 active subset 的顯示順序（洗牌後），只在條件變動時重算。
func (e *Engine) Display() []catalog.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]catalog.Item, len(e.display))
	copy(out, e.display)
	return out
}

// Suggest 搜尋沒有結果時的候選項目。
func (e *Engine) Suggest(limit int) []catalog.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat.Suggest(e.filter, limit)
}

func (e *Engine) knownProviders(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if e.cat.ProviderCount(p) > 0 && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) refreshLocked() {
	e.display = catalog.Shuffled(e.core, e.cat.Subset(e.filter))
}

// ---------------------------------------------------------------------------
// Reveal
// ---------------------------------------------------------------------------

// Spin 從目前的 active subset 開始一次揭曉。轉盤非 Idle 或 subset 為空時回傳 false。
func (e *Engine) Spin() bool {
	e.mu.Lock()
	subset := e.cat.Subset(e.filter)
	e.mu.Unlock()
	return e.spin.Start(subset)
}

// CancelSpin 取消進行中的揭曉。
func (e *Engine) CancelSpin() bool {
	return e.spin.Cancel()
}

// SpinFrame 回傳轉盤目前的畫面。
func (e *Engine) SpinFrame() reveal.Frame[catalog.Item] {
	return e.spin.Snapshot()
}

// SpinResult 回傳最近一次完成的揭曉結果。
func (e *Engine) SpinResult() (catalog.Item, bool) {
	return e.spin.Result()
}

// WaitSpin 阻塞直到目前的揭曉結束。
func (e *Engine) WaitSpin(ctx context.Context) (catalog.Item, error) {
	return e.spin.Wait(ctx)
}

// ---------------------------------------------------------------------------
// Ledger / History
// ---------------------------------------------------------------------------

// Generate 從目前的 active subset 抽出 k 個項目建立新的 hunt。
func (e *Engine) Generate(ctx context.Context, k int, name string) (HuntView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.ledger.Generate(e.cat.Subset(e.filter), k, name); err != nil {
		return HuntView{}, err
	}
	e.persistLocked(ctx)
	return e.viewLocked(), nil
}

// Hunt 回傳目前 hunt 的快照。
func (e *Engine) Hunt() HuntView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

// Record 讀取某個位置的紀錄。
func (e *Engine) Record(pos int) hunt.StakeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Record(pos)
}

// SetRecord 寫入某個位置的下注或派彩（原始字串）。
func (e *Engine) SetRecord(ctx context.Context, pos int, f hunt.Field, value string) (hunt.Totals, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ledger.SetRecord(pos, f, value); err != nil {
		return hunt.Totals{}, err
	}
	e.persistLocked(ctx)
	return e.ledger.Totals(), nil
}

// Rename 設定目前 hunt 的名稱。
func (e *Engine) Rename(ctx context.Context, name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Rename(name)
	e.persistLocked(ctx)
}

// Save 把目前 hunt 存入歷史；name 空白時使用 hunt 目前的名稱，再空白則用預設名稱。
func (e *Engine) Save(ctx context.Context, name string) (hunt.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if strings.TrimSpace(name) == "" {
		name = e.ledger.Name()
	}
	ent, err := e.ledger.Save(name)
	if err != nil {
		return hunt.Entry{}, err
	}
	e.persistLocked(ctx)
	return ent, nil
}

// Clear 清空目前 hunt（不影響歷史）。
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger.Clear()
	e.persistLocked(ctx)
}

// History 回傳歷史紀錄（最新的在前）。
func (e *Engine) History() []hunt.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.History().List()
}

// HistoryEntry 依 id 取得歷史紀錄。
func (e *Engine) HistoryEntry(id string) (hunt.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ent, ok := e.ledger.History().Get(id)
	if !ok {
		return hunt.Entry{}, errs.WrapWithExtra(hunt.ErrNotFound, "history entry", id)
	}
	return ent, nil
}

// LoadHistory 以歷史紀錄取代目前 hunt（複本）。
func (e *Engine) LoadHistory(ctx context.Context, id string) (HuntView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ledger.Load(id); err != nil {
		return HuntView{}, err
	}
	e.persistLocked(ctx)
	return e.viewLocked(), nil
}

// DeleteHistory 刪除歷史紀錄；不存在時回傳 false（不是錯誤）。
func (e *Engine) DeleteHistory(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ledger.History().Delete(id) {
		return false
	}
	e.persistLocked(ctx)
	return true
}

// ExportHunt 目前 hunt 的純文字匯出。
func (e *Engine) ExportHunt(currency string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return hunt.ExportText(e.ledger.Session(), currency)
}

// ExportHistory 歷史紀錄的純文字匯出。
func (e *Engine) ExportHistory(id, currency string) (string, error) {
	ent, err := e.HistoryEntry(id)
	if err != nil {
		return "", err
	}
	return hunt.ExportEntry(ent, currency), nil
}

func (e *Engine) viewLocked() HuntView {
	return HuntView{
		Session: e.ledger.Session(),
		Active:  e.ledger.Active(),
		Totals:  e.ledger.Totals(),
	}
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

const persistTimeout = 5 * time.Second

func (e *Engine) snapshotLocked() persist.State {
	s := e.ledger.Session()
	return persist.State{
		Providers: e.filter.Clone().Providers,
		Search:    e.filter.Search,
		Items:     s.Items,
		Records:   s.Records,
		Name:      s.Name,
		Active:    e.ledger.Active(),
		History:   e.ledger.History().List(),
	}
}

// persistLocked 整份寫回；失敗只記錄 log。呼叫端的 ctx 取消不會中斷寫入。
func (e *Engine) persistLocked(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := e.state.Save(ctx, e.snapshotLocked()); err != nil {
		e.log.Error("persist state failed", slog.Any("err", err))
	}
}

func (e *Engine) hydrate(ctx context.Context) {
	st, ok := e.state.Load(ctx)
	if !ok {
		return
	}
	ps := e.knownProviders(st.Providers)
	if len(ps) == 0 {
		ps = e.cat.Providers()
	}
	e.filter = catalog.Filter{Providers: ps, Search: st.Search}
	e.ledger.History().Replace(st.History)
	e.ledger.Restore(&hunt.Session{Items: st.Items, Records: st.Records, Name: st.Name}, st.Active && len(st.Items) > 0)
	e.log.Info("state restored",
		slog.Int("providers", len(ps)),
		slog.Int("items", len(st.Items)),
		slog.Int("history", len(st.History)),
	)
}
