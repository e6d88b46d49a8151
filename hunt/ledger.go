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

package hunt

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/sdk/core"
	"github.com/zintix-labs/huntlab/sdk/sampler"
)

var (
	ErrEmptySession = errs.NewWarn("hunt: session has no items")
	ErrPosition     = errs.NewWarn("hunt: position out of range")
	ErrField        = errs.NewWarn("hunt: unknown record field")
	ErrNotFound     = errs.NewWarn("hunt: history entry not found")
)

// Option 設定 Ledger。
type Option func(*Ledger)

// WithClock 替換時間來源（測試用）。
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDs 替換歷史紀錄 id 產生器。
func WithIDs(next func() string) Option {
	return func(l *Ledger) { l.newID = next }
}

// NewID 產生時間排序的 UUIDv7；產生失敗時退回 v4。
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Ledger 持有目前的 Session 及其紀錄，並在 Generate/Save 時寫入 History。
// Ledger 不是併發安全的，由上層序列化呼叫。
type Ledger struct {
	core   *core.Core
	hist   *History
	now    func() time.Time
	newID  func() string
	sess   *Session
	active bool
}

// NewLedger 建立 Ledger。hist 為 nil 時建立新的 History。
func NewLedger(c *core.Core, hist *History, opts ...Option) *Ledger {
	if hist == nil {
		hist = NewHistory()
	}
	l := &Ledger{
		core:  c,
		hist:  hist,
		now:   time.Now,
		newID: NewID,
		sess:  &Session{Records: Records{}},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) History() *History {
	return l.hist
}

// Active 是否有進行中的 hunt。
func (l *Ledger) Active() bool {
	return l.active
}

// Session 回傳目前 Session 的複本。
func (l *Ledger) Session() *Session {
	return l.sess.Clone()
}

// Name 回傳目前 Session 名稱（可能為空白）。
func (l *Ledger) Name() string {
	return l.sess.Name
}

// Generate 從 subset 抽出 k 個不重複項目建立新的 Session。
//
// k 會被夾在 [1, len(subset)]；每個位置的紀錄預設為 {"1.00","0.00"}。
// 建立後立即寫入一筆歷史紀錄（名稱照給定值，可以是空白），不需要另外 Save。
func (l *Ledger) Generate(subset []catalog.Item, k int, name string) (*Session, error) {
	if len(subset) == 0 {
		return nil, sampler.ErrEmptySubset
	}
	k = min(max(k, 1), len(subset))
	items, err := sampler.PickBatch(l.core, subset, k)
	if err != nil {
		return nil, err
	}
	recs := make(Records, len(items))
	for i := range items {
		recs[i] = defaultRecord()
	}
	l.sess = &Session{
		Items:     items,
		Records:   recs,
		Name:      name,
		CreatedAt: l.now(),
	}
	l.active = true
	l.hist.Append(l.entry(strings.TrimSpace(name)))
	return l.sess.Clone(), nil
}

// SetRecord 寫入 pos 位置的某個欄位，原樣保存字串。
func (l *Ledger) SetRecord(pos int, f Field, value string) error {
	if pos < 0 || pos >= l.sess.Len() {
		return errs.WrapWithExtra(ErrPosition, "hunt: set record", strconv.Itoa(pos))
	}
	if f != FieldStake && f != FieldPayout {
		return errs.WrapWithExtra(ErrField, "hunt: set record", string(f))
	}
	l.sess.Records[pos] = l.sess.Records.Get(pos).with(f, value)
	return nil
}

// Record 讀取 pos 位置的紀錄，不存在時回傳預設值。
func (l *Ledger) Record(pos int) StakeRecord {
	return l.sess.Records.Get(pos)
}

// Totals 目前 Session 的合計。
func (l *Ledger) Totals() Totals {
	return l.sess.Totals()
}

// Save 將目前 Session 的深拷貝寫入歷史；名稱空白時使用 DefaultName。
func (l *Ledger) Save(name string) (Entry, error) {
	if l.sess.Len() == 0 {
		return Entry{}, ErrEmptySession
	}
	e := l.entry(labelOf(name))
	l.hist.Append(e)
	return e.clone(), nil
}

// Clear 清空目前 Session，不影響歷史。
func (l *Ledger) Clear() {
	l.sess = &Session{Records: Records{}, Name: l.sess.Name}
	l.active = false
}

// Rename 設定目前 Session 的名稱。
func (l *Ledger) Rename(name string) {
	l.sess.Name = name
}

// Load 以歷史紀錄 id 取代目前 Session（複本）。
func (l *Ledger) Load(id string) error {
	s, ok := l.hist.Load(id)
	if !ok {
		return errs.WrapWithExtra(ErrNotFound, "hunt: load", id)
	}
	l.sess = s
	l.active = true
	return nil
}

// Restore 直接放入還原的 Session 與 active 旗標（啟動時由持久化狀態還原）。
func (l *Ledger) Restore(s *Session, active bool) {
	l.sess = s.Clone()
	l.active = active
}

func (l *Ledger) entry(name string) Entry {
	t := l.sess.Totals()
	return Entry{
		ID:          l.newID(),
		Name:        name,
		CreatedAt:   l.now(),
		Items:       l.sess.Items,
		Records:     l.sess.Records,
		TotalStake:  t.Stake,
		TotalPayout: t.Payout,
	}.clone()
}

func trimName(s string) string {
	return strings.TrimSpace(s)
}
