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

package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/kvstore"
)

// Adapter 在 State 與 kvstore 之間轉換。
type Adapter struct {
	store kvstore.Store
	key   string
	log   *slog.Logger
}

// NewAdapter 建立 Adapter；log 為 nil 時使用 slog.Default()。
func NewAdapter(store kvstore.Store, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{store: store, key: StateKey, log: log}
}

// Save 將整份狀態覆寫到固定 key。
func (a *Adapter) Save(ctx context.Context, st State) error {
	raw, err := Encode(st)
	if err != nil {
		return err
	}
	if err := a.store.Put(ctx, a.key, raw); err != nil {
		return errs.Wrap(err, "persist: save state")
	}
	return nil
}

// Load 讀取並還原狀態。key 不存在、讀取失敗或整份文件無法解析時回傳 (State{}, false)。
// 讀取失敗（不含 key 不存在）會記錄 warn log。
func (a *Adapter) Load(ctx context.Context) (State, bool) {
	raw, err := a.store.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			a.log.Warn("persist: read state failed", slog.Any("err", err))
		}
		return State{}, false
	}
	st, ok := Decode(raw)
	if !ok {
		a.log.Warn("persist: state document unreadable, starting fresh", slog.Int("bytes", len(raw)))
	}
	return st, ok
}

// Encode 將狀態序列化為 JSON。
func Encode(st State) ([]byte, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, errs.Wrap(err, "persist: encode state")
	}
	return raw, nil
}

// Decode 逐欄位還原狀態。只有整份文件不是 JSON 物件時回傳 false。
func Decode(raw []byte) (State, bool) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return State{}, false
	}
	var st State
	decodeField(doc, "providers", &st.Providers)
	decodeField(doc, "search", &st.Search)
	decodeField(doc, "items", &st.Items)
	decodeField(doc, "name", &st.Name)
	decodeField(doc, "active", &st.Active)
	if v, ok := doc["records"]; ok {
		st.Records = decodeRecords(v)
	}
	if v, ok := doc["history"]; ok {
		st.History = decodeHistory(v)
	}
	return st, true
}

// decodeField 解析單一欄位；失敗時 dst 保持零值。
func decodeField[T any](doc map[string]json.RawMessage, name string, dst *T) {
	v, ok := doc[name]
	if !ok || isNull(v) {
		return
	}
	var tmp T
	if err := json.Unmarshal(v, &tmp); err != nil {
		return
	}
	*dst = tmp
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// decodeRecords 逐筆還原紀錄；key 不是非負整數或數值無法辨識的紀錄會被丟棄。
// 整個欄位不是物件時回傳 nil。
func decodeRecords(v json.RawMessage) hunt.Records {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil || m == nil {
		return nil
	}
	out := make(hunt.Records, len(m))
	for k, rv := range m {
		pos, err := strconv.Atoi(k)
		if err != nil || pos < 0 {
			continue
		}
		rec, ok := decodeRecord(rv)
		if !ok {
			continue
		}
		out[pos] = rec
	}
	return out
}

func decodeRecord(v json.RawMessage) (hunt.StakeRecord, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(v, &m); err != nil || m == nil {
		return hunt.StakeRecord{}, false
	}
	var rec hunt.StakeRecord
	for _, f := range []struct {
		names []string
		dst   *string
	}{
		{[]string{"stake", "betSize"}, &rec.Stake},
		{[]string{"payout"}, &rec.Payout},
	} {
		*f.dst = "0.00"
		for _, name := range f.names {
			raw, ok := m[name]
			if !ok {
				continue
			}
			s, ok := amountText(raw)
			if !ok {
				return hunt.StakeRecord{}, false
			}
			*f.dst = s
			break
		}
	}
	return rec, true
}

// amountText 接受 JSON 字串或數字；數字保留原始字面值（不經 float 轉換）。
func amountText(v json.RawMessage) (string, bool) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", false
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false
		}
		return s, true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

// entryWire 歷史紀錄的寬鬆格式：id 可以是字串或數字，合計可以缺漏。
type entryWire struct {
	ID          json.RawMessage `json:"id"`
	Name        string          `json:"name"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []catalog.Item  `json:"items"`
	Records     json.RawMessage `json:"records"`
	TotalStake  json.RawMessage `json:"total_stake"`
	TotalPayout json.RawMessage `json:"total_payout"`
}

// decodeHistory 逐筆還原；無法解析或沒有 id 的紀錄會被丟棄。整個欄位不是陣列時回傳 nil。
func decodeHistory(v json.RawMessage) []hunt.Entry {
	var raws []json.RawMessage
	if err := json.Unmarshal(v, &raws); err != nil || raws == nil {
		return nil
	}
	out := make([]hunt.Entry, 0, len(raws))
	for _, r := range raws {
		if e, ok := decodeEntry(r); ok {
			out = append(out, e)
		}
	}
	return out
}

func decodeEntry(v json.RawMessage) (hunt.Entry, bool) {
	var w entryWire
	if err := json.Unmarshal(v, &w); err != nil {
		return hunt.Entry{}, false
	}
	id, ok := amountText(w.ID)
	if !ok || strings.TrimSpace(id) == "" {
		return hunt.Entry{}, false
	}
	e := hunt.Entry{
		ID:        id,
		Name:      w.Name,
		CreatedAt: w.CreatedAt,
		Items:     w.Items,
		Records:   hunt.Records{},
	}
	if len(w.Records) > 0 && !isNull(w.Records) {
		if recs := decodeRecords(w.Records); recs != nil {
			e.Records = recs
		}
	}
	sum := e.Records.Sum()
	e.TotalStake = totalOr(w.TotalStake, sum.Stake)
	e.TotalPayout = totalOr(w.TotalPayout, sum.Payout)
	return e, true
}

func totalOr(v json.RawMessage, fallback float64) float64 {
	s, ok := amountText(v)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f
}
