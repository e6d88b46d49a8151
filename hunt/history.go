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
	"slices"
	"time"

	"github.com/zintix-labs/huntlab/catalog"
)

// HistoryCap 歷史紀錄上限；只在 Append 時截斷。
const HistoryCap = 50

// Entry 是一筆歷史紀錄（存檔或 Generate 當下的快照），加入後不可修改。
type Entry struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CreatedAt   time.Time      `json:"created_at"`
	Items       []catalog.Item `json:"items"`
	Records     Records        `json:"records"`
	TotalStake  float64        `json:"total_stake"`
	TotalPayout float64        `json:"total_payout"`
}

// Label 顯示用名稱；Generate 自動記錄的項目沒有名稱，以 DefaultName 顯示。
func (e Entry) Label() string {
	return labelOf(e.Name)
}

// Net 派彩減下注。
func (e Entry) Net() float64 {
	return e.TotalPayout - e.TotalStake
}

// Session 以此紀錄為基礎建立新的 Session（深拷貝）。
func (e Entry) Session() *Session {
	return &Session{
		Items:     slices.Clone(e.Items),
		Records:   e.Records.Clone(),
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
	}
}

func (e Entry) clone() Entry {
	e.Items = slices.Clone(e.Items)
	e.Records = e.Records.Clone()
	return e
}

// History 保存歷史紀錄，最新的在前。History 不是併發安全的，由上層序列化呼叫。
type History struct {
	entries []Entry
}

func NewHistory() *History {
	return &History{}
}

// Append 將 entry 放到最前面，超過 HistoryCap 時丟棄最舊的。
func (h *History) Append(e Entry) {
	h.entries = slices.Insert(h.entries, 0, e.clone())
	if len(h.entries) > HistoryCap {
		clear(h.entries[HistoryCap:])
		h.entries = h.entries[:HistoryCap]
	}
}

// Replace 以外部資料（例如還原的持久化狀態）整批取代紀錄，順序保持不變。
// 讀取端不截斷，因此超過上限的資料會原樣保留，直到下一次 Append。
func (h *History) Replace(entries []Entry) {
	h.entries = make([]Entry, 0, len(entries))
	for _, e := range entries {
		h.entries = append(h.entries, e.clone())
	}
}

// Get 依 id 取得紀錄複本。
func (h *History) Get(id string) (Entry, bool) {
	i := h.index(id)
	if i < 0 {
		return Entry{}, false
	}
	return h.entries[i].clone(), true
}

// Load 依 id 建立新的 Session（複本，不影響已保存的紀錄）。
func (h *History) Load(id string) (*Session, bool) {
	i := h.index(id)
	if i < 0 {
		return nil, false
	}
	return h.entries[i].Session(), true
}

// Delete 刪除紀錄；id 不存在時不做事。回傳是否有刪除。
func (h *History) Delete(id string) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	h.entries = slices.Delete(h.entries, i, i+1)
	return true
}

// List 回傳所有紀錄的複本，最新的在前。
func (h *History) List() []Entry {
	out := make([]Entry, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.clone()
	}
	return out
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) index(id string) int {
	return slices.IndexFunc(h.entries, func(e Entry) bool { return e.ID == id })
}
