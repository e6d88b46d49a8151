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

// Package dto 定義 HTTP 邊界層的請求與回應結構。
//
// 核心型別（hunt.Session 等）以「位置 → 紀錄」的 map 保存資料；
// 對外輸出時攤平成依位置排序的陣列，前端不需要自行對齊。
package dto

import (
	"time"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/reveal"
)

// Slot 是 hunt 中的一個位置。
type Slot struct {
	Position int          `json:"position"`
	Item     catalog.Item `json:"item"`
	Stake    string       `json:"stake"`
	Payout   string       `json:"payout"`
}

// Hunt 目前的 hunt。
type Hunt struct {
	Name      string      `json:"name"`
	Active    bool        `json:"active"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
	Slots     []Slot      `json:"slots"`
	Totals    hunt.Totals `json:"totals"`
}

// NewHunt 由引擎快照建立回應。
func NewHunt(v huntlab.HuntView) Hunt {
	if v.Session == nil {
		v.Session = &hunt.Session{}
	}
	out := Hunt{
		Name:   v.Session.Name,
		Active: v.Active,
		Slots:  slotsOf(v.Session.Items, v.Session.Records),
		Totals: v.Totals,
	}
	if !v.Session.CreatedAt.IsZero() {
		t := v.Session.CreatedAt
		out.CreatedAt = &t
	}
	return out
}

func slotsOf(items []catalog.Item, recs hunt.Records) []Slot {
	out := make([]Slot, len(items))
	for i, it := range items {
		r := recs.Get(i)
		out[i] = Slot{Position: i, Item: it, Stake: r.Stake, Payout: r.Payout}
	}
	return out
}

// HistorySummary 歷史列表中的一筆（不含項目明細）。
type HistorySummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
	Slots       int       `json:"slots"`
	TotalStake  float64   `json:"total_stake"`
	TotalPayout float64   `json:"total_payout"`
	Net         float64   `json:"net"`
}

func NewHistorySummary(e hunt.Entry) HistorySummary {
	return HistorySummary{
		ID:          e.ID,
		Name:        e.Name,
		Label:       e.Label(),
		CreatedAt:   e.CreatedAt,
		Slots:       len(e.Items),
		TotalStake:  e.TotalStake,
		TotalPayout: e.TotalPayout,
		Net:         e.Net(),
	}
}

func NewHistoryList(es []hunt.Entry) []HistorySummary {
	out := make([]HistorySummary, len(es))
	for i, e := range es {
		out[i] = NewHistorySummary(e)
	}
	return out
}

// HistoryDetail 單筆歷史紀錄的完整內容。
type HistoryDetail struct {
	HistorySummary
	Items []Slot `json:"items"`
}

func NewHistoryDetail(e hunt.Entry) HistoryDetail {
	return HistoryDetail{
		HistorySummary: NewHistorySummary(e),
		Items:          slotsOf(e.Items, e.Records),
	}
}

// Reveal 轉盤目前的狀態與最近一次結果。
type Reveal struct {
	State  reveal.State   `json:"state"`
	Tick   int            `json:"tick"`
	Ticks  int            `json:"ticks"`
	Window []catalog.Item `json:"window"`
	Result *catalog.Item  `json:"result,omitempty"`
}

func NewReveal(f reveal.Frame[catalog.Item], ticks int, last catalog.Item, ok bool) Reveal {
	out := Reveal{State: f.State, Tick: f.Tick, Ticks: ticks, Window: f.Window}
	if out.Window == nil {
		out.Window = []catalog.Item{}
	}
	if ok {
		out.Result = &last
	}
	return out
}

// CatalogPage 目錄（或 active subset）的一頁。
type CatalogPage struct {
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Items  []catalog.Item `json:"items"`
}

// Page 取 items[offset : offset+limit]；limit <= 0 代表到結尾。
func Page(items []catalog.Item, offset, limit int) CatalogPage {
	n := len(items)
	offset = min(max(offset, 0), n)
	end := n
	if limit > 0 {
		end = min(offset+limit, n)
	}
	return CatalogPage{Total: n, Offset: offset, Items: items[offset:end]}
}
