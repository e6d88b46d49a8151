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
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/zintix-labs/huntlab/errs"
)

// Field 是 StakeRecord 可編輯的欄位。
type Field string

const (
	FieldStake  Field = "stake"
	FieldPayout Field = "payout"
)

// ParseField 解析欄位名稱（不分大小寫；"bet" 視為 stake）。
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stake", "bet":
		return FieldStake, nil
	case "payout":
		return FieldPayout, nil
	default:
		return "", errs.WrapWithExtra(ErrField, "hunt: parse field", s)
	}
}

const (
	DefaultStake  = "1.00" // Generate 時每個位置的預設下注
	DefaultPayout = "0.00"
	missingAmount = "0.00" // 讀取不存在的位置時的預設值
)

// StakeRecord 是單一位置的下注/派彩。數值以使用者輸入的原始字串保存，不做驗證。
type StakeRecord struct {
	Stake  string `json:"stake"`
	Payout string `json:"payout"`
}

func defaultRecord() StakeRecord {
	return StakeRecord{Stake: DefaultStake, Payout: DefaultPayout}
}

func missingRecord() StakeRecord {
	return StakeRecord{Stake: missingAmount, Payout: missingAmount}
}

// Value 依欄位取值。
func (r StakeRecord) Value(f Field) string {
	if f == FieldPayout {
		return r.Payout
	}
	return r.Stake
}

func (r StakeRecord) with(f Field, v string) StakeRecord {
	switch f {
	case FieldStake:
		r.Stake = v
	case FieldPayout:
		r.Payout = v
	}
	return r
}

// Records 是位置 → StakeRecord 的對應。讀取不存在的位置一律回傳 {"0.00","0.00"}。
type Records map[int]StakeRecord

// Get 讀取 pos 的紀錄，不存在時回傳預設值。
func (r Records) Get(pos int) StakeRecord {
	if rec, ok := r[pos]; ok {
		return rec
	}
	return missingRecord()
}

// Clone 深拷貝（StakeRecord 是值型別）。
func (r Records) Clone() Records {
	if r == nil {
		return Records{}
	}
	return maps.Clone(r)
}

// Totals 合計。
type Totals struct {
	Stake  float64 `json:"stake"`
	Payout float64 `json:"payout"`
	Net    float64 `json:"net"`
}

// Sum 加總所有紀錄；無法解析的數值以 0 計。
func (r Records) Sum() Totals {
	var t Totals
	for _, rec := range r {
		t.Stake += ParseAmount(rec.Stake)
		t.Payout += ParseAmount(rec.Payout)
	}
	t.Net = t.Payout - t.Stake
	return t
}

// reAmount 取出字串開頭的數字部分，例如 "5.50€" -> "5.50"
var reAmount = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseAmount 寬鬆解析金額字串，解析失敗回傳 0（不回報錯誤）。
//
//	"10.00" -> 10, " 5" -> 5, "5abc" -> 5, "abc" -> 0, "" -> 0
func ParseAmount(s string) float64 {
	m := reAmount.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
