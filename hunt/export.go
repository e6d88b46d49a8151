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
	"fmt"
	"strings"
)

// DefaultCurrency 匯出文字預設的貨幣符號。
const DefaultCurrency = "€"

// ExportText 將 Session 轉成可複製的純文字，每個項目一行：
//
//	1. Gates Of Olympus (Pragmatic Play) - Bet: €1.00 | Payout: €0.00
//
// 金額使用原始字串，不做格式化；currency 為空時使用 DefaultCurrency。
func ExportText(s *Session, currency string) string {
	if s == nil || len(s.Items) == 0 {
		return ""
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	var b strings.Builder
	for i, it := range s.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		rec := s.Records.Get(i)
		fmt.Fprintf(&b, "%d. %s (%s) - Bet: %s%s | Payout: %s%s",
			i+1, it.Name, it.Provider, currency, rec.Stake, currency, rec.Payout)
	}
	return b.String()
}

// ExportEntry 匯出一筆歷史紀錄。
func ExportEntry(e Entry, currency string) string {
	return ExportText(e.Session(), currency)
}
