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

// DefaultName 存檔時名稱空白所使用的名稱。
const DefaultName = "Untitled Hunt"

// Session 是目前進行中的 bonus hunt。
type Session struct {
	Items     []catalog.Item `json:"items"`
	Records   Records        `json:"records"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
}

// Len 回傳項目數。
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Clone 深拷貝；nil 回傳空 Session。
func (s *Session) Clone() *Session {
	if s == nil {
		return &Session{Records: Records{}}
	}
	return &Session{
		Items:     slices.Clone(s.Items),
		Records:   s.Records.Clone(),
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}

// Totals 依目前紀錄加總。
func (s *Session) Totals() Totals {
	if s == nil {
		return Totals{}
	}
	return s.Records.Sum()
}

func labelOf(name string) string {
	if n := trimName(name); n != "" {
		return n
	}
	return DefaultName
}
