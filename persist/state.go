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

// Package persist 將引擎的耐久狀態整份序列化到 kvstore，並在啟動時還原。
//
// Adapter 只負責鏡像：Save 時原樣寫出，Load 時逐欄位還原；
// 某個欄位損毀只會讓該欄位回到預設值，其他欄位照常還原。
package persist

import (
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/hunt"
)

// StateKey 狀態在 kvstore 中的固定 key；格式變更時遞增版本。
const StateKey = "huntlab-state-v1"

// State 是需要跨行程保存的狀態。
type State struct {
	Providers []string       `json:"providers"`
	Search    string         `json:"search"`
	Items     []catalog.Item `json:"items"`
	Records   hunt.Records   `json:"records"`
	Name      string         `json:"name"`
	Active    bool           `json:"active"`
	History   []hunt.Entry   `json:"history"`
}
