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

package catalog

import (
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/zintix-labs/huntlab/sdk/core"
)

// Filter 描述目前的篩選條件：勾選的供應商集合 + 名稱搜尋字串。
//
// Providers 為空代表一個都沒勾選，結果為空集合；要「全選」請用 Catalog.AllProviders()。
type Filter struct {
	Providers []string `json:"providers"`
	Search    string   `json:"search"`
}

// AllProviders 回傳勾選全部供應商、無搜尋字串的 Filter。
func (c *Catalog) AllProviders() Filter {
	return Filter{Providers: c.Providers()}
}

// Has 回傳 provider 是否被勾選。
func (f Filter) Has(provider string) bool {
	return slices.Contains(f.Providers, provider)
}

// Toggle 回傳切換 provider 勾選狀態後的新 Filter（不修改原值），Providers 維持排序。
func (f Filter) Toggle(provider string) Filter {
	out := Filter{Search: f.Search}
	if f.Has(provider) {
		out.Providers = make([]string, 0, len(f.Providers))
		for _, p := range f.Providers {
			if p != provider {
				out.Providers = append(out.Providers, p)
			}
		}
		return out
	}
	out.Providers = append(slices.Clone(f.Providers), provider)
	sort.Strings(out.Providers)
	return out
}

// Clone 深拷貝。
func (f Filter) Clone() Filter {
	return Filter{Providers: slices.Clone(f.Providers), Search: f.Search}
}

// Subset 依 Filter 計算 active subset：供應商在集合內，且名稱包含搜尋字串（大小寫不敏感）。
//
// 回傳的是新切片，順序為目錄順序；每次條件變動都應重新計算，不做快取。
func (c *Catalog) Subset(f Filter) []Item {
	set := make(map[string]struct{}, len(f.Providers))
	for _, p := range f.Providers {
		set[p] = struct{}{}
	}
	term := strings.ToLower(f.Search)
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if _, ok := set[it.Provider]; !ok {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(it.Name), term) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Shuffled 回傳 items 的洗牌複本，僅供顯示用，不影響抽樣語意。
func Shuffled(c *core.Core, items []Item) []Item {
	out := slices.Clone(items)
	c.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Suggest 在搜尋沒有結果時提供「你是不是要找」的候選名稱。
//
// 以 Levenshtein 距離比對（大小寫不敏感），距離上限為 max(2, len(term)/3)；
// 結果依距離、再依目錄順序排列，最多 limit 筆。只考慮 Filter 勾選的供應商。
func (c *Catalog) Suggest(f Filter, limit int) []Item {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" || limit <= 0 {
		return nil
	}
	maxDist := max(2, len([]rune(term))/3)
	type cand struct {
		it   Item
		dist int
		ord  int
	}
	cands := make([]cand, 0, 16)
	for i, it := range c.Subset(Filter{Providers: f.Providers}) {
		d := levenshtein.ComputeDistance(term, strings.ToLower(it.Name))
		if d <= maxDist {
			cands = append(cands, cand{it: it, dist: d, ord: i})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].ord < cands[j].ord
	})
	out := make([]Item, 0, min(limit, len(cands)))
	for _, cd := range cands[:min(limit, len(cands))] {
		out = append(out, cd.it)
	}
	return out
}
