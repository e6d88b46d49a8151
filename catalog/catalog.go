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

// Package catalog 提供 slot 目錄（Catalog Provider）與篩選視圖（Filter View）。
//
// 目錄的輸入是一份 `{itemId: providerLabel}` 對照表（JSON 或 YAML），
// 載入一次後即不可變，由呼叫端以參照傳入引擎；本包不持有任何全域可變狀態。
//
// 目錄順序即對照表在檔案中的書寫順序（多個檔案時依檔名排序後串接），
// 因此篩選出的 active subset 也維持這個順序。
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/huntlab/errs"
	"gopkg.in/yaml.v3"
)

var (
	ErrDupID    = errs.NewFatal("duplicate catalog item id")
	ErrNoSource = errs.NewFatal("no catalog source provided")
)

// Entry 是對照表中的一筆原始資料。
type Entry struct {
	ID       string
	Provider string
}

// Catalog 是載入完成、不可變的目錄。
type Catalog struct {
	items     []Item
	byID      map[string]int
	providers []string       // 排序後不重複
	counts    map[string]int // provider -> 項目數
	skipped   int            // 名稱或供應商推導為空而略過的筆數
}

// New 掃描一或多個 fs.FS 根目錄下的 .json / .yaml / .yml 對照表並建立 Catalog。
//
// 行為：
//   - 只看根目錄（flat），忽略子目錄與以 "." 開頭的檔案。
//   - 每個來源內依檔名排序後處理，確保順序可重現。
//   - 任何檔案讀取/解析失敗、或 ID 重複，直接回傳 error（fail-fast）。
func New(srcs ...fs.FS) (*Catalog, error) {
	if len(srcs) == 0 {
		return nil, ErrNoSource
	}
	entries := make([]Entry, 0, 256)
	for i, src := range srcs {
		if src == nil {
			return nil, errs.Fatalf("catalog: fs[%d] is nil", i)
		}
		des, err := fs.ReadDir(src, ".")
		if err != nil {
			return nil, errs.Wrap(err, "catalog: read dir failed")
		}
		names := make([]string, 0, len(des))
		for _, d := range des {
			if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
				continue
			}
			switch strings.ToLower(filepath.Ext(d.Name())) {
			case ".json", ".yaml", ".yml":
				names = append(names, d.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			raw, err := fs.ReadFile(src, name)
			if err != nil {
				return nil, errs.Wrap(err, fmt.Sprintf("catalog: read %s failed", name))
			}
			ents, err := parseMapping(name, raw)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ents...)
		}
	}
	return FromEntries(entries...)
}

// FromEntries 以記憶體中的對照資料建立 Catalog，順序即傳入順序。
func FromEntries(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		items:  make([]Item, 0, len(entries)),
		byID:   make(map[string]int, len(entries)),
		counts: map[string]int{},
	}
	nm := newNamer()
	for _, e := range entries {
		if _, ok := c.byID[e.ID]; ok {
			return nil, errs.WrapWithExtra(ErrDupID, "catalog: build failed", e.ID)
		}
		it, ok := nm.item(e.ID, e.Provider)
		if !ok {
			c.skipped++
			continue
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
		c.counts[it.Provider]++
	}
	c.providers = make([]string, 0, len(c.counts))
	for p := range c.counts {
		c.providers = append(c.providers, p)
	}
	sort.Strings(c.providers)
	return c, nil
}

// parseMapping 依副檔名解析對照表，保留鍵的書寫順序。
func parseMapping(name string, raw []byte) ([]Entry, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return parseJSONMapping(name, raw)
	case ".yaml", ".yml":
		return parseYAMLMapping(name, raw)
	default:
		return nil, errs.Fatalf("catalog: unsupported format: %q", name)
	}
}

// encoding/json 的 map 會打亂順序，這裡以 token 串流逐鍵讀取。
func parseJSONMapping(name string, raw []byte) ([]Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, errs.Wrap(err, fmt.Sprintf("catalog: parse %s failed", name))
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errs.Fatalf("catalog: %s must be a JSON object", name)
	}
	out := make([]Entry, 0, 256)
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, errs.Wrap(err, fmt.Sprintf("catalog: parse %s failed", name))
		}
		key, _ := kt.(string)
		var provider string
		if err := dec.Decode(&provider); err != nil {
			return nil, errs.WrapWithExtra(err, fmt.Sprintf("catalog: parse %s failed", name), key)
		}
		out = append(out, Entry{ID: key, Provider: provider})
	}
	return out, nil
}

func parseYAMLMapping(name string, raw []byte) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Wrap(err, fmt.Sprintf("catalog: parse %s failed", name))
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, errs.Fatalf("catalog: %s must be a YAML mapping", name)
	}
	out := make([]Entry, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return nil, errs.Fatalf("catalog: %s: provider of %q must be a string", name, k.Value)
		}
		out = append(out, Entry{ID: k.Value, Provider: v.Value})
	}
	return out, nil
}

// Items 回傳整份目錄（目錄順序）的複本。
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Skipped 回傳載入時因名稱或供應商為空而略過的筆數。
func (c *Catalog) Skipped() int {
	return c.skipped
}

func (c *Catalog) ByID(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Providers 回傳排序後的供應商清單（複本）。
func (c *Catalog) Providers() []string {
	return append([]string(nil), c.providers...)
}

// ProviderCount 回傳某供應商在目錄中的項目數。
func (c *Catalog) ProviderCount(provider string) int {
	return c.counts[provider]
}
