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
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ImagePrefix 是圖片參照的路徑前綴；圖片本身不在本服務的保證範圍內。
const ImagePrefix = "/images/"

// Item 是目錄中的一個可選項目（一台 slot 遊戲）。
//
// Item 是不可變的值型別：複製 Item 即得到獨立快照，歷史紀錄可以安全持有。
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Provider string `json:"provider" yaml:"provider"`
	Image    string `json:"image" yaml:"image"`
}

var (
	reImageExt  = regexp.MustCompile(`\.(jpg|png|gif|webp)$`)
	reNonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	reDashRun   = regexp.MustCompile(`-+`)
	reSpaceRun  = regexp.MustCompile(`\s+`)
)

// ProviderSlug 把供應商標籤轉成檔名用的 slug，例如 "Play'n GO" -> "play-n-go"。
func ProviderSlug(provider string) string {
	s := reNonAlnum.ReplaceAllString(strings.ToLower(provider), "-")
	s = strings.Trim(s, "-")
	return reDashRun.ReplaceAllString(s, "-")
}

// DisplayName 由項目 ID（通常是圖片檔名）推導顯示名稱。
//
// 規則：
//  1. 去掉圖片副檔名。
//  2. 去掉開頭的供應商 slug（大小寫不敏感，slug 內的 '-' 可對應 '-' '_' 或空白）。
//  3. '_' 轉空白，依 '-' 切字，每個字首字母大寫（其餘不動），再壓縮多餘空白。
//
// 這是盡力而為的字串清理，對任何輸入都不會失敗；結果可能是空字串。
func DisplayName(id, provider string) string {
	return newNamer().name(id, provider)
}

// namer 快取每個供應商 slug 編譯好的前綴 regexp；只在單次載入內使用。
type namer struct {
	prefix map[string]*regexp.Regexp
}

func newNamer() *namer {
	return &namer{prefix: map[string]*regexp.Regexp{}}
}

func (n *namer) name(id, provider string) string {
	name := reImageExt.ReplaceAllString(id, "")
	if re := n.providerPrefix(provider); re != nil {
		name = re.ReplaceAllString(name, "")
	}
	name = strings.ReplaceAll(name, "_", " ")
	words := strings.Split(name, "-")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	name = strings.TrimSpace(strings.Join(words, " "))
	return reSpaceRun.ReplaceAllString(name, " ")
}

func (n *namer) providerPrefix(provider string) *regexp.Regexp {
	slug := ProviderSlug(provider)
	if slug == "" {
		return nil
	}
	if re, ok := n.prefix[slug]; ok {
		return re
	}
	pat := `(?i)^` + strings.ReplaceAll(regexp.QuoteMeta(slug), "-", `[-_\s]*`) + `[-_\s]*`
	re := regexp.MustCompile(pat)
	n.prefix[slug] = re
	return re
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

// NewItem 由 (id, provider) 建立 Item；名稱推導失敗（空字串）時 ok 為 false。
func NewItem(id, provider string) (Item, bool) {
	return newNamer().item(id, provider)
}

func (n *namer) item(id, provider string) (Item, bool) {
	provider = strings.TrimSpace(provider)
	it := Item{
		ID:       id,
		Name:     n.name(id, provider),
		Provider: provider,
		Image:    ImagePrefix + id,
	}
	return it, it.Name != "" && it.Provider != ""
}
