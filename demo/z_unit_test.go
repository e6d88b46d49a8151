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

package demo

import "testing"

func TestCatalog(t *testing.T) {
	cat, err := Catalog()
	if err != nil {
		t.Fatalf("demo catalog: %v", err)
	}
	if cat.Len() != 40 || cat.Skipped() != 0 {
		t.Fatalf("unexpected size %d skipped %d", cat.Len(), cat.Skipped())
	}
	if len(cat.Providers()) != 9 {
		t.Fatalf("unexpected providers %v", cat.Providers())
	}
	// json 先於 yaml（檔名排序），各檔內保留書寫順序；"_" 分隔的字不會大寫
	items := cat.Items()
	if items[0].ID != "pragmatic-play-gates-of-olympus.webp" || items[0].Name != "Gates Of Olympus" {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[len(items)-1].Provider != "Big Time Gaming" {
		t.Fatalf("unexpected last item %+v", items[len(items)-1])
	}
	it, ok := cat.ByID("play_n_go_book_of_dead.png")
	if !ok || it.Name != "Book of dead" {
		t.Fatalf("unexpected item %+v", it)
	}
}
