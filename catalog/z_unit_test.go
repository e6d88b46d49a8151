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
	"errors"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/huntlab/sdk/core"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		id, provider, want string
	}{
		{"gamomat-40-finest-xxl.png", "Gamomat", "40 Finest Xxl"},
		{"1x2gaming-hot-fruits.jpg", "1x2gaming", "Hot Fruits"},
		{"play-n-go-book-of-dead.webp", "Play'n GO", "Book Of Dead"},
		{"play_n_go_reactoonz.png", "Play'n GO", "Reactoonz"},
		{"PRAGMATIC-PLAY-gates_of_olympus.jpg", "Pragmatic Play", "Gates of olympus"},
		{"netent-starburst.gif", "", "Netent Starburst"},
		{"elk-studios--wild--toro.png", "ELK Studios", "Wild Toro"},
		{"", "Gamomat", ""},
		{"gamomat.png", "Gamomat", ""},
		{"no-ext-item", "Other", "No Ext Item"},
	}
	for _, c := range cases {
		if got := DisplayName(c.id, c.provider); got != c.want {
			t.Errorf("DisplayName(%q,%q) = %q, want %q", c.id, c.provider, got, c.want)
		}
	}
}

func TestProviderSlug(t *testing.T) {
	if got := ProviderSlug("  Play'n GO!! "); got != "play-n-go" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := ProviderSlug("???"); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}

func TestNewKeepsSourceOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml": {Data: []byte("netent-starburst.png: NetEnt\nnetent-dead-or-alive.png: NetEnt\n")},
		"a.json": {Data: []byte(`{"gamomat-zz-top.png":"Gamomat","gamomat-aa-bottom.png":"Gamomat","gamomat.png":"Gamomat"}`)},
		"readme.txt": {Data: []byte("ignored")},
		".hidden.json": {Data: []byte("not json")},
	}
	c, err := New(fsys)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []string{"gamomat-zz-top.png", "gamomat-aa-bottom.png", "netent-starburst.png", "netent-dead-or-alive.png"}
	items := c.Items()
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Fatalf("item %d: got %s want %s", i, items[i].ID, id)
		}
	}
	if c.Skipped() != 1 {
		t.Fatalf("expected 1 skipped item, got %d", c.Skipped())
	}
	if got := c.Providers(); len(got) != 2 || got[0] != "Gamomat" || got[1] != "NetEnt" {
		t.Fatalf("unexpected providers %v", got)
	}
	if c.ProviderCount("NetEnt") != 2 {
		t.Fatalf("expected 2 NetEnt items")
	}
	it, ok := c.ByID("netent-starburst.png")
	if !ok || it.Name != "Starburst" || it.Image != "/images/netent-starburst.png" {
		t.Fatalf("unexpected item %+v", it)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	bad := fstest.MapFS{"x.json": {Data: []byte(`[1,2]`)}}
	if _, err := New(bad); err == nil {
		t.Fatalf("expected parse error for non-object json")
	}
	dup := fstest.MapFS{
		"a.json": {Data: []byte(`{"x-a.png":"X"}`)},
		"b.yml":  {Data: []byte("x-a.png: X\n")},
	}
	if _, err := New(dup); !errors.Is(err, ErrDupID) {
		t.Fatalf("expected ErrDupID, got %v", err)
	}
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := FromEntries(
		Entry{"netent-starburst.png", "NetEnt"},
		Entry{"gamomat-book-of-ra.png", "Gamomat"},
		Entry{"netent-gonzos-quest.png", "NetEnt"},
		Entry{"hacksaw-wanted-dead.png", "Hacksaw"},
		Entry{"gamomat-starlight.png", "Gamomat"},
	)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	return c
}

func TestSubset(t *testing.T) {
	c := testCatalog(t)

	all := c.Subset(c.AllProviders())
	if len(all) != 5 {
		t.Fatalf("expected all 5 items, got %d", len(all))
	}

	got := c.Subset(Filter{Providers: []string{"NetEnt", "Gamomat"}, Search: "STAR"})
	if len(got) != 2 || got[0].ID != "netent-starburst.png" || got[1].ID != "gamomat-starlight.png" {
		t.Fatalf("unexpected subset %+v", got)
	}

	if got := c.Subset(Filter{}); len(got) != 0 {
		t.Fatalf("expected empty subset without providers, got %d", len(got))
	}
}

func TestToggle(t *testing.T) {
	f := Filter{Providers: []string{"A", "C"}, Search: "x"}
	g := f.Toggle("B")
	if len(g.Providers) != 3 || g.Providers[1] != "B" || g.Search != "x" {
		t.Fatalf("unexpected toggle result %+v", g)
	}
	if len(f.Providers) != 2 {
		t.Fatalf("toggle must not mutate receiver")
	}
	h := g.Toggle("A")
	if h.Has("A") || !h.Has("B") {
		t.Fatalf("unexpected toggle off result %+v", h)
	}
}

func TestShuffledIsPermutation(t *testing.T) {
	c := testCatalog(t)
	items := c.Items()
	sh := Shuffled(core.NewWithSeed(5), items)
	if len(sh) != len(items) {
		t.Fatalf("length mismatch")
	}
	seen := map[string]bool{}
	for _, it := range sh {
		seen[it.ID] = true
	}
	for _, it := range items {
		if !seen[it.ID] {
			t.Fatalf("missing %s after shuffle", it.ID)
		}
	}
	if items[0].ID != "netent-starburst.png" {
		t.Fatalf("shuffle must not mutate input")
	}
}

func TestSuggest(t *testing.T) {
	c := testCatalog(t)
	f := c.AllProviders()
	f.Search = "starbust"
	got := c.Suggest(f, 3)
	if len(got) == 0 || got[0].ID != "netent-starburst.png" {
		t.Fatalf("expected Starburst suggestion, got %+v", got)
	}
	if got := c.Suggest(Filter{Providers: f.Providers}, 3); got != nil {
		t.Fatalf("expected nil for empty search, got %+v", got)
	}
}
