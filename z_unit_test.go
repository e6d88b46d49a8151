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

package huntlab

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/kvstore"
	"github.com/zintix-labs/huntlab/reveal"
	"github.com/zintix-labs/huntlab/sdk/sampler"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var ents []catalog.Entry
	for i := 0; i < 6; i++ {
		ents = append(ents, catalog.Entry{ID: fmt.Sprintf("alpha-game_%02d.png", i), Provider: "Alpha"})
	}
	for i := 0; i < 4; i++ {
		ents = append(ents, catalog.Entry{ID: fmt.Sprintf("beta-reel_%02d.webp", i), Provider: "Beta"})
	}
	cat, err := catalog.FromEntries(ents...)
	require.NoError(t, err)
	return cat
}

func newTestEngine(t *testing.T, store kvstore.Store, sched reveal.Scheduler) *Engine {
	t.Helper()
	eng, err := New(Config{
		Catalog:   testCatalog(t),
		Store:     store,
		Scheduler: sched,
		Seed:      99,
		Log:       quiet,
	})
	require.NoError(t, err)
	return eng
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestDefaultsSelectAllProviders(t *testing.T) {
	eng := newTestEngine(t, nil, nil)
	require.Equal(t, []string{"Alpha", "Beta"}, eng.Filter().Providers)
	require.Len(t, eng.Subset(), 10)
	require.Len(t, eng.Display(), 10)
	require.ElementsMatch(t, eng.Subset(), eng.Display())

	ps := eng.Providers()
	require.Equal(t, []ProviderInfo{{"Alpha", 6, true}, {"Beta", 4, true}}, ps)
	require.False(t, eng.Hunt().Active)
}

func TestFilterOperations(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, nil)

	f := eng.ToggleProvider(ctx, "Alpha")
	require.Equal(t, []string{"Beta"}, f.Providers)
	require.Len(t, eng.Subset(), 4)

	// 不存在的供應商不做事
	f = eng.ToggleProvider(ctx, "Gamma")
	require.Equal(t, []string{"Beta"}, f.Providers)

	eng.SelectAll(ctx)
	f = eng.SetSearch(ctx, "REEL 0")
	require.Equal(t, "REEL 0", f.Search)
	require.Len(t, eng.Subset(), 4)
	eng.SetSearch(ctx, "")

	eng.SelectNone(ctx)
	require.Empty(t, eng.Subset())
	require.False(t, eng.Spin())

	f = eng.SetFilter(ctx, catalog.Filter{Providers: []string{"Beta", "Nope", "Beta"}, Search: "xyz"})
	require.Equal(t, []string{"Beta"}, f.Providers)
	require.Empty(t, eng.Subset())
}

func TestGenerateFromSubset(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, nil)
	eng.ToggleProvider(ctx, "Alpha")

	v, err := eng.Generate(ctx, 10, "betas")
	require.NoError(t, err)
	require.True(t, v.Active)
	require.Len(t, v.Session.Items, 4)
	for _, it := range v.Session.Items {
		require.Equal(t, "Beta", it.Provider)
	}
	require.Equal(t, 4.0, v.Totals.Stake)
	require.Len(t, eng.History(), 1)

	eng.SelectNone(ctx)
	_, err = eng.Generate(ctx, 3, "")
	require.ErrorIs(t, err, sampler.ErrEmptySubset)
	require.True(t, errs.IsWarn(err))
}

func TestRecordsTotalsAndSave(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, nil)
	_, err := eng.Generate(ctx, 3, "")
	require.NoError(t, err)

	stakes := []string{"10.00", "abc", "5"}
	payouts := []string{"0", "20.00", "5.00"}
	var tot hunt.Totals
	for i := range stakes {
		_, err = eng.SetRecord(ctx, i, hunt.FieldStake, stakes[i])
		require.NoError(t, err)
		tot, err = eng.SetRecord(ctx, i, hunt.FieldPayout, payouts[i])
		require.NoError(t, err)
	}
	require.Equal(t, hunt.Totals{Stake: 15, Payout: 25, Net: 10}, tot)
	require.Equal(t, "abc", eng.Record(1).Stake)

	_, err = eng.SetRecord(ctx, 3, hunt.FieldStake, "1")
	require.ErrorIs(t, err, hunt.ErrPosition)

	// 名稱空白時使用 hunt 名稱，再空白則為預設名稱
	ent, err := eng.Save(ctx, "")
	require.NoError(t, err)
	require.Equal(t, hunt.DefaultName, ent.Name)

	eng.Rename(ctx, "Sunday")
	ent, err = eng.Save(ctx, " ")
	require.NoError(t, err)
	require.Equal(t, "Sunday", ent.Name)
	require.Equal(t, 15.0, ent.TotalStake)

	txt, err := eng.ExportHistory(ent.ID, "$")
	require.NoError(t, err)
	require.Contains(t, txt, "1. ")
	require.Contains(t, txt, "Bet: $10.00 | Payout: $0")
	require.Equal(t, txt, eng.ExportHunt("$"))

	_, err = eng.ExportHistory("missing", "")
	require.ErrorIs(t, err, hunt.ErrNotFound)
}

func TestClearLoadDelete(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, nil, nil)
	v, err := eng.Generate(ctx, 2, "keep")
	require.NoError(t, err)
	id := eng.History()[0].ID

	eng.Clear(ctx)
	require.False(t, eng.Hunt().Active)
	require.Equal(t, 0, eng.Hunt().Session.Len())
	_, err = eng.Save(ctx, "x")
	require.ErrorIs(t, err, hunt.ErrEmptySession)

	lv, err := eng.LoadHistory(ctx, id)
	require.NoError(t, err)
	require.True(t, lv.Active)
	require.Equal(t, v.Session.Items, lv.Session.Items)

	_, err = eng.LoadHistory(ctx, "nope")
	require.ErrorIs(t, err, hunt.ErrNotFound)

	require.True(t, eng.DeleteHistory(ctx, id))
	require.False(t, eng.DeleteHistory(ctx, id))
	require.Empty(t, eng.History())
	// 刪除歷史不影響已載入的 hunt
	require.True(t, eng.Hunt().Active)
}

func TestSpinSettlesInsideSubset(t *testing.T) {
	ctx := context.Background()
	sched := reveal.NewManualScheduler()
	eng := newTestEngine(t, nil, sched)
	eng.ToggleProvider(ctx, "Beta")

	require.True(t, eng.Spin())
	require.False(t, eng.Spin(), "spin while spinning is a no-op")
	require.Equal(t, reveal.Spinning, eng.SpinFrame().State)

	// 轉動中仍可操作其他功能（Engine 不會被轉盤卡住）
	eng.SetSearch(ctx, "game")
	require.Len(t, eng.Subset(), 6)

	sched.Advance(2800 * time.Millisecond)
	it, ok := eng.SpinResult()
	require.True(t, ok)
	require.Equal(t, "Alpha", it.Provider)
	require.Equal(t, it, eng.SpinFrame().Window[2])

	got, err := eng.WaitSpin(ctx)
	require.NoError(t, err)
	require.Equal(t, it, got)

	require.True(t, eng.Spin())
	require.True(t, eng.CancelSpin())
	_, err = eng.WaitSpin(ctx)
	require.ErrorIs(t, err, reveal.ErrCancelled)
}

func TestPersistenceRestore(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemStore()

	eng := newTestEngine(t, store, nil)
	eng.ToggleProvider(ctx, "Alpha")
	eng.SetSearch(ctx, "reel")
	_, err := eng.Generate(ctx, 3, "")
	require.NoError(t, err)
	_, err = eng.SetRecord(ctx, 1, hunt.FieldPayout, "42.10")
	require.NoError(t, err)
	eng.Rename(ctx, "night")
	_, err = eng.Save(ctx, "")
	require.NoError(t, err)
	want := eng.Hunt()
	wantHist := eng.History()

	again := newTestEngine(t, store, nil)
	require.Equal(t, eng.Filter(), again.Filter())
	got := again.Hunt()
	require.Equal(t, want.Active, got.Active)
	require.Equal(t, want.Session.Items, got.Session.Items)
	require.Equal(t, want.Session.Records, got.Session.Records)
	require.Equal(t, "night", got.Session.Name)
	require.Equal(t, want.Totals, got.Totals)
	require.Len(t, again.History(), len(wantHist))
	for i := range wantHist {
		require.Equal(t, wantHist[i].ID, again.History()[i].ID)
		require.Equal(t, wantHist[i].Records, again.History()[i].Records)
	}
}

func TestEmptyProviderSelectionRestoresAll(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemStore()
	eng := newTestEngine(t, store, nil)
	eng.SelectNone(ctx)
	require.Empty(t, eng.Filter().Providers)

	again := newTestEngine(t, store, nil)
	require.Equal(t, []string{"Alpha", "Beta"}, again.Filter().Providers)
}

func TestCorruptStateStartsFresh(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemStore()
	require.NoError(t, store.Put(ctx, "huntlab-state-v1", []byte("{broken")))
	eng := newTestEngine(t, store, nil)
	require.Len(t, eng.Subset(), 10)
	require.Empty(t, eng.History())
}

// failingStore 模擬寫入失敗的儲存。
type failingStore struct{ kvstore.Store }

func (failingStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestPersistFailureIsNotSurfaced(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, failingStore{kvstore.NewMemStore()}, nil)
	_, err := eng.Generate(ctx, 2, "")
	require.NoError(t, err)
	_, err = eng.Save(ctx, "still works")
	require.NoError(t, err)
	require.Len(t, eng.History(), 2)
}

func TestCancelledRequestStillPersists(t *testing.T) {
	store := kvstore.NewMemStore()
	eng := newTestEngine(t, store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eng.Rename(ctx, "late")

	again := newTestEngine(t, store, nil)
	require.Equal(t, "late", again.Hunt().Session.Name)
}

func TestSimulatorReproducible(t *testing.T) {
	a, _, err := NewSimulatorWithSeed(7).Sim(8, 1, 5000, false)
	require.NoError(t, err)
	b, _, err := NewSimulatorWithSeed(7).Sim(8, 1, 5000, false)
	require.NoError(t, err)
	require.Equal(t, a.Counts, b.Counts)
	require.Equal(t, 5000, a.Draws)
	require.True(t, a.Uniform(0.001))
}

func TestSimulatorMP(t *testing.T) {
	rep, _, err := NewSimulatorWithSeed(11).SimMP(10, 3, 2000, 4, false)
	require.NoError(t, err)
	require.Equal(t, 8000, rep.Draws)
	total := 0
	for _, c := range rep.Counts {
		total += c
	}
	require.Equal(t, 8000*3, total)
	require.True(t, rep.Uniform(0.001))
}

func TestSimulatorValidation(t *testing.T) {
	s := NewSimulatorWithSeed(1)
	for _, tc := range [][3]int{{0, 1, 1}, {5, 0, 1}, {5, 6, 1}, {5, 1, 0}} {
		_, _, err := s.Sim(tc[0], tc[1], tc[2], false)
		require.Error(t, err, "%v", tc)
		require.True(t, errs.IsWarn(err))
	}
	_, _, err := s.SimMP(5, 1, 10, 0, false)
	require.Error(t, err)
}
