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

package dto

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/reveal"
)

func TestDecodeGenerateRequestGET(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/hunt/generate?count=7&name=Friday", nil)
	req, err := DecodeGenerateRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Count != 7 || req.Name != "Friday" {
		t.Fatalf("unexpected request: %+v", req)
	}

	r = httptest.NewRequest(http.MethodGet, "/hunt/generate", nil)
	req, _ = DecodeGenerateRequest(r)
	if req.Count != 10 {
		t.Fatalf("default count expected, got %d", req.Count)
	}

	r = httptest.NewRequest(http.MethodGet, "/hunt/generate?count=x", nil)
	if _, err := DecodeGenerateRequest(r); !errs.IsWarn(err) {
		t.Fatalf("expected warn error, got %v", err)
	}
}

func TestDecodeGenerateRequestPOST(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/hunt/generate", bytes.NewReader([]byte(`{"count":3,"name":"x"}`)))
	req, err := DecodeGenerateRequest(r)
	if err != nil || req.Count != 3 || req.Name != "x" {
		t.Fatalf("unexpected result %+v %v", req, err)
	}
	r = httptest.NewRequest(http.MethodPost, "/hunt/generate", bytes.NewReader([]byte(`{"count":3,"unknown":true}`)))
	if _, err := DecodeGenerateRequest(r); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestDecodeRecordRequest(t *testing.T) {
	body := []byte(`{"field":"bet","value":"2.50"}`)
	r := httptest.NewRequest(http.MethodPut, "/hunt/records/3", bytes.NewReader(body))
	req, f, err := DecodeRecordRequest(r, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Position != 3 || f != hunt.FieldStake || req.Value != "2.50" {
		t.Fatalf("unexpected request: %+v %s", req, f)
	}

	r = httptest.NewRequest(http.MethodPut, "/hunt/records/0", bytes.NewReader([]byte(`{"field":"win","value":"1"}`)))
	if _, _, err := DecodeRecordRequest(r, "0"); err == nil {
		t.Fatalf("expected error for unknown field name")
	}
	r = httptest.NewRequest(http.MethodPut, "/hunt/records/a", bytes.NewReader(body))
	if _, _, err := DecodeRecordRequest(r, "a"); err == nil {
		t.Fatalf("expected error for bad position")
	}
}

func TestDecodeFilterRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodPut, "/filter", bytes.NewReader([]byte(`{"providers":[],"search":""}`)))
	req, err := DecodeFilterRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Providers == nil || len(*req.Providers) != 0 || req.Search == nil {
		t.Fatalf("explicit empty values must be kept: %+v", req)
	}

	r = httptest.NewRequest(http.MethodPut, "/filter", bytes.NewReader([]byte(`{"toggle":"A","all":true}`)))
	if _, err := DecodeFilterRequest(r); err == nil {
		t.Fatalf("expected error for conflicting fields")
	}
}

func TestDecodeNameRequestEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/hunt/save", nil)
	req, err := DecodeNameRequest(r)
	if err != nil || req.Name != "" {
		t.Fatalf("empty body should decode to blank name: %+v %v", req, err)
	}
}

func TestDecodeSimRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/sim?n=10&draws=1000&seed=5", nil)
	req, err := DecodeSimRequest(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.N != 10 || req.Draws != 1000 || req.Batch != 1 || req.Workers != 1 || req.Seed == nil || *req.Seed != 5 {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestNewHuntFlattensRecords(t *testing.T) {
	items := []catalog.Item{{ID: "a.png", Name: "A"}, {ID: "b.png", Name: "B"}}
	v := huntlab.HuntView{
		Session: &hunt.Session{
			Items:     items,
			Records:   hunt.Records{1: {Stake: "3", Payout: "9"}},
			Name:      "n",
			CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		Active: true,
		Totals: hunt.Totals{Stake: 3, Payout: 9, Net: 6},
	}
	h := NewHunt(v)
	if len(h.Slots) != 2 || h.Slots[0].Stake != "0.00" || h.Slots[1].Payout != "9" || h.Slots[1].Position != 1 {
		t.Fatalf("unexpected slots: %+v", h.Slots)
	}
	if h.CreatedAt == nil || !h.Active || h.Name != "n" {
		t.Fatalf("unexpected hunt: %+v", h)
	}
	empty := NewHunt(huntlab.HuntView{Session: &hunt.Session{}})
	if empty.CreatedAt != nil || len(empty.Slots) != 0 {
		t.Fatalf("unexpected empty hunt: %+v", empty)
	}
}

func TestPage(t *testing.T) {
	items := make([]catalog.Item, 5)
	if p := Page(items, 1, 2); p.Total != 5 || p.Offset != 1 || len(p.Items) != 2 {
		t.Fatalf("unexpected page %+v", p)
	}
	if p := Page(items, 4, 0); len(p.Items) != 1 {
		t.Fatalf("limit 0 should run to the end, got %d", len(p.Items))
	}
	if p := Page(items, 9, 3); p.Offset != 5 || len(p.Items) != 0 {
		t.Fatalf("offset past end should clamp, got %+v", p)
	}
}

func TestNewReveal(t *testing.T) {
	r := NewReveal(reveal.Frame[catalog.Item]{State: reveal.Idle}, 25, catalog.Item{}, false)
	if r.Window == nil || r.Result != nil || r.Ticks != 25 {
		t.Fatalf("unexpected reveal %+v", r)
	}
}
