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

package v1

import (
	"net/http"

	"github.com/zintix-labs/huntlab/dto"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/httperr"
	"github.com/zintix-labs/huntlab/server/netsvr"
	"github.com/zintix-labs/huntlab/stats"
)

// ListHistory GET /v1/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, dto.NewHistoryList(h.eng.History()))
}

// GetHistory GET /v1/history/{id}
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ent, err := h.eng.HistoryEntry(netsvr.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "history get", err)
		return
	}
	httperr.OK(w, dto.NewHistoryDetail(ent))
}

// LoadHistory POST /v1/history/{id}/load
func (h *Handler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	v, err := h.eng.LoadHistory(r.Context(), netsvr.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "history load", err)
		return
	}
	httperr.OK(w, dto.NewHunt(v))
}

// DeleteHistory DELETE /v1/history/{id} 不存在也回 204。
func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	h.eng.DeleteHistory(r.Context(), netsvr.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ExportHistory GET /v1/history/{id}/export?currency=
func (h *Handler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	s, err := h.eng.ExportHistory(netsvr.URLParam(r, "id"), h.currencyOf(r))
	if err != nil {
		h.fail(w, "history export", err)
		return
	}
	writeText(w, s)
}

// HistoryStats GET /v1/history/stats?format=json|yaml|text
func (h *Handler) HistoryStats(w http.ResponseWriter, r *http.Request) {
	rep := stats.NewHuntReport(h.eng.History())
	rep.Currency = h.currencyOf(r)
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if err := rep.WriteWith(w, &stats.JsonHuntReportRender{}); err != nil {
			h.fail(w, "history stats", err)
		}
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		if err := rep.WriteWith(w, &stats.YAMLHuntReportRender{}); err != nil {
			h.fail(w, "history stats", err)
		}
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rep.StdOut(w)
	default:
		httperr.Errs(w, errs.NewWarn("unknown format: "+format))
	}
}
