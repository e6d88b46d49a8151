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

	"github.com/zintix-labs/huntlab/catalog"
	"github.com/zintix-labs/huntlab/dto"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/httperr"
)

// Catalog GET /v1/catalog?view=all|subset|display&offset=&limit=
//
// view 預設 display（目前篩選條件下的洗牌顯示順序）。
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	var items []catalog.Item
	switch view := r.URL.Query().Get("view"); view {
	case "", "display":
		items = h.eng.Display()
	case "subset":
		items = h.eng.Subset()
	case "all":
		items = h.eng.Catalog().Items()
	default:
		httperr.Errs(w, errs.NewWarn("unknown view: "+view))
		return
	}
	httperr.OK(w, dto.Page(items, offset, limit))
}

// Suggest GET /v1/catalog/suggest?limit= 搜尋無結果時的候選項目。
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 5)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	items := h.eng.Suggest(limit)
	if items == nil {
		items = []catalog.Item{}
	}
	httperr.OK(w, items)
}

// Providers GET /v1/providers
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, h.eng.Providers())
}

// GetFilter GET /v1/filter
func (h *Handler) GetFilter(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, h.eng.Filter())
}

// PutFilter PUT /v1/filter
func (h *Handler) PutFilter(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeFilterRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ctx := r.Context()
	var f catalog.Filter
	switch {
	case req.Providers != nil:
		f = h.eng.SetFilter(ctx, catalog.Filter{Providers: *req.Providers, Search: h.eng.Filter().Search})
	case req.Toggle != "":
		f = h.eng.ToggleProvider(ctx, req.Toggle)
	case req.All:
		f = h.eng.SelectAll(ctx)
	default:
		f = h.eng.Filter()
	}
	if req.Search != nil {
		f = h.eng.SetSearch(ctx, *req.Search)
	}
	httperr.OK(w, f)
}
