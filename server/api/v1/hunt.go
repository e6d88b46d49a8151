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
	"strconv"

	"github.com/zintix-labs/huntlab/dto"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/server/httperr"
	"github.com/zintix-labs/huntlab/server/netsvr"
)

func errInvalid(key string) error {
	return errs.NewWarn("invalid " + key)
}

// GetHunt GET /v1/hunt
func (h *Handler) GetHunt(w http.ResponseWriter, r *http.Request) {
	httperr.OK(w, dto.NewHunt(h.eng.Hunt()))
}

// Generate GET|POST /v1/hunt/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeGenerateRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	v, err := h.eng.Generate(r.Context(), req.Count, req.Name)
	if err != nil {
		h.fail(w, "hunt generate", err)
		return
	}
	httperr.JSON(w, http.StatusCreated, dto.NewHunt(v))
}

// GetRecord GET /v1/hunt/records/{pos}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(netsvr.URLParam(r, "pos"))
	if err != nil {
		httperr.Errs(w, errInvalid("position"))
		return
	}
	httperr.OK(w, h.eng.Record(pos))
}

// PutRecord PUT /v1/hunt/records/{pos} body: {"field":"stake","value":"2.50"}
func (h *Handler) PutRecord(w http.ResponseWriter, r *http.Request) {
	req, f, err := dto.DecodeRecordRequest(r, netsvr.URLParam(r, "pos"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	totals, err := h.eng.SetRecord(r.Context(), req.Position, f, req.Value)
	if err != nil {
		h.fail(w, "hunt record", err)
		return
	}
	httperr.OK(w, map[string]any{
		"record": h.eng.Record(req.Position),
		"totals": totals,
	})
}

// Rename PUT /v1/hunt/name
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeNameRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	h.eng.Rename(r.Context(), req.Name)
	httperr.OK(w, dto.NewHunt(h.eng.Hunt()))
}

// Save POST /v1/hunt/save 名稱空白時沿用目前名稱。
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	req, err := dto.DecodeNameRequest(r)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	ent, err := h.eng.Save(r.Context(), req.Name)
	if err != nil {
		h.fail(w, "hunt save", err)
		return
	}
	httperr.JSON(w, http.StatusCreated, dto.NewHistorySummary(ent))
}

// ClearHunt DELETE /v1/hunt
func (h *Handler) ClearHunt(w http.ResponseWriter, r *http.Request) {
	h.eng.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ExportHunt GET /v1/hunt/export?currency=
func (h *Handler) ExportHunt(w http.ResponseWriter, r *http.Request) {
	writeText(w, h.eng.ExportHunt(h.currencyOf(r)))
}
