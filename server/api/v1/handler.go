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

// Package v1 是 huntlab 的 v1 HTTP API。
//
// 每個 handler 只做三件事：解析請求（dto）、呼叫 huntlab.Engine、把結果編碼成 JSON。
package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
	"github.com/zintix-labs/huntlab/server/httperr"
	"github.com/zintix-labs/huntlab/server/netsvr"
	"github.com/zintix-labs/huntlab/server/svrcfg"
)

type Handler struct {
	eng      *huntlab.Engine
	log      *slog.Logger
	currency string
	maxSim   int
}

func NewHandler(sCfg *svrcfg.SvrCfg) (*Handler, error) {
	if sCfg == nil || sCfg.Engine == nil {
		return nil, errs.NewFatal("engine is required")
	}
	return &Handler{
		eng:      sCfg.Engine,
		log:      sCfg.Log,
		currency: sCfg.Currency,
		maxSim:   sCfg.MaxSim,
	}, nil
}

// Register 掛上所有 v1 路由。
func (h *Handler) Register(r netsvr.NetRouter) {
	r.Get("/catalog", h.Catalog)
	r.Get("/catalog/suggest", h.Suggest)
	r.Get("/providers", h.Providers)
	r.Get("/filter", h.GetFilter)
	r.Put("/filter", h.PutFilter)

	r.Get("/reveal", h.RevealStatus)
	r.Post("/reveal", h.RevealStart)
	r.Delete("/reveal", h.RevealCancel)
	r.Get("/reveal/wait", h.RevealWait)

	r.Get("/hunt", h.GetHunt)
	r.Delete("/hunt", h.ClearHunt)
	r.Get("/hunt/generate", h.Generate)
	r.Post("/hunt/generate", h.Generate)
	r.Get("/hunt/records/{pos}", h.GetRecord)
	r.Put("/hunt/records/{pos}", h.PutRecord)
	r.Put("/hunt/name", h.Rename)
	r.Post("/hunt/save", h.Save)
	r.Get("/hunt/export", h.ExportHunt)

	r.Get("/history", h.ListHistory)
	r.Get("/history/stats", h.HistoryStats)
	r.Get("/history/{id}", h.GetHistory)
	r.Delete("/history/{id}", h.DeleteHistory)
	r.Post("/history/{id}/load", h.LoadHistory)
	r.Get("/history/{id}/export", h.ExportHistory)

	r.Get("/sim", h.Sim)
	r.Post("/sim", h.Sim)
}

// fail 在 httperr 的映射之上，把「找不到」改成 404。
func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	httperr.Log(h.log, msg, err)
	if errors.Is(err, hunt.ErrNotFound) {
		httperr.JSON(w, http.StatusNotFound, httperr.Body{Error: err.Error(), Status: http.StatusNotFound})
		return
	}
	httperr.Errs(w, err)
}

func (h *Handler) currencyOf(r *http.Request) string {
	if c := r.URL.Query().Get("currency"); c != "" {
		return c
	}
	return h.currency
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewWarn(key + " must be integer")
	}
	return v, nil
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(s))
}
