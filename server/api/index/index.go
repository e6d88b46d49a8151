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

// Package index 是根路徑的服務說明。
package index

import (
	"net/http"

	"github.com/zintix-labs/huntlab"
	"github.com/zintix-labs/huntlab/server/httperr"
)

type info struct {
	Service   string   `json:"service"`
	Items     int      `json:"items"`
	Providers int      `json:"providers"`
	Skipped   int      `json:"skipped"`
	Seed      int64    `json:"seed"`
	Endpoints []string `json:"endpoints"`
}

// Endpoints 列在首頁的 v1 路由說明。
var Endpoints = []string{
	"GET    /v1/catalog?view=display|subset|all&offset=&limit=",
	"GET    /v1/catalog/suggest?limit=",
	"GET    /v1/providers",
	"GET    /v1/filter",
	"PUT    /v1/filter",
	"GET    /v1/reveal",
	"POST   /v1/reveal",
	"DELETE /v1/reveal",
	"GET    /v1/reveal/wait?timeout=",
	"GET    /v1/hunt",
	"DELETE /v1/hunt",
	"POST   /v1/hunt/generate",
	"GET    /v1/hunt/records/{pos}",
	"PUT    /v1/hunt/records/{pos}",
	"PUT    /v1/hunt/name",
	"POST   /v1/hunt/save",
	"GET    /v1/hunt/export?currency=",
	"GET    /v1/history",
	"GET    /v1/history/stats?format=json|yaml|text",
	"GET    /v1/history/{id}",
	"DELETE /v1/history/{id}",
	"POST   /v1/history/{id}/load",
	"GET    /v1/history/{id}/export?currency=",
	"POST   /v1/sim",
}

// New 回傳 GET / 的 handler。
func New(eng *huntlab.Engine) http.HandlerFunc {
	cat := eng.Catalog()
	body := info{
		Service:   "huntlab",
		Items:     cat.Len(),
		Providers: len(cat.Providers()),
		Skipped:   cat.Skipped(),
		Seed:      eng.Seed(),
		Endpoints: Endpoints,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		httperr.OK(w, body)
	}
}
