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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/hunt"
)

// 防止 body 過大
const maxBody = 1 << 20

// decodeJSON 解析 POST/PUT 的 JSON body，未知欄位直接拒絕，避免靜默丟資料。
func decodeJSON(r *http.Request, dst any) error {
	if r == nil {
		return errs.NewWarn("nil request")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.NewWarn(fmt.Sprintf("invalid json: %v", err))
	}
	return nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.NewWarn(fmt.Sprintf("invalid %s: %v", key, err))
	}
	return v, nil
}

// GenerateRequest 建立新的 hunt。
type GenerateRequest struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

// DecodeGenerateRequest 支援 GET（query: count, name）與 POST（JSON）。count 預設 10。
func DecodeGenerateRequest(r *http.Request) (*GenerateRequest, error) {
	req := &GenerateRequest{Count: 10}
	switch r.Method {
	case http.MethodGet:
		n, err := queryInt(r, "count", req.Count)
		if err != nil {
			return nil, err
		}
		req.Count = n
		req.Name = r.URL.Query().Get("name")
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}

// RecordRequest 寫入某個位置的下注或派彩。
type RecordRequest struct {
	Position int    `json:"position"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// DecodeRecordRequest 解析 JSON body；pos 由路徑參數帶入時以路徑為準。
func DecodeRecordRequest(r *http.Request, pathPos string) (*RecordRequest, hunt.Field, error) {
	req := new(RecordRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, "", err
	}
	if pathPos != "" {
		p, err := strconv.Atoi(pathPos)
		if err != nil {
			return nil, "", errs.NewWarn("position must be integer")
		}
		req.Position = p
	}
	f, err := hunt.ParseField(req.Field)
	if err != nil {
		return nil, "", err
	}
	return req, f, nil
}

// NameRequest 命名 / 存檔。
type NameRequest struct {
	Name string `json:"name"`
}

// DecodeNameRequest 允許空 body（視為空白名稱）。
func DecodeNameRequest(r *http.Request) (*NameRequest, error) {
	req := new(NameRequest)
	if r.Body == nil || r.ContentLength == 0 {
		req.Name = r.URL.Query().Get("name")
		return req, nil
	}
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// FilterRequest 更新篩選條件；未提供的欄位維持不變。
//
//   - providers：整批取代勾選的供應商（[] 代表全部取消）
//   - toggle：切換單一供應商
//   - all：true 勾選全部
//   - search：設定搜尋字串（"" 清除）
type FilterRequest struct {
	Providers *[]string `json:"providers,omitempty"`
	Toggle    string    `json:"toggle,omitempty"`
	All       bool      `json:"all,omitempty"`
	Search    *string   `json:"search,omitempty"`
}

func DecodeFilterRequest(r *http.Request) (*FilterRequest, error) {
	req := new(FilterRequest)
	if err := decodeJSON(r, req); err != nil {
		return nil, err
	}
	n := 0
	if req.Providers != nil {
		n++
	}
	if req.Toggle != "" {
		n++
	}
	if req.All {
		n++
	}
	if n > 1 {
		return nil, errs.NewWarn("providers, toggle and all are mutually exclusive")
	}
	return req, nil
}

// SimRequest 抽樣均勻度模擬。
type SimRequest struct {
	N       int    `json:"n"`
	Batch   int    `json:"batch"`
	Draws   int    `json:"draws"`
	Workers int    `json:"workers"`
	Seed    *int64 `json:"seed,omitempty"`
}

// DecodeSimRequest 支援 GET（query: n, batch, draws, workers, seed）與 POST（JSON）。
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	req := &SimRequest{Batch: 1, Workers: 1}
	switch r.Method {
	case http.MethodGet:
		var err error
		if req.N, err = queryInt(r, "n", 0); err != nil {
			return nil, err
		}
		if req.Batch, err = queryInt(r, "batch", req.Batch); err != nil {
			return nil, err
		}
		if req.Draws, err = queryInt(r, "draws", 0); err != nil {
			return nil, err
		}
		if req.Workers, err = queryInt(r, "workers", req.Workers); err != nil {
			return nil, err
		}
		if s := r.URL.Query().Get("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, errs.NewWarn("seed must be int64")
			}
			req.Seed = &v
		}
		return req, nil
	case http.MethodPost:
		if err := decodeJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, errs.NewWarn("method not allowed")
	}
}
