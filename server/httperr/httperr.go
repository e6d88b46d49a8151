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

// Package httperr 把 errs 分級映射到 HTTP 狀態碼並以 JSON 回應。
//
// 映射規則放在 server 這一層，errs 本身不依賴 net/http。
package httperr

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/zintix-labs/huntlab/errs"
)

// Body 錯誤回應的 JSON 格式。
type Body struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// StatusCode
//   - ctx deadline → 504，ctx cancel → 408
//   - errs.Warn → 400
//   - errs.Fatal 與其他 → 500
func StatusCode(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	if errs.IsWarn(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Errs 寫出錯誤回應。err 為 nil 時不做事。
func Errs(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	status := StatusCode(err)
	JSON(w, status, Body{Error: err.Error(), Status: status})
}

// Method 回應 405。
func Method(w http.ResponseWriter, allow ...string) {
	for _, m := range allow {
		w.Header().Add("Allow", m)
	}
	JSON(w, http.StatusMethodNotAllowed, Body{Error: "method not allowed", Status: http.StatusMethodNotAllowed})
}

// JSON 以 status 寫出 v。
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK 即 JSON(w, 200, v)。
func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

// Log 只記錄值得注意的錯誤：5xx 為 Error，408 為 Warn；400 是使用者輸入問題，交給 access log。
func Log(log *slog.Logger, msg string, err error) {
	if err == nil || log == nil {
		return
	}
	switch status := StatusCode(err); {
	case status >= 500:
		log.Error(msg, slog.Any("err", err))
	case status == http.StatusRequestTimeout:
		log.Warn(msg, slog.Any("err", err))
	}
}
