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

// Package errs 定義 huntlab 全域共用的分級錯誤（leveled error）。
//
// 分級用來讓最上層（HTTP / CLI）決定如何呈現：
//   - Warn  ：呼叫端的前置條件不成立（空集合抽樣、位置越界…），屬於可預期情境。
//   - Fatal ：基礎設施失敗（儲存 I/O、序列化），通常需要記錄並回報 500。
//   - Log   ：僅供紀錄，不影響流程。
package errs

import (
	"errors"
	"fmt"
)

// ErrLevel : Error 分級，使最上層理解問題嚴重程度
type ErrLevel uint8

const (
	None ErrLevel = iota
	Fatal
	Warn
	Log
)

func (l ErrLevel) String() string {
	switch l {
	case Fatal:
		return "fatal"
	case Warn:
		return "warn"
	case Log:
		return "log"
	default:
		return ""
	}
}

// E 是統一的錯誤型別。
// Message 為主訊息；Extra 為呼叫端追加的上下文；Cause 串接下層錯誤。
type E struct {
	Message string
	Extra   string
	Cause   error
	ErrLv   ErrLevel
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("errlv=%s %s", e.ErrLv, e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

func New(errLv ErrLevel, msg string) *E {
	return &E{Message: msg, ErrLv: errLv}
}

func NewFatal(msg string) *E {
	return &E{Message: msg, ErrLv: Fatal}
}

func NewWarn(msg string) *E {
	return &E{Message: msg, ErrLv: Warn}
}

func NewLog(msg string) *E {
	return &E{Message: msg, ErrLv: Log}
}

func Fatalf(format string, a ...any) *E {
	return NewFatal(fmt.Sprintf(format, a...))
}

func Warnf(format string, a ...any) *E {
	return NewWarn(fmt.Sprintf(format, a...))
}

// Wrap 以 msg 包裝 cause。
//
// ErrLevel 規則：
//   - cause 已經是 *E：沿用其 ErrLv（保持原本嚴重度）。
//   - 其他（標準庫或三方依賴的錯誤）：一律視為 Fatal。
func Wrap(cause error, msg string) *E {
	r := New(levelOf(cause, Fatal), msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 與 Wrap 相同，另外附上上下文字串。
//
// 常見用法是包住 sentinel 錯誤並補充細節，errors.Is(err, sentinel) 仍然成立：
//
//	return errs.WrapWithExtra(ErrPosition, "set record failed", "pos=7")
func WrapWithExtra(cause error, msg string, extra string) *E {
	r := Wrap(cause, msg)
	r.Extra = extra
	return r
}

// Level 回傳 err 鏈上第一個 *E 的分級；若沒有 *E 則回傳 None。
func Level(err error) ErrLevel {
	return levelOf(err, None)
}

func IsWarn(err error) bool { return Level(err) == Warn }

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func levelOf(err error, fallback ErrLevel) ErrLevel {
	if e, ok := AsErr(err); ok {
		return e.ErrLv
	}
	return fallback
}
