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

// Package kvstore 提供持久化狀態用的簡單 key-value 儲存。
//
// 每個 key 對應一整份 payload，Put 一律整份覆寫（last writer wins），不做合併。
package kvstore

import (
	"context"
	"regexp"

	"github.com/zintix-labs/huntlab/errs"
)

var (
	ErrNotFound = errs.NewWarn("kvstore: key not found")
	ErrBadKey   = errs.NewWarn("kvstore: invalid key")
)

// Store 是 byte payload 的 key-value 儲存。實作必須是併發安全的。
type Store interface {
	// Get 讀取 key；不存在時回傳 ErrNotFound。
	Get(ctx context.Context, key string) ([]byte, error)
	// Put 整份覆寫 key。
	Put(ctx context.Context, key string, val []byte) error
	// Delete 刪除 key；不存在時不是錯誤。
	Delete(ctx context.Context, key string) error
}

var reKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidKey key 只允許英數字與 . _ -（也是檔名安全字元）。
func ValidKey(key string) error {
	if !reKey.MatchString(key) {
		return errs.WrapWithExtra(ErrBadKey, "kvstore: check key", key)
	}
	return nil
}
