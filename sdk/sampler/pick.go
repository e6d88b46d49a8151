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

// Package sampler 提供對「目前可選集合（active subset）」的均勻抽樣。
//
//   - PickOne   ：單抽，給轉盤（reveal）決定中獎項目。
//   - PickBatch ：不重複抽 k 個，給 bonus hunt 產生一批項目。
//
// 兩者都以索引為單位去重，所以即使目錄裡有同名/同供應商的重複項目，
// 同一批也不會抽到同一個位置兩次。
package sampler

import (
	"github.com/zintix-labs/huntlab/errs"
	"github.com/zintix-labs/huntlab/sdk/core"
)

var (
	// ErrEmptySubset 從空集合抽樣。呼叫端應先停用觸發動作，屬於合約違反。
	ErrEmptySubset = errs.NewWarn("sampler: empty subset")
	// ErrBatchSize 要求的批次大小 < 1。
	ErrBatchSize = errs.NewWarn("sampler: batch size must be >= 1")
)

// PickOne 從 subset 均勻抽出一個元素。
func PickOne[T any](c *core.Core, subset []T) (T, error) {
	var zero T
	if len(subset) == 0 {
		return zero, ErrEmptySubset
	}
	return subset[c.Index(len(subset))], nil
}

// PickBatch 從 subset 不重複抽出 k 個元素，回傳順序為抽中順序。
//
// k 大於集合大小時會被靜默截到 len(subset)，不回傳錯誤。
func PickBatch[T any](c *core.Core, subset []T, k int) ([]T, error) {
	if k < 1 {
		return nil, ErrBatchSize
	}
	if len(subset) == 0 {
		return nil, ErrEmptySubset
	}
	idx := PickIndices(c, len(subset), k)
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = subset[j]
	}
	return out, nil
}

// PickIndices 以拒絕採樣從 [0,n) 取出 min(k,n) 個不重複索引。
//
// 每輪抽一個均勻索引，已抽過就丟掉重抽，直到湊滿。
// k 接近 n 時期望抽樣次數為 n·H(n)，對目錄大小（數千）仍然很便宜。
func PickIndices(c *core.Core, n int, k int) []int {
	k = min(k, n)
	if k <= 0 {
		return nil
	}
	used := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for len(out) < k {
		i := c.Index(n)
		if _, ok := used[i]; ok {
			continue
		}
		used[i] = struct{}{}
		out = append(out, i)
	}
	return out
}
