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

// Package core 提供 huntlab 所有隨機行為共用的亂數核心（Core）。
//
// 抽樣器（sampler）、轉盤動畫（reveal）、顯示洗牌（catalog）都只依賴 *Core，
// 不直接碰 math/rand，這樣測試可以用固定 seed 重現任意一次抽樣。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源。
type PRNG interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一個實作下 New(seed) 必須是決定性的，相同 seed 產生相同序列。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

func (d *DefaultPRNG) New(seed int64) PRNG {
	return newPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// Core 封裝 PRNG，並提供常用取樣與工具方法。
//
// Core 不是併發安全的：同一個 Core 只應由單一 goroutine（或持有同一把鎖的呼叫端）使用。
type Core struct {
	PRNG
	seed int64
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{PRNG: rng}
}

// NewWithSeed 以預設 PRNG 與指定 seed 建立 Core（測試與重現用）。
func NewWithSeed(seed int64) *Core {
	return &Core{PRNG: Default().New(seed), seed: seed}
}

// NewRandom 以 crypto/rand 產生 seed 建立 Core（對外服務用，避免可預測）。
func NewRandom() *Core {
	return NewWithSeed(RandomSeed())
}

// Seed 回傳建立時的 seed；以 New 注入外部 PRNG 時為 0。
func (c *Core) Seed() int64 {
	return c.seed
}

// Index 回傳 [0,n) 的均勻亂數索引，n <= 0 回傳 -1（哨兵值）。
func (c *Core) Index(n int) int {
	return c.IntN(n)
}

// Pick 從列表中隨機選取一個元素，若列表為空回傳 -1
func (c *Core) Pick(src []int) int {
	if len(src) == 0 {
		return -1
	}
	return src[c.IntN(len(src))]
}

// Shuffle 以 Fisher-Yates 對長度 n 的序列做就地洗牌，swap 由呼叫端提供。
//
// 所有 n! 種排列出現機率相等；時間 O(n)、不配置記憶體。
func (c *Core) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		swap(i, j)
	}
}

// ShuffleInts 對 []int 就地洗牌。
func (c *Core) ShuffleInts(src []int) {
	c.Shuffle(len(src), func(i, j int) { src[i], src[j] = src[j], src[i] })
}

// RandomSeed 由 crypto/rand 取得非負 int64 seed。
//
// crypto/rand 失敗時退回 0 以外的固定值，不讓呼叫端因為取 seed 失敗而無法啟動。
func RandomSeed() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0x5eed
	}
	return n.Int64()
}
