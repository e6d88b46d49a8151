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

package stats

import "sort"

// MultBuckets 把單場 hunt 的回報倍數（總派彩 / 總下注）分到固定區間。
//
// 請勿修改預設值
//   - 區間: [0,0], (0,0.5), [0.5,1), [1,2), [2,5), [5,10), [10,+inf)
type MultBuckets struct {
	edges  []float64
	labels []string
}

var Buckets = &MultBuckets{
	edges:  []float64{0, 0.5, 1, 2, 5, 10},
	labels: []string{"[0,0]", "(0,0.5)", "[0.5,1)", "[1,2)", "[2,5)", "[5,10)", "[10,+inf)"},
}

// Labels 回傳區間標籤，長度為 Len()。
func (b *MultBuckets) Labels() []string {
	return b.labels
}

func (b *MultBuckets) Len() int {
	return len(b.labels)
}

// Index 回傳倍數 m 所在的區間索引；m <= 0 一律落在 [0,0]。
func (b *MultBuckets) Index(m float64) int {
	if m <= 0 {
		return 0
	}
	// 第一個 > m 的邊界，即為 m 所在區間的右端
	return sort.Search(len(b.edges), func(i int) bool { return b.edges[i] > m })
}
