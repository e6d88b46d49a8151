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

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Estimate 點估計與信賴區間。
type Estimate struct {
	Hat float64 `json:"Hat"`
	CI  CI      `json:"CI"`
}

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// quantileEstimate 第 q 分位的點估計（最近秩法）與 order statistic 信賴區間。
// data 必須已排序。
func quantileEstimate(sorted []float64, q, confidence float64) Estimate {
	n := len(sorted)
	if n == 0 {
		return Estimate{}
	}
	idx := min(max(int(q*float64(n)), 0), n-1)
	est := Estimate{Hat: sorted[idx], CI: CI{Lo: sorted[0], Hi: sorted[n-1]}}
	if n < 2 {
		return est
	}

	alpha := 1 - confidence
	k := min(max(int(q*float64(n)), 1), n-1)
	// 把 order statistic 的秩視為二項 → Beta 反推 p 範圍，再轉回樣本索引
	pLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}.Quantile(alpha / 2)
	pHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}.Quantile(1 - alpha/2)
	li := min(max(int(pLo*float64(n)), 0), n-1)
	ui := min(max(int(pHi*float64(n))-1, 0), n-1)
	est.CI = CI{Lo: sorted[li], Hi: sorted[ui]}
	return est
}

func sortedCopy(data []float64) []float64 {
	cp := make([]float64, len(data))
	copy(cp, data)
	sort.Float64s(cp)
	return cp
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(e Estimate) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(e.Hat), fmtPct01(e.CI.Lo), fmtPct01(e.CI.Hi))
}
