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
	"io"
	"math"
	"time"

	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat/distuv"
)

// UniformityReport 抽樣均勻度檢定：對大小為 N 的 subset 重複抽樣，
// 以 Pearson chi-square 檢定每個位置被抽中的次數是否符合均勻分佈。
//
// 紀錄時只累加 int 計數，Done() 才一次計算統計量。
type UniformityReport struct {
	N        int     `json:"N"`
	Batch    int     `json:"Batch"` // 每次抽樣的數量；1 代表 PickOne
	Draws    int     `json:"Draws"`
	Counts   []int   `json:"Counts"`
	Expected float64 `json:"Expected"`
	ChiSq    float64 `json:"ChiSq"`
	DF       int     `json:"DF"`
	PValue   float64 `json:"PValue"`
	MaxDev   float64 `json:"MaxDev"` // 最大相對偏差 |obs-exp|/exp
	isDone   bool
}

func NewUniformityReport(n, batch int) *UniformityReport {
	return &UniformityReport{
		N:      n,
		Batch:  max(batch, 1),
		Counts: make([]int, n),
	}
}

// Observe 記錄一次抽樣結果（subset 索引）。
func (u *UniformityReport) Observe(idx ...int) {
	for _, i := range idx {
		u.Counts[i]++
	}
	u.Draws++
}

// Merge 把另一份同尺寸的紀錄累加進來（平行模擬合併用）；Done 之後呼叫無效。
func (u *UniformityReport) Merge(o *UniformityReport) {
	if u.isDone || o == nil || len(o.Counts) != len(u.Counts) {
		return
	}
	for i, c := range o.Counts {
		u.Counts[i] += c
	}
	u.Draws += o.Draws
}

// Done 計算統計量並鎖定結果。
func (u *UniformityReport) Done() {
	if u.isDone {
		return
	}
	total := 0
	for _, c := range u.Counts {
		total += c
	}
	if u.N < 2 || total == 0 {
		u.isDone = true
		return
	}
	u.Expected = float64(total) / float64(u.N)
	chi, dev := 0.0, 0.0
	for _, c := range u.Counts {
		d := float64(c) - u.Expected
		chi += d * d / u.Expected
		dev = max(dev, math.Abs(d)/u.Expected)
	}
	u.ChiSq = chi
	u.MaxDev = dev
	u.DF = u.N - 1
	u.PValue = distuv.ChiSquared{K: float64(u.DF)}.Survival(chi)
	u.isDone = true
}

// Uniform 在顯著水準 alpha 下是否不拒絕均勻假設。
func (u *UniformityReport) Uniform(alpha float64) bool {
	u.Done()
	return u.PValue >= alpha
}

func (u *UniformityReport) WriteWith(w io.Writer, rep UniformityRender) error {
	u.Done()
	return rep.Write(w, u)
}

// StdOut 輸出耗時與檢定結果。
func (u *UniformityReport) StdOut(w io.Writer, used time.Duration) {
	u.Done()
	formatDuration(w, used, u.Draws, "draws")
	p := message.NewPrinter(lang)
	msg := map[string]string{
		"Subset Size":  p.Sprintf("%d", u.N),
		"Batch Size":   p.Sprintf("%d", u.Batch),
		"Draws":        p.Sprintf("%d", u.Draws),
		"Expected":     p.Sprintf("%.2f", u.Expected),
		"Chi-Square":   p.Sprintf("%.3f", u.ChiSq),
		"DF":           p.Sprintf("%d", u.DF),
		"P-Value":      p.Sprintf("%.4f", u.PValue),
		"Max Rel. Dev": p.Sprintf("%.3f %%", 100*u.MaxDev),
		"Verdict":      verdict(u.Uniform(1 - Confidence)),
	}
	keys := []string{"Subset Size", "Batch Size", "Draws", "Expected", "Chi-Square", "DF", "P-Value", "Max Rel. Dev", "Verdict"}
	fmt.Fprintln(w, fmtTable("Sampler Uniformity", keys, msg))
}

func verdict(ok bool) string {
	if ok {
		return "uniform (not rejected)"
	}
	return "NOT uniform"
}
