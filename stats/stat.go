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

// Package stats 產生歷史紀錄的統計報告，以及抽樣均勻度的檢定報告。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/huntlab/hunt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// Confidence 所有信賴區間使用的信心水準。
const Confidence = 0.95

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// HuntReport 歷史紀錄統計報告
type HuntReport struct {
	Summary  *SummaryReport `json:"Summary"`
	Net      *NetReport     `json:"Net"`
	Dist     *DistReport    `json:"Dist"`
	Best     *HuntRef       `json:"Best,omitzero"`
	Worst    *HuntRef       `json:"Worst,omitzero"`
	Currency string         `json:"Currency"`
	nets     []float64
	isDone   bool
}

type SummaryReport struct {
	Hunts       int      `json:"Hunts"`
	Slots       int      `json:"Slots"`
	TotalStake  float64  `json:"TotalStake"`
	TotalPayout float64  `json:"TotalPayout"`
	Net         float64  `json:"Net"`
	RTP         float64  `json:"RTP"` // 總派彩 / 總下注
	Profitable  int      `json:"Profitable"`
	ProfitRate  Estimate `json:"ProfitRate"`
}

// NetReport 單場淨利（派彩 - 下注）的分佈
type NetReport struct {
	Mean   float64  `json:"Mean"`
	Std    float64  `json:"Std"`
	MeanCI CI       `json:"MeanCI"` // Student-t
	Median Estimate `json:"Median"`
	P10    Estimate `json:"P10"`
	P90    Estimate `json:"P90"`
}

// DistReport 單場回報倍數的區間落點統計
type DistReport struct {
	MultBucket  []string  `json:"MultBucket"`
	MultCollect []int     `json:"MultCollect"`
	MultDist    []float64 `json:"MultDist"`
}

// HuntRef 指向某一筆歷史紀錄
type HuntRef struct {
	ID    string  `json:"ID"`
	Name  string  `json:"Name"`
	Net   float64 `json:"Net"`
	Stake float64 `json:"Stake"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// NewHuntReport 收集歷史紀錄並立即計算結果。
func NewHuntReport(entries []hunt.Entry) *HuntReport {
	r := &HuntReport{
		Summary: &SummaryReport{},
		Net:     &NetReport{},
		Dist: &DistReport{
			MultBucket:  Buckets.Labels(),
			MultCollect: make([]int, Buckets.Len()),
			MultDist:    make([]float64, Buckets.Len()),
		},
		Currency: hunt.DefaultCurrency,
		nets:     make([]float64, 0, len(entries)),
	}
	for _, e := range entries {
		r.Record(e)
	}
	r.Done()
	return r
}

// Record 累計一筆歷史紀錄；Done 之後呼叫無效。
func (r *HuntReport) Record(e hunt.Entry) {
	if r.isDone {
		return
	}
	s := r.Summary
	s.Hunts++
	s.Slots += len(e.Items)
	s.TotalStake += e.TotalStake
	s.TotalPayout += e.TotalPayout
	net := e.Net()
	if net > 0 {
		s.Profitable++
	}
	r.nets = append(r.nets, net)

	mult := 0.0
	if e.TotalStake > 0 {
		mult = e.TotalPayout / e.TotalStake
	}
	r.Dist.MultCollect[Buckets.Index(mult)]++

	ref := &HuntRef{ID: e.ID, Name: e.Label(), Net: net, Stake: e.TotalStake}
	if r.Best == nil || net > r.Best.Net {
		r.Best = ref
	}
	if r.Worst == nil || net < r.Worst.Net {
		r.Worst = ref
	}
}

// Done 將累積資料轉換為最終統計結果並鎖定 isDone 標記。
func (r *HuntReport) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	s.Net = s.TotalPayout - s.TotalStake
	s.RTP = r.Rtp()
	s.ProfitRate.Hat, s.ProfitRate.CI = proportionCICP(s.Profitable, s.Hunts, Confidence)

	r.Net.Mean, r.Net.Std = r.meanStd()
	r.Net.MeanCI = r.Ci()
	sorted := sortedCopy(r.nets)
	r.Net.Median = quantileEstimate(sorted, 0.5, Confidence)
	r.Net.P10 = quantileEstimate(sorted, 0.1, Confidence)
	r.Net.P90 = quantileEstimate(sorted, 0.9, Confidence)

	if s.Hunts > 0 {
		for i, c := range r.Dist.MultCollect {
			r.Dist.MultDist[i] = float64(c) / float64(s.Hunts)
		}
	}
	r.isDone = true
}

// Rtp 回傳整體回報率（總派彩 / 總下注）
func (r *HuntReport) Rtp() float64 {
	if r.Summary.TotalStake <= 0 {
		return 0
	}
	return r.Summary.TotalPayout / r.Summary.TotalStake
}

func (r *HuntReport) meanStd() (float64, float64) {
	switch len(r.nets) {
	case 0:
		return 0, 0
	case 1:
		return r.nets[0], 0
	}
	return stat.MeanStdDev(r.nets, nil)
}

// Ci 回傳單場淨利平均值的 95% 信賴區間（Student-t，df = n-1）
func (r *HuntReport) Ci() CI {
	n := len(r.nets)
	mean, std := r.meanStd()
	if n < 2 {
		return CI{Lo: mean, Hi: mean}
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(1 - (1-Confidence)/2)
	half := t * std / math.Sqrt(float64(n))
	return CI{Lo: mean - half, Hi: mean + half}
}

func (r *HuntReport) WriteWith(w io.Writer, rep HuntReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 以表格輸出摘要。
func (r *HuntReport) StdOut(w io.Writer) {
	r.Done()
	sk, sm := r.fmtBasic()
	fmt.Fprintln(w, fmtTable("Hunt History", sk, sm))
	dk, dm := r.fmtDist()
	fmt.Fprintln(w, fmtTable("Return Multiple", dk, dm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

// formatDuration 輸出耗時與每秒次數，unit 為次數單位（例如 "draws"）。
func formatDuration(w io.Writer, d time.Duration, n int, unit string) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	rate := int(float64(n) / sec)
	if sec < 60.0 {
		p.Fprintf(w, "used: %.2f seconds\nrate: %d %s/sec\n", sec, rate, unit)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Fprintf(w, "used: %dm %ds\nrate: %d %s/sec\n", m, s, rate, unit)
		return
	}
	p.Fprintf(w, "used: %dh:%dm:%ds\nrate: %d %s/sec\n", h, m, s, rate, unit)
}

func (r *HuntReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	cur := r.Currency
	basic := map[string]string{
		"Hunts":        p.Sprintf("%d", r.Summary.Hunts),
		"Slots":        p.Sprintf("%d", r.Summary.Slots),
		"Total Stake":  p.Sprintf("%s%.2f", cur, r.Summary.TotalStake),
		"Total Payout": p.Sprintf("%s%.2f", cur, r.Summary.TotalPayout),
		"Net":          p.Sprintf("%s%.2f", cur, r.Summary.Net),
		"RTP":          p.Sprintf("%.2f %%", 100.0*r.Summary.RTP),
		"Profitable":   fmtHatCIpct01(r.Summary.ProfitRate),
		"Mean Net":     p.Sprintf("%s%.2f", cur, r.Net.Mean),
		"Mean 95% CI":  p.Sprintf("[%.2f, %.2f]", r.Net.MeanCI.Lo, r.Net.MeanCI.Hi),
		"Std Net":      p.Sprintf("%.3f", r.Net.Std),
		"Median Net":   p.Sprintf("%.2f [%.2f, %.2f]", r.Net.Median.Hat, r.Net.Median.CI.Lo, r.Net.Median.CI.Hi),
		"Best":         fmtRef(p, cur, r.Best),
		"Worst":        fmtRef(p, cur, r.Worst),
	}
	keys := []string{"Hunts", "Slots", "Total Stake", "Total Payout", "Net", "RTP", "Profitable", "Mean Net", "Mean 95% CI", "Std Net", "Median Net", "Best", "Worst"}
	return keys, basic
}

func (r *HuntReport) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	msg := make(map[string]string, len(r.Dist.MultBucket))
	for i, label := range r.Dist.MultBucket {
		msg[label] = p.Sprintf("%d (%.2f%%)", r.Dist.MultCollect[i], 100*r.Dist.MultDist[i])
	}
	return r.Dist.MultBucket, msg
}

func fmtRef(p *message.Printer, cur string, ref *HuntRef) string {
	if ref == nil {
		return "-"
	}
	return p.Sprintf("%s (%s%.2f)", ref.Name, cur, ref.Net)
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title) - 1
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
