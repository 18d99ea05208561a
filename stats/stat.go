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

// Package stats 將轉盤模擬的計數整理成報表：各格命中率、信賴區間、落點分布與均勻性檢定。
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang language.Tag = language.English

// DefaultAlpha 均勻性檢定的顯著水準。
const DefaultAlpha = 0.001

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// SpinReport 轉盤模擬統計報告
type SpinReport struct {
	Summary    *SummaryReport    `json:"Summary"`
	Segments   []*SegmentReport  `json:"Segments"`
	Actions    []*ActionReport   `json:"Actions"`
	Landing    *LandingReport    `json:"Landing"`
	Uniformity *UniformityReport `json:"Uniformity"`
	isDone     bool
}

type SummaryReport struct {
	Label        string  `json:"Label"`
	Seed         int64   `json:"Seed"`
	Workers      int     `json:"Workers"`
	Rounds       int     `json:"Rounds"`
	SegmentCount int     `json:"SegmentCount"`
	MaxDeviation float64 `json:"MaxDeviation"` // 各格命中率與理論值的最大絕對差
}

// SegmentReport 單一格子的命中統計
//
// 紀錄時只填 Hits，其餘欄位由 Done() 計算
type SegmentReport struct {
	ID       int     `json:"ID"`
	Text     string  `json:"Text"`
	Action   string  `json:"Action"`
	Hits     int     `json:"Hits"`
	Freq     float64 `json:"Freq"`
	Expected float64 `json:"Expected"`
	FreqCI   CI      `json:"FreqCI"`
}

// ActionReport 依 action 聚合的命中統計
type ActionReport struct {
	Action   string  `json:"Action"`
	Segments int     `json:"Segments"`
	Hits     int     `json:"Hits"`
	Freq     float64 `json:"Freq"`
	Expected float64 `json:"Expected"`
}

// LandingReport 落點角度分布
type LandingReport struct {
	Bucket  []string  `json:"Bucket"`
	Collect []int     `json:"Collect"`
	Dist    []float64 `json:"Dist"`
}

// UniformityReport 各格命中數的卡方均勻性檢定
type UniformityReport struct {
	ChiSquare float64 `json:"ChiSquare"`
	DoF       int     `json:"DoF"`
	PValue    float64 `json:"PValue"`
	Alpha     float64 `json:"Alpha"`
	Uniform   bool    `json:"Uniform"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 將累積計數轉換為最終統計結果並鎖定 isDone 標記。
//
// 模擬過程只處理 int 計數，完成後呼叫 Done 一次性計算命中率、信賴區間與檢定。
func (s *SpinReport) Done() {
	if s.isDone {
		return
	}
	rounds := s.Summary.Rounds
	n := len(s.Segments)
	s.Summary.SegmentCount = n

	expected := 0.0
	if n > 0 {
		expected = 1.0 / float64(n)
	}
	hits := make([]int, n)
	maxDev := 0.0
	for i, seg := range s.Segments {
		hits[i] = seg.Hits
		seg.Freq, seg.FreqCI = proportionCICP(seg.Hits, rounds, 0.95)
		seg.Expected = expected
		if rounds > 0 {
			maxDev = max(maxDev, math.Abs(seg.Freq-expected))
		}
	}
	s.Summary.MaxDeviation = maxDev
	s.Actions = aggregateActions(s.Segments, rounds)

	if s.Landing != nil {
		s.Landing.Dist = make([]float64, len(s.Landing.Collect))
		if rounds > 0 {
			for i, c := range s.Landing.Collect {
				s.Landing.Dist[i] = float64(c) / float64(rounds)
			}
		}
	}

	if s.Uniformity == nil {
		s.Uniformity = &UniformityReport{Alpha: DefaultAlpha}
	}
	if s.Uniformity.Alpha <= 0 {
		s.Uniformity.Alpha = DefaultAlpha
	}
	u := s.Uniformity
	u.ChiSquare, u.DoF, u.PValue = chiSquareUniform(hits)
	u.Uniform = u.PValue >= u.Alpha

	s.isDone = true
}

func (s *SpinReport) WriteWith(w io.Writer, rep StatReportRender) error {
	s.Done()
	return rep.Write(w, s)
}

// StdOut 以表格輸出摘要與各格命中率。
func (s *SpinReport) StdOut(ut time.Duration) {
	s.Done()
	formatDuration(ut, s.Summary.Rounds)
	sk, sm := s.fmtBasic()
	fmt.Println(fmtTable(s.Summary.Label, sk, sm))
	gk, gm := s.fmtSegments()
	fmt.Println(fmtTable("Segments", gk, gm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func aggregateActions(segs []*SegmentReport, rounds int) []*ActionReport {
	idx := make(map[string]*ActionReport)
	out := make([]*ActionReport, 0)
	for _, seg := range segs {
		a, ok := idx[seg.Action]
		if !ok {
			a = &ActionReport{Action: seg.Action}
			idx[seg.Action] = a
			out = append(out, a)
		}
		a.Segments++
		a.Hits += seg.Hits
	}
	n := float64(len(segs))
	for _, a := range out {
		if rounds > 0 {
			a.Freq = float64(a.Hits) / float64(rounds)
		}
		if n > 0 {
			a.Expected = float64(a.Segments) / n
		}
	}
	return out
}

func formatDuration(d time.Duration, spins int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int(float64(spins) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nsps : %d spins/sec\n", sec, sps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nsps : %d spins/sec\n", m, s, sps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nsps : %d spins/sec\n", h, m, s, sps)
}

func (s *SpinReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	u := s.Uniformity
	verdict := "uniform"
	if !u.Uniform {
		verdict = "NOT uniform"
	}
	basic := map[string]string{
		"Seed":          fmt.Sprintf("%d", s.Summary.Seed),
		"Workers":       p.Sprintf("%d", s.Summary.Workers),
		"Total Rounds":  p.Sprintf("%d", s.Summary.Rounds),
		"Segments":      p.Sprintf("%d", s.Summary.SegmentCount),
		"Max Deviation": p.Sprintf("%.3f %%", 100.0*s.Summary.MaxDeviation),
		"Chi-Square":    p.Sprintf("%.3f (dof %d)", u.ChiSquare, u.DoF),
		"P-Value":       p.Sprintf("%.4f", u.PValue),
		"Verdict":       p.Sprintf("%s (alpha %.3f)", verdict, u.Alpha),
	}
	keys := []string{"Seed", "Workers", "Total Rounds", "Segments", "Max Deviation", "Chi-Square", "P-Value", "Verdict"}
	return keys, basic
}

func (s *SpinReport) fmtSegments() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	keys := make([]string, 0, len(s.Segments))
	msg := make(map[string]string, len(s.Segments))
	for _, seg := range s.Segments {
		k := fmt.Sprintf("#%d %s", seg.ID, seg.Text)
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d  %.2f%% [%.2f%%,%.2f%%]", seg.Hits, 100*seg.Freq, 100*seg.FreqCI.Lo, 100*seg.FreqCI.Hi)
	}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := runewidth.StringWidth(title)
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

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
