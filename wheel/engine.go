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

// Package wheel 實作遊戲轉盤：一圈均分的格子、隨機轉動結果與轉動中的忙碌旗標。
//
// 格子角度永遠滿足 angle[i] = i * (360 / n)，任何新增、刪除、重排之後都會重算。
// 格子 id 由單調遞增的計數器配發，刪除或重置後也不會重複使用。
package wheel

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/sdk/core"
)

const (
	DefaultSpinDuration = 3000
	MinSpinDuration     = 1000
	MaxSpinDuration     = 10000

	DefaultMinSpins = 3
	MinMinSpins     = 1
	MaxMinSpins     = 10

	// JitterDegrees 落點相對格子起始角的最大偏移（±）。
	JitterDegrees = 15.0
)

var (
	ErrWheelBusy       = errs.NewConflict("wheel is already spinning")
	ErrWheelFull       = errs.NewWarn(fmt.Sprintf("wheel already has %d segments", MaxSegments))
	ErrEmptyWheel      = errs.NewWarn("wheel has no segments")
	ErrSegmentNotFound = errs.NewNotFound("segment not found")
	ErrUnknownPreset   = errs.NewWarn("unknown wheel preset")
	ErrInvalidSegment  = errs.NewWarn("segment text and action are required")
)

// Engine 是轉盤狀態機（Idle / Spinning）。所有方法皆可併發呼叫。
//
// busy 與 mu 分離：轉動中的重入或重疊呼叫會立即被拒絕，而不是排隊等待 mu。
type Engine struct {
	mu           sync.Mutex
	busy         atomic.Bool
	segments     []Segment
	current      *Segment
	nextID       int
	spinDuration int
	minSpins     int
	seed         int64
	core         *core.Core
	log          *slog.Logger
}

// Option 調整 Engine 的建構參數。
type Option func(*options)

type options struct {
	specs        []Spec
	preset       string
	spinDuration int
	minSpins     int
	seed         int64
	rng          core.PRNG
	log          *slog.Logger
}

// WithSegments 以自訂格子取代預設組合。
func WithSegments(specs []Spec) Option {
	return func(o *options) { o.specs = specs }
}

// WithPreset 以指定預設組合初始化（WithSegments 優先）。
func WithPreset(name string) Option {
	return func(o *options) { o.preset = name }
}

func WithSpinDuration(ms int) Option {
	return func(o *options) { o.spinDuration = ms }
}

func WithMinSpins(n int) Option {
	return func(o *options) { o.minSpins = n }
}

// WithSeed 固定亂數種子；0 代表自動產生。
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithRNG 使用外部 PRNG（測試注入用），優先於 WithSeed。
func WithRNG(rng core.PRNG) Option {
	return func(o *options) { o.rng = rng }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// New 建立轉盤。未指定格子時使用 original 預設組合（11 格）。
func New(opts ...Option) (*Engine, error) {
	o := options{
		spinDuration: DefaultSpinDuration,
		minSpins:     DefaultMinSpins,
	}
	for _, opt := range opts {
		opt(&o)
	}

	specs := o.specs
	if len(specs) == 0 {
		name := o.preset
		if name == "" {
			name = PresetOriginal
		}
		p, ok := Preset(name)
		if !ok {
			return nil, ErrUnknownPreset.WithExtra(name)
		}
		specs = p
	}
	if len(specs) > MaxSegments {
		return nil, ErrWheelFull.WithExtra(fmt.Sprintf("got %d", len(specs)))
	}
	for i, s := range specs {
		if s.Text == "" || s.Action == "" {
			return nil, ErrInvalidSegment.WithExtra(fmt.Sprintf("segments[%d]", i))
		}
	}

	if o.seed == 0 {
		o.seed = core.RandomSeed()
	}
	rng := o.rng
	if rng == nil {
		rng = core.Default().New(o.seed)
	}
	log := o.log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		spinDuration: clamp(o.spinDuration, MinSpinDuration, MaxSpinDuration),
		minSpins:     clamp(o.minSpins, MinMinSpins, MaxMinSpins),
		seed:         o.seed,
		core:         core.New(rng),
		log:          log,
	}
	e.replace(specs)
	return e, nil
}

// Clone 複製目前的格子與設定，搭配新的種子產生獨立的轉盤（模擬用）。
// 複本的 current 為空，與原轉盤互不影響。
func (e *Engine) Clone(seed int64) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seed == 0 {
		seed = core.RandomSeed()
	}
	cp := &Engine{
		segments:     append([]Segment(nil), e.segments...),
		nextID:       e.nextID,
		spinDuration: e.spinDuration,
		minSpins:     e.minSpins,
		seed:         seed,
		core:         core.NewSeeded(seed),
		log:          e.log,
	}
	return cp
}

// Seed 回傳建立時使用的種子。
func (e *Engine) Seed() int64 {
	return e.seed
}

// Segments 回傳格子的值拷貝。
func (e *Engine) Segments() []Segment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Segment(nil), e.segments...)
}

// Len 回傳目前格數。
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.segments)
}

// Current 回傳最近一次轉動選中的格子；尚未轉動或重置後回傳 false。
func (e *Engine) Current() (Segment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Segment{}, false
	}
	return *e.current, true
}

// Spinning 回傳目前是否處於轉動中。
func (e *Engine) Spinning() bool {
	return e.busy.Load()
}

// AddSegment 在尾端新增一格並重算角度；color 省略時依位置取 Palette。
func (e *Engine) AddSegment(text, action string, color ...string) (Segment, error) {
	if strings.TrimSpace(text) == "" || strings.TrimSpace(action) == "" {
		return Segment{}, ErrInvalidSegment
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.segments) >= MaxSegments {
		return Segment{}, ErrWheelFull
	}
	c := ""
	if len(color) > 0 {
		c = strings.TrimSpace(color[0])
	}
	if c == "" {
		c = paletteColor(len(e.segments))
	}
	e.segments = append(e.segments, Segment{
		ID:     e.allocID(),
		Text:   text,
		Action: action,
		Color:  c,
	})
	e.recompute()
	e.log.Debug("wheel: segment added", slog.String("text", text), slog.Int("count", len(e.segments)))
	return e.segments[len(e.segments)-1], nil
}

// RemoveSegment 刪除第一個 id 相符的格子並重算角度。
//
// 被刪除的格子若是 current，current 仍保留（它描述的是上一次轉動的結果）。
func (e *Engine) RemoveSegment(id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.segments {
		if s.ID == id {
			e.segments = append(e.segments[:i], e.segments[i+1:]...)
			e.recompute()
			e.log.Debug("wheel: segment removed", slog.Int("id", id), slog.Int("count", len(e.segments)))
			return nil
		}
	}
	return ErrSegmentNotFound.WithExtra(fmt.Sprintf("id=%d", id))
}

// Spin 均勻抽出一格，計算落點並設為 current。
//
// 轉動中再次呼叫回傳 ErrWheelBusy，狀態不變；旗標在返回時一定會清除。
func (e *Engine) Spin() (SpinResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return SpinResult{}, ErrWheelBusy
	}
	defer e.busy.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.segments)
	if n == 0 {
		return SpinResult{}, ErrEmptyWheel
	}
	idx := e.core.IntN(n)
	if idx < 0 || idx >= n {
		return SpinResult{}, errs.Fatalf("rng returned index %d for %d segments", idx, n)
	}
	seg := e.segments[idx]
	final := normalize(seg.Angle + e.core.Uniform(-JitterDegrees, JitterDegrees))

	cur := seg
	e.current = &cur
	return SpinResult{
		Index:      idx,
		Segment:    seg,
		FinalAngle: final,
		Duration:   e.spinDuration,
		MinSpins:   e.minSpins,
		Rotation:   float64(e.minSpins)*360 + final,
		WinnerText: strings.ToUpper(seg.Text),
	}, nil
}

// SetSpinDuration 將毫秒數夾在 [1000, 10000] 後儲存並回傳實際值。
func (e *Engine) SetSpinDuration(ms int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spinDuration = clamp(ms, MinSpinDuration, MaxSpinDuration)
	return e.spinDuration
}

// SetMinSpins 將圈數夾在 [1, 10] 後儲存並回傳實際值。
func (e *Engine) SetMinSpins(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.minSpins = clamp(n, MinMinSpins, MaxMinSpins)
	return e.minSpins
}

// Stats 回傳轉盤摘要；Actions 為排序後的不重複 action。
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range e.segments {
		counts[s.Action]++
	}
	actions := make([]string, 0, len(counts))
	for a := range counts {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return Stats{
		TotalSegments: len(e.segments),
		Actions:       actions,
		ActionCounts:  counts,
		SpinDuration:  e.spinDuration,
		MinSpins:      e.minSpins,
		Spinning:      e.busy.Load(),
	}
}

// Reset 還原為內建 11 格並清除 current；轉動時間與圈數維持不變。
//
// 還原的格子會配發新的 id（計數器不回捲），重設前取得的 id 全部失效，
// 用戶端刪除格子前應重新讀取清單。
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replace(DefaultSegments())
	e.log.Debug("wheel: reset to defaults")
}

// LoadPreset 以指定預設組合取代所有格子並清除 current。
func (e *Engine) LoadPreset(name string) error {
	specs, ok := Preset(name)
	if !ok {
		return ErrUnknownPreset.WithExtra(name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.replace(specs)
	e.log.Debug("wheel: preset loaded", slog.String("preset", name), slog.Int("count", len(specs)))
	return nil
}

// Shuffle 以引擎的亂數重排格子順序並重算角度；id 不變。
func (e *Engine) Shuffle() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.core.Shuffle(len(e.segments), func(i, j int) {
		e.segments[i], e.segments[j] = e.segments[j], e.segments[i]
	})
	e.recompute()
}

// SegmentAt 回傳在給定轉角下位於指標處的格子，也就是起始角最接近該角度的那一格。
// 因為偏移量 ±15° 不超過半格（最多 12 格，每格 30°），Spin 的 FinalAngle 一定落回選中的格子。
func (e *Engine) SegmentAt(rotation float64) (Segment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.segments)
	if n == 0 || math.IsNaN(rotation) || math.IsInf(rotation, 0) {
		return Segment{}, false
	}
	step := 360.0 / float64(n)
	idx := int(math.Floor(normalize(rotation)/step+0.5)) % n
	return e.segments[idx], true
}

// ============================================================
// ** 內部方法（呼叫前必須持有 e.mu） **
// ============================================================

func (e *Engine) replace(specs []Spec) {
	segs := make([]Segment, 0, len(specs))
	for i, s := range specs {
		c := s.Color
		if c == "" {
			c = paletteColor(i)
		}
		segs = append(segs, Segment{
			ID:     e.allocID(),
			Text:   s.Text,
			Action: s.Action,
			Color:  c,
		})
	}
	e.segments = segs
	e.current = nil
	e.recompute()
}

func (e *Engine) allocID() int {
	id := e.nextID
	e.nextID++
	return id
}

func (e *Engine) recompute() {
	n := len(e.segments)
	if n == 0 {
		return
	}
	step := 360.0 / float64(n)
	for i := range e.segments {
		e.segments[i].Angle = float64(i) * step
	}
}

// normalize 將角度折回 [0, 360)。
func normalize(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
