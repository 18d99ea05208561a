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

// Package gameshow 是節目後台的「組裝入口（assembler）」：
// 依 spec.ShowSetting 建立計分板（score.Tracker）與轉盤（wheel.Engine），
// 並在每次狀態變更後記錄指標、發佈事件。
//
// Tracker 與 Engine 彼此獨立；Show 只負責把兩者與周邊設施（events / metrics / log）接在一起，
// HTTP 與 CLI 都只透過 Show 操作狀態。
package gameshow

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zintix-labs/gameshow/events"
	"github.com/zintix-labs/gameshow/metrics"
	"github.com/zintix-labs/gameshow/score"
	"github.com/zintix-labs/gameshow/spec"
	"github.com/zintix-labs/gameshow/stats"
	"github.com/zintix-labs/gameshow/wheel"
)

// Show 持有一場節目的全部狀態。
type Show struct {
	setting *spec.ShowSetting
	tracker *score.Tracker
	wheel   *wheel.Engine
	bus     *events.Bus
	metrics *metrics.Metrics
	log     *slog.Logger
	store   score.Store

	// feedMu 讓「變更、取快照、發佈」成為一步，事件順序才會跟狀態變更順序一致。
	// Spin 不持有它，重疊的轉動照樣以 ErrWheelBusy 拒絕。
	feedMu sync.Mutex
}

// Option 調整 Show 的組裝。
type Option func(*Show)

func WithLogger(l *slog.Logger) Option {
	return func(s *Show) { s.log = l }
}

// WithBus 指定事件匯流排；未指定時不發佈事件。
func WithBus(b *events.Bus) Option {
	return func(s *Show) { s.bus = b }
}

// WithMetrics 指定指標收集器；未指定時不記錄。
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Show) { s.metrics = m }
}

// WithStore 覆寫分數儲存；未指定時使用 setting.ScoreFile 的 FileStore。
// 傳入 nil 代表不持久化。
func WithStore(st score.Store) Option {
	return func(s *Show) { s.store = st }
}

// New 依設定組裝一場節目。ss 為 nil 時使用內建預設設定。
func New(ss *spec.ShowSetting, opts ...Option) (*Show, error) {
	if ss == nil {
		def, err := spec.Default()
		if err != nil {
			return nil, err
		}
		ss = def
	}
	s := &Show{setting: ss.Clone(), store: score.NewFileStore(ss.ScoreFile)}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}

	trackerOpts := []score.Option{score.WithLogger(s.log)}
	if s.store != nil {
		trackerOpts = append(trackerOpts, score.WithStore(s.store))
	}
	tr, err := score.NewTracker(s.setting.Roster, trackerOpts...)
	if err != nil {
		return nil, err
	}

	w := s.setting.Wheel
	wheelOpts := []wheel.Option{
		wheel.WithSeed(w.Seed),
		wheel.WithLogger(s.log),
	}
	if w.SpinDuration != nil {
		wheelOpts = append(wheelOpts, wheel.WithSpinDuration(*w.SpinDuration))
	}
	if w.MinSpins != nil {
		wheelOpts = append(wheelOpts, wheel.WithMinSpins(*w.MinSpins))
	}
	if len(w.Segments) > 0 {
		specs := make([]wheel.Spec, len(w.Segments))
		for i, seg := range w.Segments {
			specs[i] = wheel.Spec{Text: seg.Text, Action: seg.Action, Color: seg.Color}
		}
		wheelOpts = append(wheelOpts, wheel.WithSegments(specs))
	} else {
		wheelOpts = append(wheelOpts, wheel.WithPreset(w.Preset))
	}
	eng, err := wheel.New(wheelOpts...)
	if err != nil {
		return nil, err
	}

	s.tracker = tr
	s.wheel = eng
	s.metrics.Segments(eng.Len())
	s.log.Info("gameshow: show ready",
		slog.Int("players", len(s.setting.Roster)),
		slog.Int("segments", eng.Len()),
		slog.Int64("seed", eng.Seed()),
	)
	return s, nil
}

func (s *Show) Setting() *spec.ShowSetting { return s.setting.Clone() }
func (s *Show) Tracker() *score.Tracker    { return s.tracker }
func (s *Show) Wheel() *wheel.Engine       { return s.wheel }
func (s *Show) Bus() *events.Bus           { return s.bus }
func (s *Show) Metrics() *metrics.Metrics  { return s.metrics }

// ============================================================
// ** 計分板 **
// ============================================================

// Board 回傳目前計分板快照。
func (s *Show) Board() score.Board {
	return s.tracker.Board()
}

// PlayerScore 回傳指定玩家分數。
func (s *Show) PlayerScore(idx int) (string, int, error) {
	v, err := s.tracker.PlayerScore(idx)
	if err != nil {
		return "", 0, err
	}
	return s.tracker.Players()[idx], v, nil
}

// UpdateScore 加減分並回傳最新計分板。
func (s *Show) UpdateScore(idx, delta int) (score.Board, error) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	err := s.tracker.UpdateScore(idx, delta)
	return s.afterScore("update", err)
}

// SetScore 直接設定分數並回傳最新計分板。
func (s *Show) SetScore(idx, value int) (score.Board, error) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	err := s.tracker.SetScore(idx, value)
	return s.afterScore("set", err)
}

// ResetScores 全部歸零並回傳最新計分板。
func (s *Show) ResetScores() score.Board {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.tracker.ResetScores()
	b, _ := s.afterScore("reset", nil)
	return b
}

// afterScore 呼叫前必須持有 s.feedMu。
func (s *Show) afterScore(op string, err error) (score.Board, error) {
	s.metrics.ScoreOp(op, err)
	if err != nil {
		return score.Board{}, err
	}
	b := s.tracker.Board()
	s.publish(events.TypeScoreUpdated, b)
	return b, nil
}

// ============================================================
// ** 轉盤 **
// ============================================================

// WheelState 是轉盤變動事件與查詢共用的快照。
type WheelState struct {
	Segments []wheel.Segment `json:"segments"`
	Current  *wheel.Segment  `json:"current_segment"`
	Stats    wheel.Stats     `json:"stats"`
}

// WheelState 回傳目前轉盤快照。
func (s *Show) WheelState() WheelState {
	st := WheelState{
		Segments: s.wheel.Segments(),
		Stats:    s.wheel.Stats(),
	}
	if cur, ok := s.wheel.Current(); ok {
		st.Current = &cur
	}
	return st
}

// Spin 轉動轉盤並為結果配發唯一 ID。
func (s *Show) Spin() (wheel.SpinResult, error) {
	res, err := s.wheel.Spin()
	if err != nil {
		if errors.Is(err, wheel.ErrWheelBusy) {
			s.metrics.BusyRejected()
		}
		return wheel.SpinResult{}, err
	}
	res.ID = uuid.NewString()
	s.metrics.Spin(res.Segment.Action)
	s.log.Debug("gameshow: spin",
		slog.String("id", res.ID),
		slog.Int("segment", res.Segment.ID),
		slog.String("action", res.Segment.Action),
		slog.Float64("final_angle", res.FinalAngle),
	)
	s.publish(events.TypeWheelSpun, res)
	return res, nil
}

// AddSegment 新增一格。
func (s *Show) AddSegment(text, action, color string) (wheel.Segment, error) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	seg, err := s.wheel.AddSegment(text, action, color)
	if err != nil {
		return wheel.Segment{}, err
	}
	s.wheelChanged("add")
	return seg, nil
}

// RemoveSegment 依 id 刪除一格。
func (s *Show) RemoveSegment(id int) error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if err := s.wheel.RemoveSegment(id); err != nil {
		return err
	}
	s.wheelChanged("remove")
	return nil
}

// Configure 設定轉動時間與最少圈數；nil 代表不變。回傳實際儲存的值。
func (s *Show) Configure(spinDuration, minSpins *int) (int, int) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if spinDuration != nil {
		s.wheel.SetSpinDuration(*spinDuration)
	}
	if minSpins != nil {
		s.wheel.SetMinSpins(*minSpins)
	}
	st := s.wheel.Stats()
	s.wheelChanged("config")
	return st.SpinDuration, st.MinSpins
}

// ResetWheel 還原內建 11 格。
func (s *Show) ResetWheel() {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.wheel.Reset()
	s.wheelChanged("reset")
}

// LoadPreset 套用預設組合。
func (s *Show) LoadPreset(name string) error {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	if err := s.wheel.LoadPreset(name); err != nil {
		return err
	}
	s.wheelChanged("preset")
	return nil
}

// Shuffle 重排格子順序。
func (s *Show) Shuffle() {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	s.wheel.Shuffle()
	s.wheelChanged("shuffle")
}

// Simulate 在轉盤複本上模擬 rounds*workers 次轉動；不影響現場轉盤。
func (s *Show) Simulate(rounds, workers int, seed int64, showpb bool) (*stats.SpinReport, time.Duration, error) {
	sim, err := NewSimulator("Wheel Simulation", s.wheel, seed)
	if err != nil {
		return nil, 0, err
	}
	var (
		rep  *stats.SpinReport
		used time.Duration
	)
	if workers <= 1 {
		rep, used, err = sim.Sim(rounds, showpb)
	} else {
		rep, used, err = sim.SimMP(rounds, workers, showpb)
	}
	if err != nil {
		return nil, 0, err
	}
	s.metrics.Simulated(rep.Summary.Rounds)
	s.log.Info("gameshow: simulation done",
		slog.Int("rounds", rep.Summary.Rounds),
		slog.Int64("seed", rep.Summary.Seed),
		slog.Float64("p_value", rep.Uniformity.PValue),
		slog.Duration("used", used),
	)
	return rep, used, nil
}

// Close 關閉事件匯流排。
func (s *Show) Close() error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Close()
}

// wheelChanged 呼叫前必須持有 s.feedMu。
func (s *Show) wheelChanged(reason string) {
	s.metrics.Segments(s.wheel.Len())
	st := s.WheelState()
	s.publish(events.TypeWheelChanged, struct {
		Reason string `json:"reason"`
		WheelState
	}{reason, st})
}

func (s *Show) publish(typ string, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(typ, payload); err != nil {
		s.log.Warn("gameshow: publish event failed", slog.String("type", typ), slog.Any("err", err))
	}
}
