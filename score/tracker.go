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

// Package score 維護固定名單的玩家分數，並在每次變更後寫回持久化儲存。
//
// 名單（roster）在建立時決定，執行期間不可變更；玩家以 0 起算的索引定址。
// 持久化錯誤只記錄不上拋：分數以記憶體為準，存檔失敗不影響本次操作結果。
package score

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/zintix-labs/gameshow/errs"
)

const (
	// WinnerTie 兩位以上玩家同分最高時 Winner 的回傳值。
	WinnerTie = "Tie"
	// NoWinner 名單為空時 Winner 的回傳值。
	NoWinner = ""
)

var (
	ErrPlayerIndex = errs.NewWarn("player index out of range")
	ErrRoster      = errs.NewFatal("invalid roster")
)

// Board 是某一時間點的完整計分板快照。
type Board struct {
	Players []string       `json:"players"`
	Scores  map[string]int `json:"scores"`
	Winner  string         `json:"winner"`
}

// Tracker 持有名單與分數表。所有方法皆可併發呼叫。
type Tracker struct {
	mu      sync.Mutex
	players []string
	scores  map[string]int
	store   Store
	log     *slog.Logger
}

// Option 調整 Tracker 的建構參數。
type Option func(*Tracker)

// WithStore 指定持久化儲存；未指定時分數只存在記憶體。
func WithStore(s Store) Option {
	return func(t *Tracker) { t.store = s }
}

// WithLogger 指定 logger；未指定時不輸出任何 log。
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// NewTracker 以名單建立 Tracker，並嘗試從 store 載入既有分數。
//
// 載入時只採用目前名單內的名字，其餘（舊名單殘留）直接丟棄；
// 讀檔或解析失敗會記錄 Warn 並從全部 0 分開始。
func NewTracker(players []string, opts ...Option) (*Tracker, error) {
	seen := make(map[string]struct{}, len(players))
	for i, p := range players {
		if strings.TrimSpace(p) == "" {
			return nil, ErrRoster.WithExtra(fmt.Sprintf("roster[%d] is empty", i))
		}
		if _, ok := seen[p]; ok {
			return nil, ErrRoster.WithExtra(fmt.Sprintf("duplicate player %q", p))
		}
		seen[p] = struct{}{}
	}

	t := &Tracker{
		players: slices.Clone(players),
		scores:  zeroScores(players),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.load()
	return t, nil
}

// Players 回傳名單副本。
func (t *Tracker) Players() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.players)
}

// Scores 回傳分數表副本。
func (t *Tracker) Scores() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return maps.Clone(t.scores)
}

// PlayerScore 回傳指定玩家分數；索引超出範圍回傳 ErrPlayerIndex。
func (t *Tracker) PlayerScore(idx int) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, err := t.nameAt(idx)
	if err != nil {
		return 0, err
	}
	return t.scores[name], nil
}

// UpdateScore 將 delta（可為負）加到指定玩家並存檔。
func (t *Tracker) UpdateScore(idx int, delta int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, err := t.nameAt(idx)
	if err != nil {
		return err
	}
	t.scores[name] += delta
	t.save()
	return nil
}

// SetScore 直接覆寫指定玩家分數並存檔。
func (t *Tracker) SetScore(idx int, value int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	name, err := t.nameAt(idx)
	if err != nil {
		return err
	}
	t.scores[name] = value
	t.save()
	return nil
}

// ResetScores 將所有人歸零並存檔。
func (t *Tracker) ResetScores() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scores = zeroScores(t.players)
	t.save()
}

// Winner 回傳唯一最高分的玩家；同分最高回傳 WinnerTie，名單為空回傳 NoWinner。
func (t *Tracker) Winner() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.winner()
}

// Board 在同一把鎖內取得名單、分數與勝者。
func (t *Tracker) Board() Board {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Board{
		Players: slices.Clone(t.players),
		Scores:  maps.Clone(t.scores),
		Winner:  t.winner(),
	}
}

// ============================================================
// ** 內部方法 **
// ============================================================

func (t *Tracker) nameAt(idx int) (string, error) {
	if idx < 0 || idx >= len(t.players) {
		return "", ErrPlayerIndex.WithExtra(fmt.Sprintf("index=%d players=%d", idx, len(t.players)))
	}
	return t.players[idx], nil
}

// winner 依名單順序掃描，結果與 map 迭代順序無關。
func (t *Tracker) winner() string {
	if len(t.players) == 0 {
		return NoWinner
	}
	best := t.players[0]
	top := t.scores[best]
	count := 1
	for _, p := range t.players[1:] {
		switch s := t.scores[p]; {
		case s > top:
			best, top, count = p, s, 1
		case s == top:
			count++
		}
	}
	if count > 1 {
		return WinnerTie
	}
	return best
}

func (t *Tracker) load() {
	if t.store == nil {
		return
	}
	loaded, err := t.store.Load()
	if err != nil {
		t.log.Warn("score: load failed, starting from zero", slog.Any("err", err))
		return
	}
	for _, p := range t.players {
		if v, ok := loaded[p]; ok {
			t.scores[p] = v
		}
	}
	t.log.Debug("score: loaded", slog.Int("players", len(t.players)))
}

// save 呼叫前必須持有 t.mu。
func (t *Tracker) save() {
	if t.store == nil {
		return
	}
	if err := t.store.Save(maps.Clone(t.scores)); err != nil {
		t.log.Error("score: save failed", slog.Any("err", err))
	}
}

func zeroScores(players []string) map[string]int {
	m := make(map[string]int, len(players))
	for _, p := range players {
		m[p] = 0
	}
	return m
}
