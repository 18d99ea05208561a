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

package gameshow

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/gameshow/errs"
	"github.com/zintix-labs/gameshow/recorder"
	"github.com/zintix-labs/gameshow/sdk/core"
	"github.com/zintix-labs/gameshow/stats"
	"github.com/zintix-labs/gameshow/wheel"
)

const capPrepare int = 16

// MaxSimRounds 單次模擬（所有 worker 合計）的轉動上限。
const MaxSimRounds = 10_000_000

// Simulator 在轉盤的獨立複本上大量轉動並統計各格命中率。
// 格子組成在建立時固定，之後原轉盤的任何變動（含 current 與忙碌旗標）都互不影響。
type Simulator struct {
	Label     string
	initSeed  int64                    // 初始下的種子
	seedmaker *seedMaker               // 種子生成器
	eBuf      []*wheel.Engine          // 併發執行的轉盤複本
	rBuf      []*recorder.SpinRecorder // 併發紀錄員
}

// NewSimulator 以 base 目前的格子建立模擬器；seed 為 0 時自動產生。
func NewSimulator(label string, base *wheel.Engine, seed int64) (*Simulator, error) {
	if base == nil {
		return nil, errs.NewFatal("simulator needs a wheel")
	}
	if base.Len() == 0 {
		return nil, wheel.ErrEmptyWheel
	}
	if seed == 0 {
		seed = core.RandomSeed()
	}
	s := &Simulator{
		Label:     label,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		eBuf:      make([]*wheel.Engine, 1, capPrepare),
		rBuf:      make([]*recorder.SpinRecorder, 0, capPrepare),
	}
	s.eBuf[0] = base.Clone(seed)
	return s, nil
}

// Seed 回傳初始種子；同一份格子與種子的 Sim 結果可完整重現。
func (s *Simulator) Seed() int64 {
	return s.initSeed
}

// Sim 單線模擬：以一台轉盤連續轉 rounds 次並回傳統計結果與用時
func (s *Simulator) Sim(rounds int, showpb bool) (*stats.SpinReport, time.Duration, error) {
	defer s.reset()
	if rounds < 1 || rounds > MaxSimRounds {
		return nil, 0, errs.Warnf("rounds must be in [1, %d]", MaxSimRounds)
	}
	e := s.eBuf[0]
	r, err := recorder.NewSpinRecorder(s.Label, s.initSeed, e.Segments())
	if err != nil {
		return nil, 0, err
	}
	s.rBuf = append(s.rBuf, r)

	bar := newBar(rounds, showpb)
	for i := 0; i < rounds; i++ {
		res, err := e.Spin()
		if err != nil {
			bar.Finish()
			return nil, 0, err
		}
		if err := r.Record(res); err != nil {
			bar.Finish()
			return nil, 0, err
		}
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	return r.Done(), used, nil
}

// SimMP 平行執行 mp 台轉盤複本，總計 rounds*mp 次轉動，合併統計結果後回傳結果與用時
func (s *Simulator) SimMP(rounds int, mp int, showpb bool) (*stats.SpinReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if rounds < 1 || rounds*mp > MaxSimRounds {
		return nil, 0, errs.Warnf("rounds*workers must be in [1, %d]", MaxSimRounds)
	}
	for len(s.eBuf) < mp {
		s.eBuf = append(s.eBuf, s.eBuf[0].Clone(s.seedmaker.next()))
	}
	segs := s.eBuf[0].Segments()
	for len(s.rBuf) < mp {
		r, err := recorder.NewSpinRecorder(s.Label, s.initSeed, segs)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	errCh := make(chan error, mp)
	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := newBar(rounds*mp, showpb)
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			e := s.eBuf[i]
			rec := s.rBuf[i]
			for r := 0; r < rounds; r++ {
				res, err := e.Spin()
				if err == nil {
					err = rec.Record(res)
				}
				if err != nil {
					errCh <- err
					return
				}
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, 0, err
	}

	merged, err := recorder.MergeSpinRecorder(s.rBuf[:mp])
	if err != nil {
		return nil, 0, err
	}
	return merged.Done(), used, nil
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
}

func newBar(total int, show bool) *pb.ProgressBar {
	bar := pb.New(total)
	if !show {
		bar.SetWriter(io.Discard)
	}
	return bar.Start()
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以全週期 LCG 推進 state，再用可逆 mix63 打散。
//
// 可能被多個 goroutine 同時呼叫，state 以 CAS 迴圈推進，每次呼叫取得唯一的下一個值。
// 回傳值可能為 0，呼叫端（Clone）會把 0 視為「自動產生」，此情況機率 2^-63 可忽略。
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
