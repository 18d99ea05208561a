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

// Package core 提供轉盤使用的亂數核心。
//
// 所有抽樣（選中哪一格、落點偏移、洗牌）都經過 Core，
// 因此只要給定 seed，同一組操作序列就能完整重現（模擬 / 測試 / 事後稽核）。
package core

import (
	"crypto/rand"
	"math"
	"math/big"
)

// PRNG 定義 Core 所需的亂數來源，需同時支援取樣與狀態保存/還原。
type PRNG interface {
	RAND
	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原 PRNG 內部狀態。
	Restore([]byte) error
}

// RAND 定義核心亂數取樣能力。
//
// IntN / Float64 交由 PRNG 自行實作，讓每個實作選擇最合適的 bounded 策略與浮點精度。
type RAND interface {
	// Uint64 回傳非負 uint64 亂數。
	Uint64() uint64
	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64
	// IntN 回傳 [0,max) 的 int 亂數，若 max <= 0 回傳 -1。
	IntN(int) int
}

// PRNGFactory 以 seed 建立 PRNG。
//
// 合約：同一個實作下，New(seed) 必須是決定性的——相同 seed 產生相同輸出序列。
type PRNGFactory interface {
	New(int64) PRNG
}

// DefaultPRNG 實作預設的 PRNGFactory（PCG64）。
type DefaultPRNG struct{}

// New 滿足合約
func (d *DefaultPRNG) New(seed int64) PRNG {
	return NewPCG64WithSeed(seed)
}

func Default() *DefaultPRNG {
	return &DefaultPRNG{}
}

// RandomSeed 以 crypto/rand 產生非負 int64 seed。
// 取不到系統亂數時退回固定值 1，呼叫端仍可運作（只是失去不可預測性）。
func RandomSeed() int64 {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 1
	}
	return seed.Int64()
}

// Core 封裝 PRNG，並提供轉盤常用的取樣方法。
type Core struct {
	PRNG
}

// New 允許使用外部自實現的 PRNG 建立 Core。
func New(rng PRNG) *Core {
	return &Core{rng}
}

// NewSeeded 以預設 PCG64 與指定 seed 建立 Core。
func NewSeeded(seed int64) *Core {
	return New(Default().New(seed))
}

// Uniform 回傳 [lo,hi) 的均勻浮點亂數；lo >= hi 時回傳 lo。
func (c *Core) Uniform(lo, hi float64) float64 {
	if lo >= hi {
		return lo
	}
	return lo + (hi-lo)*c.Float64()
}

// Shuffle 以 Fisher-Yates 就地重排長度為 n 的序列，交換動作由 swap 完成。
// 所有 n! 種排列機率相同，時間 O(n)、零配置。
func (c *Core) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := c.IntN(i + 1)
		swap(i, j)
	}
}
