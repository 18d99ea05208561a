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
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
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

// chiSquareUniform 對「每格機率相同」做 Pearson 卡方檢定，回傳統計量、自由度與 p 值。
// 少於兩格或沒有樣本時無法檢定，回傳 (0, 0, 1)。
func chiSquareUniform(obs []int) (chi2 float64, dof int, p float64) {
	n := len(obs)
	total := 0
	for _, v := range obs {
		total += v
	}
	if n < 2 || total == 0 {
		return 0, 0, 1
	}
	o := make([]float64, n)
	e := make([]float64, n)
	exp := float64(total) / float64(n)
	for i, v := range obs {
		o[i] = float64(v)
		e[i] = exp
	}
	chi2 = stat.ChiSquare(o, e)
	dof = n - 1
	p = distuv.ChiSquared{K: float64(dof)}.Survival(chi2)
	return chi2, dof, p
}
