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
	"math"
)

// AngleBucket 將落點角度 [0,360) 切成等寬區間，O(1) 定位。
type AngleBucket struct {
	width  float64
	labels []string
}

// Landing 預設的落點區間：每 30 度一格，共 12 格。
var Landing = NewAngleBucket(30)

// NewAngleBucket 以指定寬度（度）建立區間；寬度需整除 360，否則退回 30。
func NewAngleBucket(width int) *AngleBucket {
	if width <= 0 || 360%width != 0 {
		width = 30
	}
	n := 360 / width
	labels := make([]string, n)
	for i := range n {
		labels[i] = fmt.Sprintf("[%d,%d)", i*width, (i+1)*width)
	}
	return &AngleBucket{width: float64(width), labels: labels}
}

// Labels 回傳區間標籤，例如 "[0,30)"。
func (b *AngleBucket) Labels() []string {
	return b.labels
}

func (b *AngleBucket) Len() int {
	return len(b.labels)
}

// Index 回傳角度所屬區間；超出 [0,360) 的值先折回。
func (b *AngleBucket) Index(angle float64) int {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	idx := int(a / b.width)
	if idx >= len(b.labels) {
		idx = len(b.labels) - 1
	}
	return idx
}
