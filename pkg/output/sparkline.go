// Package output renders compact text views of sample series.
package output

import (
	"math"
	"strings"
)

// sparkline block characters from lowest to highest
var sparkBlocks = []rune{
	'\u2581', // ▁
	'\u2582', // ▂
	'\u2583', // ▃
	'\u2584', // ▄
	'\u2585', // ▅
	'\u2586', // ▆
	'\u2587', // ▇
	'\u2588', // █
}

// Sparkline renders values as Unicode blocks on the fixed scale [lo, hi].
// Values outside the scale are clamped; NaN renders as the lowest block.
func Sparkline(values []float64, lo, hi float64) string {
	if len(values) == 0 {
		return ""
	}

	var b strings.Builder
	rng := hi - lo
	for _, v := range values {
		idx := 0
		if rng > 0 && !math.IsNaN(v) {
			idx = int(math.Round((v - lo) / rng * float64(len(sparkBlocks)-1)))
		}
		if idx >= len(sparkBlocks) {
			idx = len(sparkBlocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(sparkBlocks[idx])
	}

	return b.String()
}

// Utilization renders a [0,1] utilization series.
func Utilization(values []float64) string {
	return Sparkline(values, 0, 1)
}
