package util

import (
	"fmt"
	"math"
	"strings"
)

// DarkenColor 将 #rrggbb 每个通道减去 round(2.55·percent)，下限0。
// percent=0 时恒等返回。非法输入原样返回，不做猜测。
func DarkenColor(hex string, percent float64) string {
	raw := strings.TrimPrefix(hex, "#")
	if len(raw) != 6 {
		return hex
	}

	var r, g, b int
	if _, err := fmt.Sscanf(raw, "%02x%02x%02x", &r, &g, &b); err != nil {
		return hex
	}

	delta := int(math.Round(2.55 * percent))
	r = clampChannel(r - delta)
	g = clampChannel(g - delta)
	b = clampChannel(b - delta)

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
