package util

import (
	"strconv"
)

// ParseFloatDefault 将字符串转换为浮点数，解析失败或非正时返回默认值
func ParseFloatDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
