package service

import (
	"math"
	"strconv"
	"strings"
)

func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// ParseAmount 解析用户输入的金额，无法解析、负数、NaN/Inf 一律视为 0
func ParseAmount(s string) float64 {
	v, err := StringToFloat(strings.TrimSpace(s))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseDays 解析图表时间范围按钮上报的天数
func ParseDays(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
