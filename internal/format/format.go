// Package format 把数值转换为 en-US 本地化的展示字符串
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder 用于缺失或为 0 的数值
const Placeholder = "---"

var (
	printer  = message.NewPrinter(language.AmericanEnglish)
	suffixes = []string{"", "K", "M", "B", "T"}
)

func missing(v float64) bool {
	return v == 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return ""
}

// Currency 标准美元格式，固定两位小数，例如 3000 -> "$3,000.00"
func Currency(v float64) string {
	if missing(v) {
		return Placeholder
	}
	return sign(v) + "$" + printer.Sprintf("%.2f", math.Abs(v))
}

// CurrencyCompact 紧凑美元格式，最多两位小数，例如 1.5e12 -> "$1.5T"
func CurrencyCompact(v float64) string {
	if missing(v) {
		return Placeholder
	}
	return sign(v) + "$" + compact(math.Abs(v), func(scaled float64) float64 {
		return roundTo(scaled, 2)
	})
}

// Compact 紧凑数字格式：小于 100 的缩放值保留两位有效数字，否则取整
// 例如 19654321 -> "20M"，1234567 -> "1.2M"
func Compact(v float64) string {
	if missing(v) {
		return Placeholder
	}
	return sign(v) + compact(math.Abs(v), func(scaled float64) float64 {
		if scaled >= 100 {
			return math.Round(scaled)
		}
		return roundSignificant(scaled, 2)
	})
}

// Percent 百分比幅度 (取绝对值)，两位小数，例如 -2.5 -> "2.50%"
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", math.Abs(v))
}

// Direction 涨跌方向指示，非负为 "up"
func Direction(v float64) string {
	if v >= 0 {
		return "up"
	}
	return "down"
}

// Tone 涨跌配色 class，非负为 "green"
func Tone(v float64) string {
	if v >= 0 {
		return "green"
	}
	return "red"
}

// Rank 市值排名，例如 "#2"
func Rank(rank int) string {
	if rank <= 0 {
		return Placeholder
	}
	return "#" + strconv.Itoa(rank)
}

// Supply 流通量加币种代号，例如 "120M ETH"
func Supply(v float64, symbol string) string {
	return Compact(v) + " " + strings.ToUpper(symbol)
}

func compact(v float64, round func(float64) float64) string {
	i := 0
	for v >= 1000 && i < len(suffixes)-1 {
		v /= 1000
		i++
	}
	r := round(v)
	// 进位后可能到达下一个量级，例如 999.96K -> 1M
	if r >= 1000 && i < len(suffixes)-1 {
		r = round(r / 1000)
		i++
	}
	return group(r) + suffixes[i]
}

// group 以最短表示输出，同时保留千分位
func group(v float64) string {
	shortest := strconv.FormatFloat(v, 'f', -1, 64)
	digits := 0
	if dot := strings.IndexByte(shortest, '.'); dot >= 0 {
		digits = len(shortest) - dot - 1
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", digits), v)
}

func roundTo(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}

func roundSignificant(v float64, n int) float64 {
	if v == 0 {
		return 0
	}
	magnitude := int(math.Floor(math.Log10(v))) + 1
	return roundTo(v, n-magnitude)
}
