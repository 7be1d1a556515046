package common

import (
	"unicode"
)

// EstimateTokens 估算文本token数量
// 简化版：中文等CJK字符按 1 字/词，其余按 4 字节/词（向上取整）
// 不依赖具体模型的tokenizer，结果是确定性的近似值
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	cjk := 0
	otherBytes := 0
	for _, r := range text {
		if unicode.Is(unicode.Han, r) ||
			unicode.Is(unicode.Hiragana, r) ||
			unicode.Is(unicode.Katakana, r) ||
			unicode.Is(unicode.Hangul, r) {
			cjk++
		} else {
			otherBytes += runeLen(r)
		}
	}

	return cjk + (otherBytes+3)/4
}

func runeLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}
