package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{
			name:     "空字符串",
			input:    "",
			expected: 0,
		},
		{
			name:     "纯ASCII 4字节整除",
			input:    "abcdefgh",
			expected: 2,
		},
		{
			name:     "纯ASCII 向上取整",
			input:    "abcde",
			expected: 2,
		},
		{
			name:     "单个字符",
			input:    "a",
			expected: 1,
		},
		{
			name:     "纯中文按字计",
			input:    "你好世界",
			expected: 4,
		},
		{
			name:     "日文假名按字计",
			input:    "こんにちは",
			expected: 5,
		},
		{
			name:     "中英混合",
			input:    "hello 世界", // 6字节ASCII=2 + 2汉字
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateTokens(tt.input), "input: %q", tt.input)
		})
	}
}

func TestEstimateTokensScalesLinearly(t *testing.T) {
	// 400个ASCII字符应该是100个token，打包预算计算依赖这一点
	assert.Equal(t, 100, EstimateTokens(strings.Repeat("abcd", 100)))
	assert.Equal(t, 1000, EstimateTokens(strings.Repeat("你", 1000)))
}
