package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStringRemovesNullAndControlChars(t *testing.T) {
	out, err := CleanString("hello\u0000world\u0001!", ProfileCommon)
	assert.NoError(t, err)
	assert.Equal(t, "helloworld!", out)
}

func TestCleanStringKeepsAllowedWhitespace(t *testing.T) {
	out, err := CleanString("line1\nline2\tend", ProfileCommon)
	assert.NoError(t, err)
	assert.Equal(t, "line1\nline2\tend", out)
}

func TestCleanStringRemovesZeroWidthChars(t *testing.T) {
	out, err := CleanString("zero\u200Bwidth\uFEFFgone", ProfileCommon)
	assert.NoError(t, err)
	assert.Equal(t, "zerowidthgone", out)
}

func TestCleanStringEmbeddingProfile(t *testing.T) {
	// 向量化配置：合并多余空格、压缩连续空行、去首尾空白
	out, err := CleanString("  a   b\n\n\n\nc  ", ProfileEmbedding)
	assert.NoError(t, err)
	assert.Equal(t, "a b\n\nc", out)
}

func TestCleanStringNonStandardSpaces(t *testing.T) {
	out, err := CleanString("全角　空格", ProfileCommon)
	assert.NoError(t, err)
	assert.Equal(t, "全角 空格", out)
}

func TestCleanTextRejectsInvalidUTF8(t *testing.T) {
	_, err := CleanText([]byte{0xff, 0xfe, 0xfd}, ProfileCommon)
	assert.Error(t, err)
}
