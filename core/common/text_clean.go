package common

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CleanProfile 文本清洗配置文件
type CleanProfile int

const (
	ProfileCommon    CleanProfile = iota // 基础安全集
	ProfileEmbedding                     // 向量化友好（标准化空格和换行）
	ProfileDatabase                      // 数据库存储（包含PUA过滤）
)

var (
	// 多个空格/制表符合并为一个空格
	spaceRe = regexp.MustCompile(`[ \t\f\v]+`)
	// 多个换行符（3个或以上）合并为两个换行
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// 零宽字符集合
var zeroWidthRunes = map[rune]bool{
	'\u200B': true, // Zero Width Space
	'\u200C': true, // Zero Width Non-Joiner
	'\u200D': true, // Zero Width Joiner
	'\uFEFF': true, // Zero Width No-Break Space (BOM)
	'\u2060': true, // Word Joiner
	'\u180E': true, // Mongolian Vowel Separator
}

// 非标准空格字符集合（转换为普通空格）
var nonStandardSpaces = map[rune]bool{
	'\u00A0': true, // Non-breaking space
	'\u1680': true, // Ogham Space Mark
	'\u2000': true, // En Quad
	'\u2001': true, // Em Quad
	'\u2002': true, // En Space
	'\u2003': true, // Em Space
	'\u2004': true, // Three-Per-Em Space
	'\u2005': true, // Four-Per-Em Space
	'\u2006': true, // Six-Per-Em Space
	'\u2007': true, // Figure Space
	'\u2008': true, // Punctuation Space
	'\u2009': true, // Thin Space
	'\u200A': true, // Hair Space
	'\u202F': true, // Narrow No-Break Space
	'\u205F': true, // Medium Mathematical Space
	'\u3000': true, // Ideographic Space (全角空格)
}

// CleanText 统一的文本清洗入口
func CleanText(input []byte, profile CleanProfile) (string, error) {
	if !utf8.Valid(input) {
		return "", errors.New("invalid UTF-8 sequence")
	}

	s := string(input)

	// NULL 字符清理
	s = strings.ReplaceAll(s, "\u0000", "")

	// 控制字符清理（保留 \n, \t, \r）
	s = removeControlChars(s)

	// 零宽字符 & BOM 清理
	s = removeZeroWidthChars(s)

	// Unicode 归一化（NFC标准）
	s = norm.NFC.String(s)

	switch profile {
	case ProfileEmbedding:
		s = normalizeWhitespace(s)
		s = normalizeNonStandardSpaces(s)
	case ProfileDatabase:
		s = removePrivateUseArea(s)
		s = normalizeNonStandardSpaces(s)
	case ProfileCommon:
		s = normalizeNonStandardSpaces(s)
	}

	return s, nil
}

// CleanString 便捷方法：直接接受string参数
func CleanString(input string, profile CleanProfile) (string, error) {
	return CleanText([]byte(input), profile)
}

func removeControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7F {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func removeZeroWidthChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if zeroWidthRunes[r] {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func normalizeNonStandardSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if nonStandardSpaces[r] {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRe.ReplaceAllString(s, " ")
	s = newlineRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func removePrivateUseArea(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if (r >= 0xE000 && r <= 0xF8FF) ||
			(r >= 0xF0000 && r <= 0xFFFFD) ||
			(r >= 0x100000 && r <= 0x10FFFD) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
