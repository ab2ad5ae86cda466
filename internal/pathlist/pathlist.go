package pathlist

import (
	"strings"
	"unicode/utf8"
)

// Parse 把剪贴板文本解析为有序路径列表（已去引号）。
//
// 规则：
// - 文本以 '<' 开头（忽略前导空白）时，先按 HTML 片段提取 file 路径；提取为空则退化为按行处理
// - 否则按行切分，每行去掉一层首尾双引号
// - 顺序即帧顺序；重复路径保留
func Parse(text string) []string {
	if looksLikeHTML(text) {
		if paths, ok := FromHTML(text); ok {
			return paths
		}
	}
	return Normalize(SplitLines(text))
}

// SplitLines 按行切分文本，行终止符与常见 splitlines 语义一致：
// "\n"、"\r\n"、"\r"、"\v"、"\f"、"\x1c"-"\x1e"、U+0085、U+2028、U+2029。
//
// 末尾的换行不会产生额外的空元素；空文本返回空列表。
// 中间的空行保留为 ""（由加载阶段报 file_not_found）。
func SplitLines(text string) []string {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexFunc(text, isLineBreak)
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			size++
		}
		text = text[i+size:]
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Unquote 去掉恰好一个前导 '"' 与恰好一个尾随 '"'（两侧各自独立判断）。
// 无引号时原样返回。
func Unquote(line string) string {
	line = strings.TrimPrefix(line, `"`)
	line = strings.TrimSuffix(line, `"`)
	return line
}

// Normalize 对每一行做 Unquote，返回新切片（不修改入参）。
func Normalize(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = Unquote(l)
	}
	return out
}

func looksLikeHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<")
}
