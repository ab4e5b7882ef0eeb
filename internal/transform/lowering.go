package transform

import (
	"strings"
	"unicode/utf8"
)

// lowerBlockBindings 在交给 esbuild 之前把块级绑定（let/const）改写成 var。
// esbuild 目前拒绝把这两种声明降级到 es5，所以这里先做一遍词法层面的
// 前置改写：跳过字符串、模板、注释与正则字面量，只替换声明位置的关键字。
// 改写后绑定退化为函数作用域，对通过 CDN 分发的普通脚本足够。
func lowerBlockBindings(src string) string {
	var out strings.Builder
	out.Grow(len(src))

	// prev 记录上一个有效（非空白）字符，用于区分正则字面量与除号。
	prev := byte(0)
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				out.WriteString(src[i:])
				return out.String()
			}
			out.WriteString(src[i : i+j])
			i += j
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			j := len(src)
			if end >= 0 {
				j = i + 2 + end + 2
			}
			out.WriteString(src[i:j])
			i = j
		case c == '\'' || c == '"':
			j := skipQuoted(src, i)
			out.WriteString(src[i:j])
			i = j
			prev = c
		case c == '`':
			j := skipTemplate(src, i)
			out.WriteString(src[i:j])
			i = j
			prev = c
		case c == '/' && regexCanFollow(prev):
			j := skipRegex(src, i)
			out.WriteString(src[i:j])
			i = j
			prev = '/'
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if (word == "let" || word == "const") && prev != '.' && startsDeclaration(src, j) {
				out.WriteString("var")
			} else {
				out.WriteString(word)
			}
			prev = word[len(word)-1]
			i = j
		default:
			out.WriteByte(c)
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				prev = c
			}
			i++
		}
	}
	return out.String()
}

// startsDeclaration 判断关键字后面跟的是不是声明目标：
// 标识符、数组解构或对象解构。`let = 1`、`{let: 1}` 这类标识符用法保持原样。
func startsDeclaration(src string, pos int) bool {
	for i := pos; i < len(src); i++ {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '[', '{':
			return true
		default:
			return isIdentStart(src[i])
		}
	}
	return false
}

func skipQuoted(src string, start int) int {
	quote := src[start]
	i := start + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1
		default:
			i++
		}
	}
	return len(src)
}

// skipTemplate 跳过整个模板字面量，包括 ${} 插值以及其中嵌套的模板。
// 插值里只能出现表达式，不会有声明，整段略过即可。
func skipTemplate(src string, start int) int {
	i := start + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '`':
			return i + 1
		case '$':
			if i+1 < len(src) && src[i+1] == '{' {
				i = skipInterpolation(src, i+2)
			} else {
				i++
			}
		default:
			i++
		}
	}
	return len(src)
}

func skipInterpolation(src string, start int) int {
	depth := 1
	i := start
	for i < len(src) && depth > 0 {
		switch src[i] {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		case '\'', '"':
			i = skipQuoted(src, i)
		case '`':
			i = skipTemplate(src, i)
		default:
			i++
		}
	}
	return i
}

func skipRegex(src string, start int) int {
	i := start + 1
	inClass := false
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
		case '[':
			inClass = true
			i++
		case ']':
			inClass = false
			i++
		case '/':
			if !inClass {
				return i + 1
			}
			i++
		case '\n':
			// 正则字面量不跨行，走到这说明其实是除号，停止吞字符。
			return i
		default:
			i++
		}
	}
	return len(src)
}

// regexCanFollow 是经典的启发式：'/' 前面是标识符、数字或闭括号时按除号处理，
// 其余位置按正则字面量开头处理。
func regexCanFollow(prev byte) bool {
	if prev == 0 {
		return true
	}
	return !isIdentPart(prev) && prev != ')' && prev != ']'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
