package shadertest

import (
	"fmt"
	"strings"
)

var closers = map[rune]rune{')': '(', ']': '[', '}': '{'}

type bracket struct {
	r         rune
	line, col int
}

// check returns an info log for source, empty when it compiles.
func check(source string) string {
	if strings.TrimSpace(source) == "" {
		return "0:1(1): error: syntax error, unexpected end of file\n"
	}

	text := stripComments(source)
	if first := strings.TrimSpace(firstLine(text)); !strings.HasPrefix(first, "#version") {
		return "0:1(1): error: #version directive missing or not the first statement\n"
	}

	var (
		stack     []bracket
		line, col = 1, 0
	)
	for _, r := range text {
		col++
		switch r {
		case '\n':
			line, col = line+1, 0
		case '(', '[', '{':
			stack = append(stack, bracket{r, line, col})
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1].r != closers[r] {
				return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '%c'\n", line, col, r)
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		if col == 0 {
			col = 1
		}
		return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected end of file\n", line, col)
	}
	return ""
}

func firstLine(text string) string {
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			return l
		}
	}
	return ""
}

// stripComments blanks out comments, keeping newlines so positions survive.
func stripComments(source string) string {
	var b strings.Builder
	b.Grow(len(source))

	const (
		code = iota
		lineComment
		blockComment
	)
	state := code
	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case code:
			if r == '/' && next == '/' {
				state = lineComment
				b.WriteString("  ")
				i++
				continue
			}
			if r == '/' && next == '*' {
				state = blockComment
				b.WriteString("  ")
				i++
				continue
			}
			b.WriteRune(r)
		case lineComment:
			if r == '\n' {
				state = code
				b.WriteRune(r)
				continue
			}
			b.WriteRune(' ')
		case blockComment:
			if r == '*' && next == '/' {
				state = code
				b.WriteString("  ")
				i++
				continue
			}
			if r == '\n' {
				b.WriteRune(r)
				continue
			}
			b.WriteRune(' ')
		}
	}
	return b.String()
}
