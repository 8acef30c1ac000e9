package extract

import (
	"strings"
)

// Tokenize splits src into tokens.  It is a lexical approximation of a
// PHP-like tokenizer: text outside of open/close tags is a single InlineText
// token, and comments, strings and heredocs are single tokens so keywords
// inside them are never reported.  Tokenize never fails; unterminated
// constructs extend to the end of input.
func Tokenize(src string) []Token {
	lx := &lexer{src: src}
	lx.run()
	return lx.tokens
}

type lexer struct {
	src    string
	pos    int
	inCode bool
	tokens []Token
}

func (lx *lexer) emit(kind Kind, end int) {
	if end <= lx.pos {
		return
	}
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: lx.src[lx.pos:end]})
	lx.pos = end
}

func (lx *lexer) peek(offset int) byte {
	if i := lx.pos + offset; i < len(lx.src) {
		return lx.src[i]
	}
	return 0
}

func (lx *lexer) hasPrefix(prefix string) bool {
	return strings.HasPrefix(lx.src[lx.pos:], prefix)
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		if lx.inCode {
			lx.lexCode()
		} else {
			lx.lexInline()
		}
	}
}

func (lx *lexer) lexInline() {
	i := strings.Index(lx.src[lx.pos:], "<?")
	if i < 0 {
		lx.emit(InlineText, len(lx.src))
		return
	}
	lx.emit(InlineText, lx.pos+i)

	end := lx.pos + 2
	switch {
	case len(lx.src) >= lx.pos+5 && strings.EqualFold(lx.src[lx.pos:lx.pos+5], "<?php"):
		end = lx.pos + 5
		if end < len(lx.src) && isSpace(lx.src[end]) {
			end++
		}
	case lx.peek(2) == '=':
		end = lx.pos + 3
	}
	lx.emit(OpenTag, end)
	lx.inCode = true
}

func (lx *lexer) lexCode() {
	c := lx.src[lx.pos]
	switch {
	case isSpace(c):
		end := lx.pos
		for end < len(lx.src) && isSpace(lx.src[end]) {
			end++
		}
		lx.emit(Whitespace, end)
	case lx.hasPrefix("?>"):
		end := lx.pos + 2
		if end < len(lx.src) && lx.src[end] == '\n' {
			end++
		}
		lx.emit(CloseTag, end)
		lx.inCode = false
	case lx.hasPrefix("#["):
		lx.emit(Punct, lx.pos+2)
	case c == '#' || lx.hasPrefix("//"):
		lx.emit(Comment, lx.lineCommentEnd())
	case lx.hasPrefix("/*"):
		end := strings.Index(lx.src[lx.pos+2:], "*/")
		if end < 0 {
			lx.emit(Comment, len(lx.src))
		} else {
			lx.emit(Comment, lx.pos+2+end+2)
		}
	case c == '\'' || c == '"' || c == '`':
		lx.emit(String, lx.quotedEnd(c))
	case lx.hasPrefix("<<<"):
		if end, ok := lx.heredocEnd(); ok {
			lx.emit(Heredoc, end)
		} else {
			lx.emit(Punct, lx.pos+3)
		}
	case c == '$' && isIdentStart(lx.peek(1)):
		lx.emit(Variable, lx.identEnd(lx.pos+1))
	case isIdentStart(c):
		end := lx.identEnd(lx.pos)
		kind := Identifier
		if kw, ok := keywords[strings.ToLower(lx.src[lx.pos:end])]; ok {
			kind = kw
		}
		lx.emit(kind, end)
	case c == '\\':
		lx.emit(NamespaceSeparator, lx.pos+1)
	case isDigit(c):
		end := lx.pos
		for end < len(lx.src) && (isIdentPart(lx.src[end]) || lx.src[end] == '.') {
			end++
		}
		lx.emit(Number, end)
	case lx.hasPrefix("?->"):
		lx.emit(Punct, lx.pos+3)
	case lx.hasPrefix("::") || lx.hasPrefix("->"):
		lx.emit(Punct, lx.pos+2)
	default:
		lx.emit(Punct, lx.pos+1)
	}
}

// lineCommentEnd returns the end of a line comment, which stops before a
// newline or a close tag.
func (lx *lexer) lineCommentEnd() int {
	for i := lx.pos; i < len(lx.src); i++ {
		switch lx.src[i] {
		case '\n':
			return i
		case '?':
			if i+1 < len(lx.src) && lx.src[i+1] == '>' {
				return i
			}
		}
	}
	return len(lx.src)
}

func (lx *lexer) quotedEnd(quote byte) int {
	for i := lx.pos + 1; i < len(lx.src); i++ {
		switch lx.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(lx.src)
}

// heredocEnd scans a heredoc or nowdoc starting at "<<<".  The closing label
// may be indented and must not be followed by an identifier character.
func (lx *lexer) heredocEnd() (int, bool) {
	i := lx.pos + 3
	for i < len(lx.src) && (lx.src[i] == ' ' || lx.src[i] == '\t') {
		i++
	}
	var quote byte
	if i < len(lx.src) && (lx.src[i] == '\'' || lx.src[i] == '"') {
		quote = lx.src[i]
		i++
	}
	if i >= len(lx.src) || !isIdentStart(lx.src[i]) {
		return 0, false
	}
	labelEnd := lx.identEnd(i)
	label := lx.src[i:labelEnd]
	i = labelEnd
	if quote != 0 {
		if i >= len(lx.src) || lx.src[i] != quote {
			return 0, false
		}
		i++
	}
	nl := strings.IndexByte(lx.src[i:], '\n')
	if nl < 0 {
		return 0, false
	}
	i += nl + 1

	for i < len(lx.src) {
		lineStart := i
		for i < len(lx.src) && (lx.src[i] == ' ' || lx.src[i] == '\t') {
			i++
		}
		if strings.HasPrefix(lx.src[i:], label) {
			end := i + len(label)
			if end >= len(lx.src) || !isIdentPart(lx.src[end]) {
				return end, true
			}
		}
		nl := strings.IndexByte(lx.src[lineStart:], '\n')
		if nl < 0 {
			break
		}
		i = lineStart + nl + 1
	}
	return len(lx.src), true
}

func (lx *lexer) identEnd(start int) int {
	end := start
	for end < len(lx.src) && isIdentPart(lx.src[end]) {
		end++
	}
	return end
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
