// Package extract finds the class-like declarations in a source file with a
// lexical scan.  It tracks the current namespace at file scope only: a
// namespace declared inside a block is treated like a file-level one.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/stackb/autoloader/pkg/symbol"
)

// Extract returns the names declared in src, in order of appearance.  It never
// fails: token sequences that do not form a declaration are skipped.
func Extract(src string) []symbol.Name {
	return Declarations(Tokenize(src))
}

// ExtractFile reads the file and extracts its declared names.
func ExtractFile(filename string) ([]symbol.Name, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return Extract(string(data)), nil
}

// Declarations scans a token stream for namespace and type declarations.
func Declarations(tokens []Token) []symbol.Name {
	var names []symbol.Name
	var namespace string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok.Kind == KeywordNamespace:
			// namespace\foo() is a relative name, not a declaration
			if isMemberAccess(tokens, i) || isQualifiedSegment(tokens, i) {
				continue
			}
			j := skipTrivia(tokens, i+1)
			var b strings.Builder
			for j < len(tokens) && (isName(tokens[j].Kind) || tokens[j].Kind == NamespaceSeparator) {
				b.WriteString(tokens[j].Text)
				j++
			}
			switch {
			case b.Len() > 0:
				namespace = b.String()
				i = j - 1
			case j < len(tokens) && tokens[j].Kind == Punct && tokens[j].Text == "{":
				namespace = ""
				i = j - 1
			}
		case tok.Kind.isTypeDeclaration():
			if isMemberAccess(tokens, i) || isQualifiedSegment(tokens, i) {
				continue
			}
			if i+2 >= len(tokens) || !tokens[i+1].Kind.isTrivia() || !isName(tokens[i+2].Kind) {
				continue
			}
			simple := tokens[i+2].Text
			if isClauseKeyword(simple) {
				continue
			}
			names = append(names, symbol.Join(namespace, simple))
			i += 2
		}
	}

	return names
}

// isName reports whether a token of the given kind can be used as a name.
// Keywords are allowed as namespace segments and as declared names.
func isName(k Kind) bool {
	return k == Identifier || k >= KeywordNamespace
}

// isClauseKeyword matches the words that follow an anonymous class keyword.
func isClauseKeyword(word string) bool {
	switch strings.ToLower(word) {
	case "extends", "implements":
		return true
	}
	return false
}

// isMemberAccess reports whether the token at i is preceded by "::", "->" or
// "?->", as in Foo::class.
func isMemberAccess(tokens []Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].Kind.isTrivia() {
			continue
		}
		if tokens[j].Kind != Punct {
			return false
		}
		switch tokens[j].Text {
		case "::", "->", "?->":
			return true
		}
		return false
	}
	return false
}

// isQualifiedSegment reports whether the token at i is directly joined to a
// namespace separator, as the Enum in Lib\Enum.
func isQualifiedSegment(tokens []Token, i int) bool {
	if i > 0 && tokens[i-1].Kind == NamespaceSeparator {
		return true
	}
	return i+1 < len(tokens) && tokens[i+1].Kind == NamespaceSeparator
}

func skipTrivia(tokens []Token, i int) int {
	for i < len(tokens) && tokens[i].Kind.isTrivia() {
		i++
	}
	return i
}
