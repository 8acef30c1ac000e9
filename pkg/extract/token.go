package extract

import "fmt"

// Kind classifies a lexical token.
type Kind int

const (
	// InlineText is text outside of code tags.
	InlineText Kind = iota
	OpenTag
	CloseTag
	Whitespace
	Comment
	String
	Heredoc
	Variable
	Identifier
	NamespaceSeparator
	Number
	Punct

	// keywords
	KeywordNamespace
	KeywordClass
	KeywordInterface
	KeywordTrait
	KeywordEnum
)

var kindNames = map[Kind]string{
	InlineText:         "InlineText",
	OpenTag:            "OpenTag",
	CloseTag:           "CloseTag",
	Whitespace:         "Whitespace",
	Comment:            "Comment",
	String:             "String",
	Heredoc:            "Heredoc",
	Variable:           "Variable",
	Identifier:         "Identifier",
	NamespaceSeparator: "NamespaceSeparator",
	Number:             "Number",
	Punct:              "Punct",
	KeywordNamespace:   "Namespace",
	KeywordClass:       "Class",
	KeywordInterface:   "Interface",
	KeywordTrait:       "Trait",
	KeywordEnum:        "Enum",
}

// String implements fmt.Stringer
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// isTypeDeclaration reports whether the kind introduces a class-like
// declaration.
func (k Kind) isTypeDeclaration() bool {
	switch k {
	case KeywordClass, KeywordInterface, KeywordTrait, KeywordEnum:
		return true
	}
	return false
}

// isTrivia reports whether the kind carries no syntax.
func (k Kind) isTrivia() bool {
	return k == Whitespace || k == Comment
}

// Token is a lexeme and its kind.
type Token struct {
	Kind Kind
	Text string
}

// String implements fmt.Stringer
func (t Token) String() string {
	return fmt.Sprintf("%v(%q)", t.Kind, t.Text)
}

// keywords maps lowercased identifiers to keyword kinds.
var keywords = map[string]Kind{
	"namespace": KeywordNamespace,
	"class":     KeywordClass,
	"interface": KeywordInterface,
	"trait":     KeywordTrait,
	"enum":      KeywordEnum,
}
