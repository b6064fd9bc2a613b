// Package normalize converts raw source text into a language-agnostic token
// stream. Comments are stripped, whitespace is collapsed, string and numeric
// literals are replaced with placeholders, and identifiers are collapsed to a
// canonical token so that renamings do not affect downstream fingerprints.
package normalize

import (
	"regexp"
	"strings"
)

// Placeholder tokens emitted for collapsed identifiers and literals.
const (
	TokenID  = "ID"
	TokenNum = "NUM"
	TokenStr = "STR"
)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	hashComment  = regexp.MustCompile(`#[^\n]*`)
	tripleQuoted = regexp.MustCompile(`(?s)'''.*?'''|""".*?"""`)

	stringLiteral = regexp.MustCompile(`"(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*'`)
	numberLiteral = regexp.MustCompile(`\b(?:0x[0-9a-fA-F]+|\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)\b`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Normalizer tokenizes source text against a fixed keyword vocabulary.
// The zero value is not usable; construct with New.
type Normalizer struct {
	keywords map[string]bool
}

// New creates a Normalizer with the union keyword set.
func New() *Normalizer {
	return &Normalizer{keywords: keywords}
}

// Tokens runs the full normalization pipeline: comment stripping, whitespace
// collapsing, literal marking, and lexing. extHint is the file extension
// (".py", ".cpp", ...); it only affects comment stripping. Any input,
// including empty text, yields a valid (possibly empty) token stream.
func (n *Normalizer) Tokens(text, extHint string) []string {
	stripped := StripComments(text, extHint)
	collapsed := CollapseWhitespace(stripped)
	marked := markLiterals(collapsed)
	return n.lex(marked)
}

// StripComments removes block comments and line comments. Script-like files
// (Python family) additionally lose triple-quoted strings, treated as
// documentation. `#`-prefixed line comments are stripped for every extension,
// including C/C++; this deliberately removes preprocessor directive text after
// the `#` and must stay that way for fingerprint compatibility.
func StripComments(text, extHint string) string {
	text = blockComment.ReplaceAllString(text, "")
	text = lineComment.ReplaceAllString(text, "")
	if isScriptLike(extHint) {
		text = tripleQuoted.ReplaceAllString(text, "")
	}
	text = hashComment.ReplaceAllString(text, "")
	return text
}

// CollapseWhitespace folds every whitespace run, newlines included, into a
// single space and trims the ends.
func CollapseWhitespace(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// markLiterals replaces quoted strings and numeric literals with their
// placeholder tokens. This runs before token splitting so literals are never
// mis-lexed as identifiers or operators. Strings first: a number inside a
// string must not survive as NUM.
func markLiterals(text string) string {
	text = stringLiteral.ReplaceAllString(text, TokenStr)
	text = numberLiteral.ReplaceAllString(text, TokenNum)
	return text
}

// lex splits marked text into tokens: operator/punctuation symbols matched
// longest-first from a fixed table, identifier-shaped words classified as
// keyword or ID, and any other non-whitespace character as itself.
func (n *Normalizer) lex(text string) []string {
	var tokens []string
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		c := runes[i]

		if isSpace(c) {
			i++
			continue
		}

		if isWordStart(c) {
			j := i + 1
			for j < len(runes) && isWordChar(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			i = j

			// Placeholders produced by the literal-marking pass pass through.
			if word == TokenStr || word == TokenNum {
				tokens = append(tokens, word)
				continue
			}

			low := strings.ToLower(word)
			if n.keywords[low] {
				tokens = append(tokens, low)
			} else {
				tokens = append(tokens, TokenID)
			}
			continue
		}

		if op := matchOperator(runes, i); op != "" {
			tokens = append(tokens, op)
			i += len(op) // operators are ASCII
			continue
		}

		tokens = append(tokens, string(c))
		i++
	}

	return tokens
}

// Operator table. Longest-match-first is load-bearing: `<<=` must win over
// `<<`, which must win over `<`.
var (
	operators3 = []string{"<<=", ">>="}
	operators2 = []string{
		"++", "--", "==", "!=", "<=", ">=", "->", "&&", "||",
		"<<", ">>", "::", "+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=",
	}
	operators1 = "+-*/%&|^~!<>?:;,.()[]{}="
)

func matchOperator(runes []rune, i int) string {
	if i+3 <= len(runes) {
		s := string(runes[i : i+3])
		for _, op := range operators3 {
			if s == op {
				return op
			}
		}
	}
	if i+2 <= len(runes) {
		s := string(runes[i : i+2])
		for _, op := range operators2 {
			if s == op {
				return op
			}
		}
	}
	if strings.ContainsRune(operators1, runes[i]) {
		return string(runes[i])
	}
	return ""
}

func isScriptLike(extHint string) bool {
	ext := strings.ToLower(extHint)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext == ".py"
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isWordChar(c rune) bool {
	return isWordStart(c) || (c >= '0' && c <= '9')
}
