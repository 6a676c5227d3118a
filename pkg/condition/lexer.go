package condition

import (
	"strconv"
	"strings"
	"unicode"
)

// Operator is one of the eight binary operators of the language.
type Operator int

const (
	OpLT Operator = iota
	OpGT
	OpLE
	OpGE
	OpEQ
	OpNE
	OpAnd
	OpOr
)

var operatorSymbols = [...]string{"<", ">", "<=", ">=", "==", "!=", "&&", "||"}

func (o Operator) String() string {
	return operatorSymbols[o]
}

func (o Operator) isComparison() bool {
	return o <= OpNE
}

var keywords = map[string]Operator{
	"lt":  OpLT,
	"gt":  OpGT,
	"le":  OpLE,
	"ge":  OpGE,
	"eq":  OpEQ,
	"not": OpNE,
	"and": OpAnd,
	"or":  OpOr,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokBool
	tokIdent
	tokOp
	tokMinus
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	pos  int
	text string
	op   Operator
	word bool // operator written in word form
}

// lex splits cond into tokens. It fails on the first character outside
// the grammar.
func lex(cond string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(cond) {
		c := cond[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen, pos: i, text: "("})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen, pos: i, text: ")"})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus, pos: i, text: "-"})
			i++
		case isDigit(c):
			start := i
			for i < len(cond) && isDigit(cond[i]) {
				i++
			}
			toks = append(toks, token{kind: tokInt, pos: start, text: cond[start:i]})
		case isIdentStart(c):
			start := i
			for i < len(cond) && isIdentPart(cond[i]) {
				i++
			}
			word := cond[start:i]
			if op, ok := keywords[word]; ok {
				// The translator only rewrites " lt ", so the word form
				// needs a space on both sides.
				if start == 0 || cond[start-1] != ' ' || i == len(cond) || cond[i] != ' ' {
					return nil, &SyntaxError{Cond: cond, Pos: start, Msg: "operator " + strconv.Quote(word) + " must be surrounded by spaces"}
				}
				toks = append(toks, token{kind: tokOp, pos: start, text: word, op: op, word: true})
			} else if isBoolLiteral(word) {
				toks = append(toks, token{kind: tokBool, pos: start, text: word})
			} else {
				toks = append(toks, token{kind: tokIdent, pos: start, text: word})
			}
		default:
			op, n, ok := symbolAt(cond, i)
			if !ok {
				return nil, &SyntaxError{Cond: cond, Pos: i, Msg: "unexpected character " + string(rune(c))}
			}
			toks = append(toks, token{kind: tokOp, pos: i, text: cond[i : i+n], op: op})
			i += n
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(cond)})
	return toks, nil
}

func symbolAt(s string, i int) (Operator, int, bool) {
	if i+1 < len(s) {
		switch s[i : i+2] {
		case "<=":
			return OpLE, 2, true
		case ">=":
			return OpGE, 2, true
		case "==":
			return OpEQ, 2, true
		case "!=":
			return OpNE, 2, true
		case "&&":
			return OpAnd, 2, true
		case "||":
			return OpOr, 2, true
		}
	}
	switch s[i] {
	case '<':
		return OpLT, 1, true
	case '>':
		return OpGT, 1, true
	}
	return 0, 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '\''
}

func isBoolLiteral(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// isInteger reports whether s is a plain run of decimal digits.
func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// CheckSpelling reports ErrMixedSpelling when one operator appears in both
// its word and its symbolic spelling. Conditions that do not lex are not
// judged here; Evaluate reports those.
func CheckSpelling(cond string) error {
	toks, err := lex(cond)
	if err != nil {
		return nil
	}
	var seenWord, seenSymbol [len(operatorSymbols)]bool
	for _, t := range toks {
		if t.kind != tokOp {
			continue
		}
		if t.word {
			seenWord[t.op] = true
		} else {
			seenSymbol[t.op] = true
		}
		if seenWord[t.op] && seenSymbol[t.op] {
			return &MixedSpellingError{Cond: cond, Op: t.op}
		}
	}
	return nil
}
