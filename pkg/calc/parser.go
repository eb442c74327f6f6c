package calc

import (
	"regexp"
	"strings"
)

var (
	// Innermost parenthesized group: no nested parentheses inside.
	bracketRe = regexp.MustCompile(`\(([^()]+)\)`)
	// Leftmost binary operation over signed decimals.
	opRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([+-])\s*(-?\d+(?:\.\d+)?)`)
	// A bare number, optionally fractional.
	numberRe = regexp.MustCompile(`^-?\d+(?:\.\d+)?$`)
	// A parenthesized bare number, e.g. "(8)".
	wrappedRe = regexp.MustCompile(`\((-?\d+(?:\.\d+)?)\)`)
	// First number anywhere in a text, for extracting worker output.
	anyNumberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Op describes the next reducible binary operation in an expression.
// Span is the [start, end) byte range of the matched operation within the
// whole expression; Bracket reports that it was found inside the innermost
// parenthesized group.
type Op struct {
	Left     string
	Operator string
	Right    string
	Span     [2]int
	Bracket  bool
}

// NextOp locates the next operation to reduce: the innermost parenthesized
// sub-expression first, otherwise the leftmost binary operation. Returns
// false when the expression holds no further operations.
func NextOp(expr string) (Op, bool) {
	if loc := bracketRe.FindStringSubmatchIndex(expr); loc != nil {
		innerStart, innerEnd := loc[2], loc[3]
		inner := expr[innerStart:innerEnd]
		if m := opRe.FindStringSubmatchIndex(inner); m != nil {
			return Op{
				Left:     inner[m[2]:m[3]],
				Operator: inner[m[4]:m[5]],
				Right:    inner[m[6]:m[7]],
				Span:     [2]int{innerStart + m[0], innerStart + m[1]},
				Bracket:  true,
			}, true
		}
	}

	if m := opRe.FindStringSubmatchIndex(expr); m != nil {
		return Op{
			Left:     expr[m[2]:m[3]],
			Operator: expr[m[4]:m[5]],
			Right:    expr[m[6]:m[7]],
			Span:     [2]int{m[0], m[1]},
		}, true
	}

	return Op{}, false
}

// Reduce substitutes the computed result into the expression at the given
// span and normalizes away parentheses left wrapping a bare number.
func Reduce(expr string, span [2]int, result string) string {
	if span[0] < 0 || span[1] > len(expr) || span[0] > span[1] {
		return expr
	}
	return Normalize(expr[:span[0]] + result + expr[span[1]:])
}

// Normalize trims the expression and unwraps degenerate groups like "(8)"
// until stable.
func Normalize(expr string) string {
	expr = strings.TrimSpace(expr)
	for {
		next := wrappedRe.ReplaceAllString(expr, "$1")
		if next == expr {
			return expr
		}
		expr = next
	}
}

// IsNumber reports whether the expression has fully reduced to one number.
func IsNumber(expr string) bool {
	return numberRe.MatchString(strings.TrimSpace(expr))
}

// ExtractNumber pulls the first number out of free-form worker output.
// Agent-backed workers tend to answer in prose around the value.
func ExtractNumber(text string) (string, bool) {
	match := anyNumberRe.FindString(text)
	return match, match != ""
}
