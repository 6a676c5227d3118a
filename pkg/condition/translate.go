package condition

import "strings"

// Operator spellings in the order the word form is rewritten.
var spellings = []struct {
	word   string
	symbol string
}{
	{" lt ", "<"},
	{" gt ", ">"},
	{" le ", "<="},
	{" ge ", ">="},
	{" eq ", "=="},
	{" not ", "!="},
	{" and ", "&&"},
	{" or ", "||"},
}

// Longest symbols first so "<=" is never read as "<" followed by "=".
var toWords = strings.NewReplacer(
	"<=", " le ",
	">=", " ge ",
	"==", " eq ",
	"!=", " not ",
	"&&", " and ",
	"||", " or ",
	"<", " lt ",
	">", " gt ",
)

// ToSymbolic rewrites every word operator (including its surrounding
// spaces) into its symbol. Text that matches no operator passes through.
func ToSymbolic(cond string) string {
	for _, sp := range spellings {
		if strings.Contains(cond, sp.word) {
			cond = strings.ReplaceAll(cond, sp.word, sp.symbol)
		}
	}
	return cond
}

// ToWords is the exact inverse of ToSymbolic.
func ToWords(cond string) string {
	return toWords.Replace(cond)
}
