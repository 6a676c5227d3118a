package domain

// DefaultInputValue is assigned to inputs registered implicitly from a condition.
const DefaultInputValue = "0"

// Input is a named value substituted into conditions.
// Value holds a decimal integer or a boolean literal.
type Input struct {
	Name  string `json:"name" yaml:"name" mapstructure:"name"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}
