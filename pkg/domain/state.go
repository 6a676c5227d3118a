package domain

// State represents a node of the machine. Its name is both key and attribute.
type State struct {
	Name string `json:"name" yaml:"name"`
}
