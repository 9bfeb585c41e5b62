package domain

// Transition maps one symbol of a state to the label of its successor.
type Transition struct {
	Symbol Symbol `json:"symbol" yaml:"symbol"`
	To     string `json:"to" yaml:"to"`
}
