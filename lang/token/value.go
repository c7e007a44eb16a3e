package token

// Value carries the payload produced by the scanner for a single token: its
// exact source text plus, for literals, the decoded Go value.
type Value struct {
	// Raw is the token's exact source text.
	Raw string
	// Str is the decoded content of a STRING literal (without quotes).
	Str string
	// Num is the decoded value of a NUMBER literal.
	Num float64
	// Pos is the position of the first character of the token.
	Pos Pos
}
