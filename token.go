package casym

// TokenKind tags a pretty-printing token with its semantic category so a
// rendering backend can highlight it.
type TokenKind int

// Token kinds.
const (
	TokLiteral TokenKind = iota
	TokConstant
	TokRegister
	TokMemory
	TokAddress
	TokName
	TokTainted
)

var tokenKinds = [...]string{
	TokLiteral:  "literal",
	TokConstant: "constant",
	TokRegister: "register",
	TokMemory:   "memory",
	TokAddress:  "address",
	TokName:     "name",
	TokTainted:  "tainted",
}

// String returns the string representation of the kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKinds) {
		return tokenKinds[k]
	}
	return "TokenKind<?>"
}

// Token is one element of the pretty-printed form of an expression.
type Token struct {
	Kind TokenKind
	Text string
}

func literal(text string) Token { return Token{Kind: TokLiteral, Text: text} }
