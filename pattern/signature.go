package pattern

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Token is a single element of a Signature. A wildcard Token matches
// any byte value.
type Token struct {
	Value    byte
	Wildcard bool
}

// Signature is an ordered sequence of byte-or-wildcard tokens, such as
// those written in cheat tables and mod loaders:
//
//	48 8b 05 ?? ?? ?? ?? f3 0f 10 88 cc 02 00 00
//
// A Signature is never empty once parsed.
type Signature struct {
	tokens []Token
}

// ParseSignatureOrExit calls ParseSignature and calls DefaultExitFn
// if an error occurs.
func ParseSignatureOrExit(text string) Signature {
	sig, err := ParseSignature(text)
	if err != nil {
		DefaultExitFn(fmt.Errorf("pattern.signature: failed to parse %q - %w", text, err))
	}

	return sig
}

// ParseSignature parses whitespace-separated hex pairs and "??"
// placeholders into a Signature. A lone "?" is accepted as a wildcard.
func ParseSignature(text string) (Signature, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Signature{}, errors.New("signature is empty")
	}

	tokens := make([]Token, len(fields))

	for i, field := range fields {
		if field == "??" || field == "?" {
			tokens[i] = Token{Wildcard: true}
			continue
		}

		if len(field) != 2 {
			return Signature{}, fmt.Errorf("token %d (%q) is not a two-digit hex byte", i, field)
		}

		b, err := hex.DecodeString(field)
		if err != nil {
			return Signature{}, fmt.Errorf("failed to hex decode token %d (%q) - %w", i, field, err)
		}

		tokens[i] = Token{Value: b[0]}
	}

	return Signature{tokens: tokens}, nil
}

// Len returns the number of tokens in the signature.
func (o Signature) Len() int {
	return len(o.tokens)
}

// Tokens returns a copy of the signature's tokens.
func (o Signature) Tokens() []Token {
	cp := make([]Token, len(o.tokens))
	copy(cp, o.tokens)
	return cp
}

// String returns the canonical lowercase text form of the signature.
func (o Signature) String() string {
	parts := make([]string, len(o.tokens))
	for i, t := range o.tokens {
		if t.Wildcard {
			parts[i] = "??"
		} else {
			parts[i] = hex.EncodeToString([]byte{t.Value})
		}
	}

	return strings.Join(parts, " ")
}

// MatchesAt returns true if every token matches the corresponding
// byte of data starting at offset.
func (o Signature) MatchesAt(data []byte, offset int) bool {
	if offset < 0 || len(o.tokens) == 0 || offset+len(o.tokens) > len(data) {
		return false
	}

	for i, t := range o.tokens {
		if !t.Wildcard && data[offset+i] != t.Value {
			return false
		}
	}

	return true
}

// Find returns the lowest offset in data at which sig matches.
// The second return value is false if there is no match, including
// when sig is longer than data.
func Find(sig Signature, data []byte) (int, bool) {
	last := len(data) - len(sig.tokens)

	for i := 0; i <= last; i++ {
		if sig.MatchesAt(data, i) {
			return i, true
		}
	}

	return 0, false
}

// FindAll returns every offset in data at which sig matches,
// in ascending order.
func FindAll(sig Signature, data []byte) []int {
	var offsets []int

	last := len(data) - len(sig.tokens)

	for i := 0; i <= last; i++ {
		if sig.MatchesAt(data, i) {
			offsets = append(offsets, i)
		}
	}

	return offsets
}
