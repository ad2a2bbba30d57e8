package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*"

	MinCredentialLength = 12
)

// CredentialGenerator produces random passwords containing at least one
// lower case letter, upper case letter, digit and symbol.
type CredentialGenerator struct {
	Length int
}

func NewCredentialGenerator(length int) CredentialGenerator {
	if length < MinCredentialLength {
		length = MinCredentialLength
	}
	return CredentialGenerator{Length: length}
}

func (g CredentialGenerator) Generate() (string, error) {
	length := g.Length
	if length < MinCredentialLength {
		length = MinCredentialLength
	}

	all := lowerChars + upperChars + digitChars + symbolChars
	out := make([]byte, 0, length)
	for _, set := range []string{lowerChars, upperChars, digitChars, symbolChars} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return int(v.Int64()), nil
}
