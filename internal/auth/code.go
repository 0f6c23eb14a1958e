package auth

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

var codeSpace = big.NewInt(900_000)

// GenerateCode returns a random code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(100_000+n.Int64(), 10), nil
}
