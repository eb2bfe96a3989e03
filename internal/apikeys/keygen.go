package apikeys

import (
	"crypto/rand"
	"fmt"
)

// secretAlphabet is the character set for generated secrets.
const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// secretLength is the number of random characters after the prefix.
const secretLength = 24

// SecretPrefix marks freshly minted secrets, matching the sk_{env}_ shape
// of the seeded keys.
const SecretPrefix = "sk_new_"

// GenerateSecret mints a cryptographically random API key secret: the
// prefix followed by random characters from the secret alphabet.
func GenerateSecret(prefix string) (string, error) {
	b := make([]byte, secretLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating key secret: %w", err)
	}

	out := make([]byte, secretLength)
	for i, v := range b {
		out[i] = secretAlphabet[int(v)%len(secretAlphabet)]
	}
	return prefix + string(out), nil
}
