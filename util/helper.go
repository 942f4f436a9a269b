package util

import (
	cryprand "crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

// Global logger
var LOGGER = slog.New(slog.NewTextHandler(os.Stdout, nil))

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generate a random string with length n. The character possible is defined in the alphabet constant.
// Not suitable for secrets, use RandomToken instead
func RandomString(n int) string {
	var sb strings.Builder
	k := len(alphabet)

	for range n {
		c := alphabet[rand.Intn(k)]
		sb.WriteByte(c)
	}

	return sb.String()
}

// Generate an unguessable URL-safe token from n bytes of crypto/rand
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := cryprand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Generate slug
func GenerateSlug(content string) string {
	return slug.Make(content)
}

// Mask a person name for public display: keep the first rune of each word.
// "Jane Doe" -> "J*** D**"
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = string(first) + strings.Repeat("*", utf8.RuneCountInString(word[size:]))
	}
	return strings.Join(words, " ")
}

// Keep only the digits of a phone number
func PhoneDigits(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
