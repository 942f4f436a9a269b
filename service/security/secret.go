package security

import (
	"crypto/sha256"
	"encoding/hex"

	"gatepass/util"

	"golang.org/x/crypto/bcrypt"
)

// Size in bytes of the opaque refresh token before encoding
const refreshTokenBytes = 32

// Method to hash a string using SHA-256
func Hash(str string) string {
	hasher := sha256.New()
	hasher.Write([]byte(str))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Create an opaque refresh token. The caller hands the token to the client and stores only the hash
func NewRefreshToken() (token string, hash string, err error) {
	token, err = util.RandomToken(refreshTokenBytes)
	if err != nil {
		return "", "", err
	}
	return token, Hash(token), nil
}

// Methods to hash passwords using bcrypt
func BcryptHash(str string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(str), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Method to compare a bcrypt hashed password with a plain text password
func BcryptCompare(hashedStr, plainStr string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedStr), []byte(plainStr))
	return err == nil
}
