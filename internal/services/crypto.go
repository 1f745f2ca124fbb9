package services

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

var encryptionSalt = []byte("vitrine-integrations-v1")

// DeriveEncryptionKey derives the 32-byte AES key used for integration
// secrets from the server secret
func DeriveEncryptionKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), encryptionSalt, 100000, 32, sha256.New)
}
