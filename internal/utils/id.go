package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
)

// GenerateSecureToken creates a cryptographically secure random token.
func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// MediaObjectKey builds a collision-free storage key for a user's uploaded
// image, e.g. "avatars/42/3f8e….png".
func MediaObjectKey(kind string, userID uint, ext string) string {
	return fmt.Sprintf("%s/%d/%s%s", kind, userID, uuid.New().String(), ext)
}
