package surver

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateToken produces a RandomTokenLen-character token, used when the
// operator does not supply one on the command line. A UUIDv4's hex digits
// give plenty of entropy for MinTokenLen while staying free of characters
// that need escaping in a URL path segment.
func GenerateToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", "")[:RandomTokenLen], nil
}
