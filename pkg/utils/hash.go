package utils

import (
	"crypto/md5"
	"fmt"
)

func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// ShortHash is used for cache keys and chunk identifiers where a full
// digest would be noise in logs.
func ShortHash(input string) string {
	return HashString(input)[:12]
}
