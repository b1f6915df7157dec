/*
Package randx provides functions for generating cryptographically secure random numbers and unique identifiers.

It is primarily used to generate 8-digit user display IDs, standard UUID message IDs,
and Base62 encoded object keys for uploaded assets.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// CustomIDLength is the fixed length of a user display ID.
	CustomIDLength = 8

	// ObjectKeyLength is the fixed length of a generated storage object key.
	ObjectKeyLength = 16
)

// CustomID generates an 8-digit numeric display ID using a cryptographically secure
// random number generator. The first digit is never zero so the ID keeps its length
// when rendered as a number.
func CustomID() (string, error) {
	result := make([]byte, CustomIDLength)

	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", fmt.Errorf("failed to generate random digit for display ID: %v", err)
	}
	result[0] = byte('1' + first.Int64())

	for i := 1; i < CustomIDLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit for display ID: %v", err)
		}
		result[i] = byte('0' + num.Int64())
	}

	return string(result), nil
}

// IsValidCustomID checks if the given string is a valid display ID.
// Validity criteria include: length equals CustomIDLength and all characters are ASCII digits.
func IsValidCustomID(id string) bool {
	if len(id) != CustomIDLength {
		return false
	}

	for _, char := range id {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}

// ObjectKey generates a Base62 encoded key for an object uploaded to external storage.
func ObjectKey() (string, error) {
	result := make([]byte, ObjectKeyLength)

	for i := range ObjectKeyLength {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for object key: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// IsBase62 reports whether every character of s belongs to the Base62 character set.
func IsBase62(s string) bool {
	for _, char := range s {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return s != ""
}
