// validation.go
package configstore

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxKeyLength is the longest key the storage schemas accept.
const MaxKeyLength = 255

func validateKey(k Key) error {
	name := k.String()
	if name == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if utf8.RuneCountInString(name) > MaxKeyLength {
		return fmt.Errorf("%w: key longer than %d characters", ErrInvalidKey, MaxKeyLength)
	}
	if strings.TrimSpace(name) != name {
		return fmt.Errorf("%w: key has surrounding whitespace", ErrInvalidKey)
	}
	return nil
}
