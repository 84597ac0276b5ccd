package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// identifierRegex matches project and field identifiers as issued by the
// field API: numeric backend ids or short slugs.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier validates a project or field identifier used to build
// storage keys and API paths. It rejects anything that could escape a key
// namespace or a URL path segment.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - Maximum length of 128 characters
//   - No control characters
//   - No path separators or traversal sequences
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidKey, "%s id cannot be empty", kind)
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidKey, "%s id too long (max 128 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "%s id contains invalid control characters", kind)
		}
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidKey, "%s id contains invalid characters: %q", kind, "..")
	}

	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidKey, "invalid %s id: %q", kind, id)
	}

	return nil
}

// ValidatePath validates a local file path passed on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
