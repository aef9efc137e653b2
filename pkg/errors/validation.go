package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxShapeCodeLength bounds shape codes accepted from users. Eight quadrants
// times eight layers plus separators stays well below it.
const maxShapeCodeLength = 256

// shapeCodeRegex matches colon-separated layers of two-glyph cells,
// e.g. "CuCu----:--P-cucu".
var shapeCodeRegex = regexp.MustCompile(`^([A-Za-z-][A-Za-z-])+(:([A-Za-z-][A-Za-z-])+)*$`)

// hexCodeRegex matches "0x"-prefixed shape indexes.
var hexCodeRegex = regexp.MustCompile(`^0[xX][0-9a-fA-F]{1,16}$`)

// ValidateShapeCode validates a user-supplied shape code before it reaches the parser.
//
// Accepted forms are the glyph form ("CuCu----:P-------") and the hex index
// form ("0x3f"). The validation rules are intentionally conservative:
//   - No empty codes
//   - No control characters or whitespace
//   - Maximum length of 256 characters
func ValidateShapeCode(code string) error {
	if code == "" {
		return New(ErrCodeInvalidShape, "shape code cannot be empty")
	}

	if len(code) > maxShapeCodeLength {
		return New(ErrCodeInvalidShape, "shape code too long (max %d characters)", maxShapeCodeLength)
	}

	for _, r := range code {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidShape, "shape code contains invalid characters")
		}
	}

	if hexCodeRegex.MatchString(code) {
		return nil
	}
	if !shapeCodeRegex.MatchString(code) {
		return New(ErrCodeInvalidShape, "invalid shape code: %q", code)
	}
	return nil
}

// IsHexCode reports whether code uses the "0x" index form.
func IsHexCode(code string) bool {
	return hexCodeRegex.MatchString(code)
}

// ValidatePath validates a table or database path given on the command line or in config.
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

	if strings.ContainsRune(path, '\n') {
		return New(ErrCodeInvalidPath, "path cannot contain newlines")
	}

	return nil
}

// ValidateURL validates a backend URL string (Redis address excluded) for safety.
// It ensures the URL has a scheme the stores understand.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "mongodb://") && !strings.HasPrefix(rawURL, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "URL must use mongodb or mongodb+srv scheme")
	}

	return nil
}
