package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxComponentIDLength bounds component identifiers.
const MaxComponentIDLength = 256

// ValidateComponentID validates a component identifier from untrusted input.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No leading or trailing whitespace
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateComponentID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidComponent, "component id cannot be empty")
	}

	if len(id) > MaxComponentIDLength {
		return New(ErrCodeInvalidComponent, "component id too long (max %d characters)", MaxComponentIDLength)
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidComponent, "component id %q has surrounding whitespace", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidComponent, "component id contains invalid control characters")
		}
	}

	return nil
}

// ManifestExtensions lists the file extensions accepted for manifests.
var ManifestExtensions = []string{".json", ".toml", ".yaml", ".yml"}

// ValidateManifestFilename validates that a manifest path has a supported
// extension and is not a hidden file.
func ValidateManifestFilename(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be empty")
	}

	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return New(ErrCodeInvalidManifest, "manifest filename cannot be a hidden file")
	}

	ext := strings.ToLower(filepath.Ext(base))
	for _, ok := range ManifestExtensions {
		if ext == ok {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported manifest extension %q (want one of %s)", ext, strings.Join(ManifestExtensions, ", "))
}
