package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// mavenIDRegex matches groupId and artifactId segments. Wildcards are not
// allowed here; rule patterns are validated by the rules package.
var mavenIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// ValidateCoordinate validates a "groupId:artifactId" coordinate string and
// returns its two halves.
//
// The validation rules are intentionally conservative:
//   - Exactly one colon separating two non-empty halves
//   - No control characters
//   - Only letters, digits, '.', '-' and '_' in each half
//   - Maximum length of 256 characters
func ValidateCoordinate(coord string) (groupID, artifactID string, err error) {
	if coord == "" {
		return "", "", New(ErrCodeInvalidCoordinate, "coordinate cannot be empty")
	}
	if len(coord) > 256 {
		return "", "", New(ErrCodeInvalidCoordinate, "coordinate too long (max 256 characters)")
	}
	for _, r := range coord {
		if unicode.IsControl(r) {
			return "", "", New(ErrCodeInvalidCoordinate, "coordinate contains invalid control characters")
		}
	}

	parts := strings.Split(coord, ":")
	if len(parts) != 2 {
		return "", "", New(ErrCodeInvalidCoordinate, "invalid coordinate %q (expected groupId:artifactId)", coord)
	}
	for _, p := range parts {
		if !mavenIDRegex.MatchString(p) {
			return "", "", New(ErrCodeInvalidCoordinate, "invalid coordinate %q (expected groupId:artifactId)", coord)
		}
	}
	return parts[0], parts[1], nil
}
