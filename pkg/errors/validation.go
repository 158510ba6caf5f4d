package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateTitle validates a problem title for safety and display.
// Titles appear in traces, file names, and server responses, so the
// rules are intentionally conservative:
//   - Maximum length of 200 characters
//   - No control characters
//
// An empty title is allowed; loaders substitute nothing for it.
func ValidateTitle(title string) error {
	if len(title) > 200 {
		return New(ErrCodeInvalidInput, "title too long (max 200 characters)")
	}

	for _, r := range title {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "title contains invalid control characters")
		}
	}

	return nil
}

// ValidateItemName validates an item name. Names are rendered verbatim in
// traces and DOT output, so they must be short, printable, and single-line.
func ValidateItemName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "item name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidName, "item name too long (max 64 characters): %q", name)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "item name contains invalid control characters: %q", name)
		}
	}

	if strings.ContainsAny(name, `"<>`) {
		return New(ErrCodeInvalidName, "item name contains invalid characters: %q", name)
	}

	return nil
}

// ValidateItemNames validates every name in a problem.
func ValidateItemNames(names []string) error {
	for _, name := range names {
		if err := ValidateItemName(name); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProblemSize checks the item count against a cap. The search
// visits up to 2^(n+1) nodes because no branch is ever pruned, so public
// entry points must bound n. A max of zero or less means unlimited.
func ValidateProblemSize(items, max int) error {
	if items < 0 {
		return New(ErrCodeInvalidProblem, "negative item count")
	}
	if max > 0 && items > max {
		return New(ErrCodeInvalidProblem, "problem too large: %d items (max %d)", items, max)
	}
	return nil
}

// reportIDRegex matches the canonical RFC 4122 hex-and-dashes form.
var reportIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateReportID validates a report identifier before it reaches a
// store backend.
func ValidateReportID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "report id cannot be empty")
	}

	if !reportIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid report id: %q", id)
	}

	return nil
}
