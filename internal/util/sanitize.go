package util

import "strings"

var tagStripper = strings.NewReplacer("<", "", ">", "")

// Sanitize strips angle brackets from free-text input before it is
// persisted. Matches the storefront's XSS guard: tags are removed, the
// rest of the text passes through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return tagStripper.Replace(s)
}
