// Package htmlsanitize provides HTML sanitization for user-supplied profile
// text. Bios and taglines are authored as plain text, but anything stored
// before that rule existed (or pasted in with markup) is stripped with
// bluemonday before display.
package htmlsanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// policy strips all HTML; profile text renders as plain text only.
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, creating it on first use.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Sanitize removes all HTML tags from user-supplied text, returning the
// remaining plain text.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}
	return getPolicy().Sanitize(text)
}
