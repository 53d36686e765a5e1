// Package extract provides regexp-based contact extraction from visible
// page text.
package extract

import (
	"regexp"
	"strings"

	"github.com/fwojciec/harvest"
)

// Ensure Extractor implements harvest.ContactExtractor at compile time.
var _ harvest.ContactExtractor = (*Extractor)(nil)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)

	// nonPhoneChars matches everything a canonical phone number is not.
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
)

// minEmailLength is the shortest plausible address (a@b.co is 6 runes).
const minEmailLength = 6

// minPhoneDigits is the minimum digit count for a match to count as a
// phone number; shorter digit runs are dates, prices, and zip codes.
const minPhoneDigits = 10

// Extractor finds email- and phone-shaped substrings in text.
// The zero value is ready to use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the deduplicated contact values found in text.
// Emails are normalized to lowercase; phones are stripped to digits and a
// leading plus. Result order follows first occurrence in the text.
func (e *Extractor) Extract(text string) harvest.Contacts {
	return harvest.Contacts{
		Emails: extractEmails(text),
		Phones: extractPhones(text),
	}
}

func extractEmails(text string) []string {
	var emails []string
	seen := make(map[string]struct{})

	for _, match := range emailPattern.FindAllString(text, -1) {
		email := strings.ToLower(strings.TrimSpace(match))
		if len(email) < minEmailLength {
			continue
		}
		at := strings.LastIndex(email, "@")
		if at < 0 || !strings.Contains(email[at+1:], ".") {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		emails = append(emails, email)
	}

	return emails
}

func extractPhones(text string) []string {
	var phones []string
	seen := make(map[string]struct{})

	for _, match := range phonePattern.FindAllString(text, -1) {
		phone := nonPhoneChars.ReplaceAllString(match, "")
		if digitCount(phone) < minPhoneDigits {
			continue
		}
		if _, ok := seen[phone]; ok {
			continue
		}
		seen[phone] = struct{}{}
		phones = append(phones, phone)
	}

	return phones
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
