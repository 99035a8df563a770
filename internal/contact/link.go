// Package contact builds click-to-chat deep links for listing agents.
package contact

import (
	"strings"
	"unicode"
)

const (
	DefaultMessage = "Hello, I'm interested in your listing on Dari."
	baseURL        = "https://wa.me/"
)

// WhatsAppLink returns https://wa.me/<phone>?text=<message>. The phone number is
// cleaned but not validated: a malformed number yields a dead link.
func WhatsAppLink(phone, message string) string {
	if message == "" {
		message = DefaultMessage
	}
	return baseURL + NormalizePhone(phone) + "?text=" + EscapeComponent(message)
}

// ListingMessage is the greeting used from a listing's detail view.
func ListingMessage(agentName, title string) string {
	return "Hi " + agentName + ", I'm interested in " + title + " on Dari."
}

// NormalizePhone strips whitespace, parentheses and hyphens, then one leading '+'.
// Whitespace is the set a browser's \s matches, so links built here and in
// page scripts agree.
func NormalizePhone(phone string) string {
	clean := strings.Map(func(r rune) rune {
		if isBrowserSpace(r) || r == '(' || r == ')' || r == '-' {
			return -1
		}
		return r
	}, phone)
	return strings.TrimPrefix(clean, "+")
}

// isBrowserSpace is unicode.IsSpace less NEL (U+0085), plus the byte order mark.
func isBrowserSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\uFEFF' || unicode.IsSpace(r)
}

const upperhex = "0123456789ABCDEF"

// EscapeComponent percent-encodes s for a URI component. Letters, digits and
// - _ . ! ~ * ' ( ) pass through; every other UTF-8 byte becomes %XX.
func EscapeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
