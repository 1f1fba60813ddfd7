// Package appurl prepares third-party app URLs for embedding in the wallet.
package appurl

import "strings"

// Framed appends the "framed" flag so embedded apps can hide their own
// chrome.
func Framed(raw string) string {
	if strings.Contains(raw, "?") {
		return raw + "&framed"
	}

	return raw + "?framed"
}
