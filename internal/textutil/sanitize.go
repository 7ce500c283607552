package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes one path component safe for the filesystem.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters and control characters are removed. The result is NFC
// normalized and never starts or ends with a dot or whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = fileNameReplacer.Replace(norm.NFC.String(name))
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.Trim(name, " .\t")
}

// SanitizePath sanitizes every slash separated component of rel and drops
// components that become empty.
func SanitizePath(rel string) string {
	parts := strings.Split(rel, "/")
	kept := parts[:0]
	for _, part := range parts {
		if clean := SanitizeFileName(part); clean != "" {
			kept = append(kept, clean)
		}
	}
	return strings.Join(kept, "/")
}
