package generator

import (
	"fmt"
	"strings"
	"time"
)

// packagePrefix is the reverse-domain namespace owned by the generating
// service; every produced application identifier lives under it.
const packagePrefix = "com.sitewrap"

// Sanitize lowercases s and strips every rune outside [a-z0-9]. It is
// idempotent. The result may be empty when the input contains no usable
// runes; callers treat that as a degenerate but legal identifier.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildID derives the unique storage path component for one build. Composing
// the millisecond timestamp with the sanitized app name keeps repeat builds
// of the same app from overwriting each other.
func BuildID(appName string, now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), Sanitize(appName))
}

// PackageName derives the reverse-domain application identifier required by
// the target platform.
func PackageName(appName string) string {
	return packagePrefix + "." + Sanitize(appName)
}
