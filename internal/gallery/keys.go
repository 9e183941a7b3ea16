package gallery

import (
	"strings"
	"time"
)

// keyTokenLength gives ~71 bits of entropy per key, enough that same-day
// uploads under one prefix do not collide at realistic volumes.
const keyTokenLength = 12

// DeriveKey builds "<prefix/><YYYYMMDD>_<token>.<ext>". The date is taken in UTC.
func DeriveKey(now time.Time, tok, extension, userPrefix string) string {
	name := now.UTC().Format("20060102") + "_" + tok + "." + extension
	return NormalizePrefix(userPrefix) + name
}

// NormalizePrefix trims surrounding slashes and whitespace and appends exactly one
// trailing "/". Empty input (or "/") means the store root and yields "".
func NormalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// ParentPath drops the last segment of prefix. The root has no parent.
func ParentPath(prefix string) string {
	trimmed := strings.TrimSuffix(prefix, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return ""
	}
	return trimmed[:idx+1]
}
