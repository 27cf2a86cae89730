package resolver

import "strings"

const escapedSpace = "%20"

// Normalize canonicalizes a shortlink segment: ASCII letters are lower-cased
// and hyphens, whitespace and escaped spaces are removed, so "My-Service",
// "my service" and "myservice" all collide.
func Normalize(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c == '-', c == ' ', c == '\t', c == '\n', c == '\r', c == '\v', c == '\f':
			continue
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}

	out := b.String()
	// removing one escape can join the halves of another ("%%2020")
	for strings.Contains(out, escapedSpace) {
		out = strings.ReplaceAll(out, escapedSpace, "")
	}
	return out
}

// NormalizeShortlink normalizes the first path segment of input. Use it when
// storing a new shortlink so the stored key matches what Resolve looks up.
func NormalizeShortlink(input string) string {
	segments := Split(input)
	if len(segments) == 0 {
		return ""
	}
	return Normalize(segments[0])
}
