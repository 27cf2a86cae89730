// Package resolver turns go-link style requests (http://go/prs/alice) into
// redirect targets using a caller-supplied lookup of stored long URLs.
package resolver

import "strings"

// Split returns the non-empty path segments of input. Input may be a full URL
// or a bare path; scheme, host, query string and fragment are dropped.
func Split(input string) []string {
	p := input
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.Index(p, "://"); i >= 0 {
		rest := p[i+len("://"):]
		j := strings.IndexByte(rest, '/')
		if j < 0 {
			return nil
		}
		p = rest[j+1:]
	}

	return strings.FieldsFunc(p, func(r rune) bool { return r == '/' })
}
