package resolver

import (
	"context"
	"fmt"
	"strings"
)

// metadataMarker ends a request for shortlink metadata: go/foo+ or go/foo/+.
const metadataMarker = "+"

// Kind tells the caller what to do with a Resolution.
type Kind int

const (
	// KindRedirect asks the caller to redirect to Resolution.URL.
	KindRedirect Kind = iota + 1
	// KindMetadata asks the caller to describe Resolution.Shortlink instead
	// of redirecting.
	KindMetadata
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindMetadata:
		return "metadata"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Resolution is the outcome of a successful resolve.
type Resolution struct {
	Kind      Kind
	Shortlink string // normalized key
	URL       string // set for KindRedirect
}

// LookupFunc maps a normalized shortlink to its stored long URL.
type LookupFunc func(shortlink string) (string, bool)

// ContextLookupFunc is a LookupFunc backed by something that can fail, such
// as a database.
type ContextLookupFunc func(ctx context.Context, shortlink string) (string, bool, error)

// Resolve resolves input with a lookup that cannot fail.
func Resolve(input string, lookup LookupFunc) (Resolution, error) {
	return ResolveContext(context.Background(), input, func(_ context.Context, shortlink string) (string, bool, error) {
		long, ok := lookup(shortlink)
		return long, ok, nil
	})
}

// ResolveContext splits input, normalizes the shortlink and, unless the
// request asks for metadata, calls lookup exactly once and expands the stored
// long URL against the remaining path segments.
//
// Errors: ErrEmptyInput, *NotFoundError, *TemplateError, or the lookup's own
// error wrapped.
func ResolveContext(ctx context.Context, input string, lookup ContextLookupFunc) (Resolution, error) {
	segments := Split(input)
	segments, metadata := trimMetadataMarker(segments)
	if len(segments) == 0 {
		return Resolution{}, ErrEmptyInput
	}

	key := Normalize(segments[0])
	if key == "" {
		return Resolution{}, ErrEmptyInput
	}

	if metadata {
		return Resolution{Kind: KindMetadata, Shortlink: key}, nil
	}

	long, ok, err := lookup(ctx, key)
	if err != nil {
		return Resolution{}, fmt.Errorf("lookup %q: %w", key, err)
	}
	if !ok {
		return Resolution{}, &NotFoundError{Shortlink: key}
	}

	t, err := ParseTemplate(long)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{
		Kind:      KindRedirect,
		Shortlink: key,
		URL:       t.Expand(segments[1:]),
	}, nil
}

func trimMetadataMarker(segments []string) ([]string, bool) {
	if len(segments) == 0 {
		return segments, false
	}
	last := segments[len(segments)-1]
	if !strings.HasSuffix(last, metadataMarker) {
		return segments, false
	}

	trimmed := strings.TrimRight(last, metadataMarker)
	out := append([]string(nil), segments[:len(segments)-1]...)
	if trimmed != "" {
		out = append(out, trimmed)
	}
	return out, true
}
