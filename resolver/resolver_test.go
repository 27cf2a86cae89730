package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prsTemplate = "https://github.com/pulls?q=is:open+is:pr+review-requested:{{ if path }}{path}{{ else }}@me{{ endif }}+archived:false"

func lookup(key string) (string, bool) {
	switch key {
	case "test":
		return "http://example.com/", true
	case "test2":
		return "http://example.com/test.html?a=b&c[]=d", true
	case "foo":
		return "http://example.com", true
	case "prs":
		return prsTemplate, true
	case "abcd":
		return "efgh", true
	case "broken":
		return "{{ if path }}X", true
	}
	return "", false
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		url       string
		shortlink string
	}{
		{"bare path", "/test", "http://example.com/", "test"},
		{"full url", "https://jil.im/test", "http://example.com/", "test"},
		{"no leading slash", "test", "http://example.com/", "test"},
		{"complex url", "/test2", "http://example.com/test.html?a=b&c[]=d", "test2"},
		{"ignores case", "/TEST", "http://example.com/", "test"},
		{"ignores hyphens", "/t-est", "http://example.com/", "test"},
		{"ignores whitespace", "/t est", "http://example.com/", "test"},
		{"ignores escaped space", "/t%20est", "http://example.com/", "test"},
		{"go host", "http://go/foo", "http://example.com", "foo"},
		{"appends segments", "http://go/foo/bar/baz", "http://example.com/bar/baz", "foo"},
		{"appends after trailing slash", "/test/a/b/c", "http://example.com/a/b/c", "test"},
		{"appends before query", "/test2/a/b/c", "http://example.com/test.html/a/b/c?a=b&c[]=d", "test2"},
		{"non url long value", "/abcd", "efgh", "abcd"},
		{"non url long value with path", "/abcd/a/b/c", "efgh/a/b/c", "abcd"},
		{"template with path", "http://go/prs/jameslittle230", "https://github.com/pulls?q=is:open+is:pr+review-requested:jameslittle230+archived:false", "prs"},
		{"template fallback", "http://go/prs", "https://github.com/pulls?q=is:open+is:pr+review-requested:@me+archived:false", "prs"},
		{"template fallback trailing slash", "/prs/", "https://github.com/pulls?q=is:open+is:pr+review-requested:@me+archived:false", "prs"},
		{"input query ignored", "/foo/bar?utm=1", "http://example.com/bar", "foo"},
		{"repeated slashes", "//foo///bar//", "http://example.com/bar", "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.input, lookup)
			require.NoError(t, err)
			assert.Equal(t, Resolution{Kind: KindRedirect, Shortlink: tt.shortlink, URL: tt.url}, res)
		})
	}
}

func TestResolveMetadata(t *testing.T) {
	for _, input := range []string{"/test+", "/tEs-t+", "http://go/test/+", "/test/a/b+"} {
		t.Run(input, func(t *testing.T) {
			calls := 0
			res, err := Resolve(input, func(key string) (string, bool) {
				calls++
				return lookup(key)
			})
			require.NoError(t, err)
			assert.Equal(t, Resolution{Kind: KindMetadata, Shortlink: "test"}, res)
			assert.Zero(t, calls, "metadata requests must not call lookup")
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmptyInput},
		{"root", "http://go/", ErrEmptyInput},
		{"slash", "/", ErrEmptyInput},
		{"host only", "http://go", ErrEmptyInput},
		{"whitespace", "  \n", ErrEmptyInput},
		{"hyphens only", "/---", ErrEmptyInput},
		{"bare marker", "/+", ErrEmptyInput},
		{"unknown", "/nope", ErrNotFound},
		{"malformed template", "/broken", ErrUnterminatedConditional},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.input, lookup)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, Resolution{}, res)
		})
	}
}

func TestResolveNotFoundCarriesKey(t *testing.T) {
	_, err := Resolve("/My-Missing", lookup)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "mymissing", nf.Shortlink)
	assert.Equal(t, "shortlink 'mymissing' not found", err.Error())
	assert.NotErrorIs(t, err, ErrTemplate)
}

func TestResolveTemplateErrorIsNotNotFound(t *testing.T) {
	_, err := Resolve("/broken/x", lookup)

	var te *TemplateError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, ErrTemplate)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrEmptyInput)
}

func TestResolveCallsLookupOnce(t *testing.T) {
	var keys []string
	_, err := Resolve("http://go/My-Service/docs", func(key string) (string, bool) {
		keys = append(keys, key)
		return "https://docs.example.com", true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"myservice"}, keys)

	keys = nil
	_, err = Resolve("/missing", func(key string) (string, bool) {
		keys = append(keys, key)
		return "", false
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, keys, 1)
}

func TestResolveContextLookupError(t *testing.T) {
	boom := errors.New("db down")
	_, err := ResolveContext(context.Background(), "/foo", func(context.Context, string) (string, bool, error) {
		return "", false, boom
	})

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"foo"`)
}

func TestResolveContextPassesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "v")

	res, err := ResolveContext(ctx, "/foo", func(ctx context.Context, key string) (string, bool, error) {
		assert.Equal(t, "v", ctx.Value(ctxKey{}))
		return "http://example.com", true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", res.URL)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "redirect", KindRedirect.String())
	assert.Equal(t, "metadata", KindMetadata.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
