package link

import (
	"context"
	"database/sql"
	"errors"

	"golink/metrics"
)

// resolveURL looks up a shortlink from cache or DB.
// Returns (url, cacheHit, error)
func (l *Link) resolveURL(ctx context.Context, shortlink string) (string, bool, error) {
	if l.Cache != nil {
		if v, ok := l.Cache.Get(shortlink); ok {
			if s, ok := v.(string); ok {
				metrics.CacheLookups.WithLabelValues("hit").Inc()
				return s, true, nil
			}
			l.Cache.Remove(shortlink) // type mismatch, evict
		}
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	linkRow, err := l.Q.GetLink(ctx, shortlink)
	if err != nil {
		return "", false, err
	}

	if l.Cache != nil {
		l.Cache.Add(shortlink, linkRow.Url)
	}
	return linkRow.Url, false, nil
}

// lookup adapts resolveURL to resolver.ContextLookupFunc.
func (l *Link) lookup(ctx context.Context, shortlink string) (string, bool, error) {
	url, _, err := l.resolveURL(ctx, shortlink)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

func (l *Link) forget(shortlink string) {
	if l.Cache != nil {
		l.Cache.Remove(shortlink)
	}
}
