package helpers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/labstack/echo/v4"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"golink/db"
)

// TryInsertWithRetry stores url under a freshly generated shortlink, drawing
// a new key whenever the previous one is already taken.
func TryInsertWithRetry(ctx context.Context, q *db.Queries, params db.AddLinkParams, maxRetries int, log *zap.Logger) (db.Link, error) {
	var created db.Link

	operation := func() error {
		shortlink, err := NewShortlink()
		if err != nil {
			return retry.Unrecoverable(err)
		}
		params.Shortlink = shortlink

		link, err := q.AddLink(ctx, params)
		if err == nil {
			created = link
			return nil
		}

		if IsUniqueConstraint(err) {
			return err
		}

		return retry.Unrecoverable(err)
	}

	err := retry.Do(
		operation,
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries)),
		retry.Delay(50*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("retrying shortlink insert", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)

	return created, err
}

// IsUniqueConstraint reports whether err is a unique-key violation from
// sqlite or libsql.
func IsUniqueConstraint(err error) bool {
	if err == nil {
		return false
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		if se.ExtendedCode == sqlite3.ErrConstraintUnique || se.Code == sqlite3.ErrConstraint {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "constraint failed")
}

func BuildShortURL(c echo.Context, baseHost, shortlink string) string {
	if baseHost != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(baseHost, "/"), shortlink)
	}

	req := c.Request()
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, req.Host, shortlink)
}
