package link

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	h "golink/helpers"
	"golink/metrics"
	"golink/resolver"
)

// GET /*  and HEAD
//
// go/foo/bar redirects through the stored template for foo; go/foo+ answers
// with the shortlink's stats instead.
func (l *Link) Redirect(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := resolver.ResolveContext(ctx, c.Request().URL.EscapedPath(), l.lookup)
	if err != nil {
		return l.resolveError(c, err)
	}

	if res.Kind == resolver.KindMetadata {
		metrics.Resolutions.WithLabelValues(metrics.OutcomeMetadata).Inc()
		return l.writeStats(c, res.Shortlink)
	}

	metrics.Resolutions.WithLabelValues(metrics.OutcomeRedirect).Inc()
	l.enqueueClick(ctx, res.Shortlink)
	return c.Redirect(http.StatusFound, res.URL)
}

func (l *Link) resolveError(c echo.Context, err error) error {
	var nf *resolver.NotFoundError
	switch {
	case errors.Is(err, resolver.ErrEmptyInput):
		metrics.Resolutions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return h.JSONError(c, http.StatusBadRequest, "missing shortlink")
	case errors.As(err, &nf):
		metrics.Resolutions.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return h.JSONError(c, http.StatusNotFound, nf)
	case errors.Is(err, resolver.ErrTemplate):
		metrics.Resolutions.WithLabelValues(metrics.OutcomeTemplateError).Inc()
		l.Log.Error("stored template is malformed", zap.String("path", c.Request().URL.Path), zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "shortlink is misconfigured")
	default:
		metrics.Resolutions.WithLabelValues(metrics.OutcomeError).Inc()
		l.Log.Error("shortlink lookup failed", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}
}
