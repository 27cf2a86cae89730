package link

import (
	"context"
	"time"

	"go.uber.org/zap"

	"golink/db"
	"golink/metrics"
	"golink/workers"
)

// enqueueClick sends a click to the worker if possible.
// If the worker is full or not configured, falls back to direct writes.
func (l *Link) enqueueClick(ctx context.Context, shortlink string) {
	ev := workers.ClickEvent{Shortlink: shortlink, Time: time.Now()}

	if l.Worker != nil {
		if l.Worker.Enqueue(ev) {
			return
		}
		l.writeClickFallback(ctx, shortlink, "worker full")
		return
	}

	l.writeClickFallback(ctx, shortlink, "no worker configured")
}

func (l *Link) writeClickFallback(ctx context.Context, shortlink, reason string) {
	metrics.ClicksFallback.Inc()
	if err := l.Q.AddClick(ctx, db.AddClickParams{Clicks: 1, Shortlink: shortlink}); err != nil {
		l.Log.Debug("fallback AddClick failed", zap.String("shortlink", shortlink), zap.Error(err))
	}
	if err := l.Q.SaveDailyClicks(ctx, db.SaveDailyClicksParams{Shortlink: shortlink, Clicks: 1}); err != nil {
		l.Log.Debug("fallback SaveDailyClicks failed", zap.String("shortlink", shortlink), zap.Error(err))
	}
	l.Log.Debug("click worker fallback sync increment", zap.String("shortlink", shortlink), zap.String("reason", reason))
}
