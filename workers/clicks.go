package workers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"

	"golink/db"
	"golink/metrics"
)

// ClickEvent represents one redirect through a shortlink.
type ClickEvent struct {
	Shortlink string
	Time      time.Time
}

// ClickWorker batches click events and writes them to DB in one transaction
// per flush.
type ClickWorker struct {
	db            *sql.DB
	q             *db.Queries
	log           *zap.Logger
	in            chan ClickEvent
	batchSize     int
	flushInterval time.Duration
	closed        chan struct{}
}

// NewClickWorker creates the worker. Requires sqlDB (the *sql.DB you opened).
func NewClickWorker(sqlDB *sql.DB, q *db.Queries, log *zap.Logger, batchSize int, flushInterval time.Duration, buffer int) *ClickWorker {
	return &ClickWorker{
		db:            sqlDB,
		q:             q,
		log:           log,
		in:            make(chan ClickEvent, buffer),
		batchSize:     batchSize,
		flushInterval: flushInterval,
		closed:        make(chan struct{}),
	}
}

func (w *ClickWorker) Start() { go w.loop() }

// Stop drains pending events, flushes them and waits for the loop to exit.
// Enqueue must not be called after Stop.
func (w *ClickWorker) Stop() {
	close(w.in)
	<-w.closed
}

// Enqueue hands ev to the worker without blocking. It returns false when the
// buffer is full.
func (w *ClickWorker) Enqueue(ev ClickEvent) bool {
	select {
	case w.in <- ev:
		return true
	default:
		return false
	}
}

// buildUpsertDaily builds a multi-row upsert for daily_clicks (uses date('now')).
func buildUpsertDaily(rows map[string]int64) (string, []interface{}) {
	v := make([]string, 0, len(rows))
	args := make([]interface{}, 0, len(rows)*2)
	for shortlink, cnt := range rows {
		v = append(v, "(?, date('now'), ?)")
		args = append(args, shortlink, cnt)
	}
	q := fmt.Sprintf(
		"INSERT INTO daily_clicks (shortlink, day, clicks) VALUES %s ON CONFLICT(shortlink, day) DO UPDATE SET clicks = clicks + excluded.clicks;",
		strings.Join(v, ","),
	)
	return q, args
}

func (w *ClickWorker) loop() {
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()
	defer close(w.closed)

	counts := make(map[string]int64)
	total := 0

	flush := func() {
		if total == 0 {
			return
		}
		toFlush := counts
		flushed := total
		counts = make(map[string]int64)
		total = 0

		ctx, cancel := context.WithTimeout(context.Background(), 6*time.Second)
		defer cancel()

		dailyQ, dailyArgs := buildUpsertDaily(toFlush)

		err := retry.Do(
			func() error {
				tx, err := w.db.BeginTx(ctx, nil)
				if err != nil {
					return err
				}
				qtx := w.q.WithTx(tx)
				for shortlink, cnt := range toFlush {
					if err := qtx.AddClick(ctx, db.AddClickParams{Clicks: cnt, Shortlink: shortlink}); err != nil {
						_ = tx.Rollback()
						return err
					}
				}
				if _, err := tx.ExecContext(ctx, dailyQ, dailyArgs...); err != nil {
					_ = tx.Rollback()
					return err
				}
				return tx.Commit()
			},
			retry.Context(ctx),
			retry.Attempts(3),
			retry.Delay(125*time.Millisecond),
			retry.DelayType(retry.BackOffDelay),
			retry.OnRetry(func(n uint, err error) {
				w.log.Warn("retrying click batch", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)

		if err != nil {
			w.log.Error("click batch failed; attempting per-shortlink fallback", zap.Int("unique_shortlinks", len(toFlush)), zap.Error(err))
			w.perShortlinkFallback(ctx, toFlush)
			return
		}
		metrics.ClicksFlushed.Add(float64(flushed))
		w.log.Debug("click batch flushed", zap.Int("unique_shortlinks", len(toFlush)), zap.Int("events", flushed))
	}

	for {
		select {
		case ev, ok := <-w.in:
			if !ok {
				flush()
				return
			}
			counts[ev.Shortlink]++
			total++
			if total >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// perShortlinkFallback writes each shortlink on its own when the batch
// transaction keeps failing.
func (w *ClickWorker) perShortlinkFallback(ctx context.Context, rows map[string]int64) {
	for shortlink, cnt := range rows {
		if cnt <= 0 {
			continue
		}
		if err := w.q.AddClick(ctx, db.AddClickParams{Clicks: cnt, Shortlink: shortlink}); err != nil {
			w.log.Error("fallback AddClick failed", zap.String("shortlink", shortlink), zap.Int64("count", cnt), zap.Error(err))
		}
		if err := w.q.SaveDailyClicks(ctx, db.SaveDailyClicksParams{Shortlink: shortlink, Clicks: cnt}); err != nil {
			w.log.Error("fallback SaveDailyClicks failed", zap.String("shortlink", shortlink), zap.Int64("count", cnt), zap.Error(err))
		}
	}
}
