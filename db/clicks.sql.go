package db

import (
	"context"
)

const addClick = `-- name: AddClick :exec
UPDATE links SET clicks = clicks + ?
WHERE shortlink = ?
`

type AddClickParams struct {
	Clicks    int64
	Shortlink string
}

func (q *Queries) AddClick(ctx context.Context, arg AddClickParams) error {
	_, err := q.db.ExecContext(ctx, addClick, arg.Clicks, arg.Shortlink)
	return err
}

const saveDailyClicks = `-- name: SaveDailyClicks :exec
INSERT INTO daily_clicks (shortlink, day, clicks)
VALUES (?, date('now'), ?)
ON CONFLICT(shortlink, day) DO UPDATE SET clicks = clicks + excluded.clicks
`

type SaveDailyClicksParams struct {
	Shortlink string
	Clicks    int64
}

func (q *Queries) SaveDailyClicks(ctx context.Context, arg SaveDailyClicksParams) error {
	_, err := q.db.ExecContext(ctx, saveDailyClicks, arg.Shortlink, arg.Clicks)
	return err
}

const getDailyClicks = `-- name: GetDailyClicks :many
SELECT shortlink, day, clicks FROM daily_clicks
WHERE shortlink = ?
ORDER BY day DESC
LIMIT 30
`

func (q *Queries) GetDailyClicks(ctx context.Context, shortlink string) ([]DailyClick, error) {
	rows, err := q.db.QueryContext(ctx, getDailyClicks, shortlink)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyClick
	for rows.Next() {
		var i DailyClick
		if err := rows.Scan(&i.Shortlink, &i.Day, &i.Clicks); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDailyClicks = `-- name: DeleteDailyClicks :exec
DELETE FROM daily_clicks WHERE shortlink = ?
`

func (q *Queries) DeleteDailyClicks(ctx context.Context, shortlink string) error {
	_, err := q.db.ExecContext(ctx, deleteDailyClicks, shortlink)
	return err
}
