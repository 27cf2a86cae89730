package db

import (
	"context"
	"database/sql"
)

const addLink = `-- name: AddLink :one
INSERT INTO links (shortlink, url, owner)
VALUES (?, ?, ?)
RETURNING id, shortlink, url, owner, clicks, created_at, updated_at
`

type AddLinkParams struct {
	Shortlink string
	Url       string
	Owner     sql.NullString
}

func (q *Queries) AddLink(ctx context.Context, arg AddLinkParams) (Link, error) {
	row := q.db.QueryRowContext(ctx, addLink, arg.Shortlink, arg.Url, arg.Owner)
	var i Link
	err := row.Scan(
		&i.ID,
		&i.Shortlink,
		&i.Url,
		&i.Owner,
		&i.Clicks,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getLink = `-- name: GetLink :one
SELECT id, shortlink, url, owner, clicks, created_at, updated_at FROM links
WHERE shortlink = ? LIMIT 1
`

func (q *Queries) GetLink(ctx context.Context, shortlink string) (Link, error) {
	row := q.db.QueryRowContext(ctx, getLink, shortlink)
	var i Link
	err := row.Scan(
		&i.ID,
		&i.Shortlink,
		&i.Url,
		&i.Owner,
		&i.Clicks,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listLinks = `-- name: ListLinks :many
SELECT id, shortlink, url, owner, clicks, created_at, updated_at FROM links
ORDER BY shortlink
LIMIT ? OFFSET ?
`

type ListLinksParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListLinks(ctx context.Context, arg ListLinksParams) ([]Link, error) {
	rows, err := q.db.QueryContext(ctx, listLinks, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Link
	for rows.Next() {
		var i Link
		if err := rows.Scan(
			&i.ID,
			&i.Shortlink,
			&i.Url,
			&i.Owner,
			&i.Clicks,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
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

const updateLinkURL = `-- name: UpdateLinkURL :one
UPDATE links SET url = ?, updated_at = CURRENT_TIMESTAMP
WHERE shortlink = ?
RETURNING id, shortlink, url, owner, clicks, created_at, updated_at
`

type UpdateLinkURLParams struct {
	Url       string
	Shortlink string
}

func (q *Queries) UpdateLinkURL(ctx context.Context, arg UpdateLinkURLParams) (Link, error) {
	row := q.db.QueryRowContext(ctx, updateLinkURL, arg.Url, arg.Shortlink)
	var i Link
	err := row.Scan(
		&i.ID,
		&i.Shortlink,
		&i.Url,
		&i.Owner,
		&i.Clicks,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteLink = `-- name: DeleteLink :execrows
DELETE FROM links WHERE shortlink = ?
`

func (q *Queries) DeleteLink(ctx context.Context, shortlink string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLink, shortlink)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
