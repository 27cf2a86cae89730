package db

import (
	"database/sql"
	"time"
)

type Link struct {
	ID        int64          `json:"id"`
	Shortlink string         `json:"shortlink"`
	Url       string         `json:"url"`
	Owner     sql.NullString `json:"-"`
	Clicks    int64          `json:"clicks"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type DailyClick struct {
	Shortlink string `json:"shortlink"`
	Day       string `json:"day"`
	Clicks    int64  `json:"clicks"`
}
