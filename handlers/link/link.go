package link

import (
	"database/sql"
	"errors"
	"net/http"
	"regexp"

	lru "github.com/hashicorp/golang-lru"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"golink/db"
	h "golink/helpers"
	"golink/resolver"
	"golink/workers"
)

const (
	maxInsertRetries = 5
	defaultPageSize  = 100
	maxPageSize      = 1000
)

var shortlinkRe = regexp.MustCompile(`^[a-z0-9_.]{1,64}$`)

// Keys that collide with the service's own routes.
var reservedShortlinks = map[string]struct{}{
	"api":     {},
	"healthz": {},
	"metrics": {},
}

// Link handler contains dependencies for link endpoints.
type Link struct {
	Q        *db.Queries
	Log      *zap.Logger
	BaseHost string
	Worker   *workers.ClickWorker
	Cache    *lru.Cache
}

func New(q *db.Queries, log *zap.Logger, baseHost string, cw *workers.ClickWorker, cache *lru.Cache) *Link {
	return &Link{
		Q:        q,
		Log:      log,
		BaseHost: baseHost,
		Worker:   cw,
		Cache:    cache,
	}
}

type createRequest struct {
	Shortlink string `json:"shortlink" validate:"omitempty,max=128"`
	URL       string `json:"url" validate:"required,max=2048"`
	Owner     string `json:"owner" validate:"omitempty,max=128"`
}

type updateRequest struct {
	URL string `json:"url" validate:"required,max=2048"`
}

// POST /api/v1/links
func (l *Link) Create(c echo.Context) error {
	var req createRequest
	if ok, err := h.BindAndValidate(c, &req); !ok {
		return err
	}
	if _, err := resolver.ParseTemplate(req.URL); err != nil {
		return h.JSONError(c, http.StatusBadRequest, "invalid url template: "+err.Error())
	}

	params := db.AddLinkParams{
		Url:   req.URL,
		Owner: sql.NullString{String: req.Owner, Valid: req.Owner != ""},
	}

	ctx := c.Request().Context()
	var link db.Link
	var err error
	if req.Shortlink == "" {
		link, err = h.TryInsertWithRetry(ctx, l.Q, params, maxInsertRetries, l.Log)
	} else {
		params.Shortlink = resolver.Normalize(req.Shortlink)
		if msg := checkShortlink(params.Shortlink); msg != "" {
			return h.JSONError(c, http.StatusBadRequest, msg)
		}
		link, err = l.Q.AddLink(ctx, params)
		if h.IsUniqueConstraint(err) {
			return h.JSONError(c, http.StatusConflict, "shortlink already exists")
		}
	}
	if err != nil {
		l.Log.Error("failed to create shortlink", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "couldn't create shortlink")
	}

	// a previous miss may still be cached under this key
	l.forget(link.Shortlink)

	short := h.BuildShortURL(c, l.BaseHost, link.Shortlink)
	c.Response().Header().Set("Location", short)

	return h.JSONSuccess(c, http.StatusCreated, map[string]any{
		"id":        link.ID,
		"shortlink": link.Shortlink,
		"short_url": short,
		"url":       link.Url,
	}, "")
}

// GET /api/v1/links
func (l *Link) List(c echo.Context) error {
	limit, offset := int64(defaultPageSize), int64(0)
	if err := echo.QueryParamsBinder(c).
		Int64("limit", &limit).
		Int64("offset", &offset).
		BindError(); err != nil {
		return h.JSONError(c, http.StatusBadRequest, "invalid pagination")
	}
	if limit <= 0 || limit > maxPageSize || offset < 0 {
		return h.JSONError(c, http.StatusBadRequest, "invalid pagination")
	}

	links, err := l.Q.ListLinks(c.Request().Context(), db.ListLinksParams{Limit: limit, Offset: offset})
	if err != nil {
		l.Log.Error("failed to list shortlinks", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}
	if links == nil {
		links = []db.Link{}
	}

	return h.JSONSuccess(c, http.StatusOK, map[string]any{
		"links":  links,
		"limit":  limit,
		"offset": offset,
	}, "")
}

// PUT /api/v1/links/:shortlink
func (l *Link) Update(c echo.Context) error {
	shortlink := resolver.Normalize(c.Param("shortlink"))

	var req updateRequest
	if ok, err := h.BindAndValidate(c, &req); !ok {
		return err
	}
	if _, err := resolver.ParseTemplate(req.URL); err != nil {
		return h.JSONError(c, http.StatusBadRequest, "invalid url template: "+err.Error())
	}

	link, err := l.Q.UpdateLinkURL(c.Request().Context(), db.UpdateLinkURLParams{Url: req.URL, Shortlink: shortlink})
	if errors.Is(err, sql.ErrNoRows) {
		return h.JSONError(c, http.StatusNotFound, "not found")
	}
	if err != nil {
		l.Log.Error("failed to update shortlink", zap.String("shortlink", shortlink), zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}
	l.forget(shortlink)

	return h.JSONSuccess(c, http.StatusOK, link, "")
}

// DELETE /api/v1/links/:shortlink
func (l *Link) Delete(c echo.Context) error {
	shortlink := resolver.Normalize(c.Param("shortlink"))
	ctx := c.Request().Context()

	n, err := l.Q.DeleteLink(ctx, shortlink)
	if err != nil {
		l.Log.Error("failed to delete shortlink", zap.String("shortlink", shortlink), zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}
	if n == 0 {
		return h.JSONError(c, http.StatusNotFound, "not found")
	}
	l.forget(shortlink)

	if err := l.Q.DeleteDailyClicks(ctx, shortlink); err != nil {
		l.Log.Warn("failed to delete daily clicks", zap.String("shortlink", shortlink), zap.Error(err))
	}
	return h.JSONSuccess(c, http.StatusNoContent, nil, "")
}

// GET /api/v1/links/:shortlink/stats
func (l *Link) Stats(c echo.Context) error {
	shortlink := resolver.Normalize(c.Param("shortlink"))
	if shortlink == "" {
		return h.JSONError(c, http.StatusBadRequest, "missing shortlink")
	}
	return l.writeStats(c, shortlink)
}

func (l *Link) writeStats(c echo.Context, shortlink string) error {
	ctx := c.Request().Context()
	linkRow, err := l.Q.GetLink(ctx, shortlink)
	if errors.Is(err, sql.ErrNoRows) {
		return h.JSONError(c, http.StatusNotFound, "not found")
	}
	if err != nil {
		l.Log.Error("failed to fetch link stats", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}

	dailyRows, err := l.Q.GetDailyClicks(ctx, shortlink)
	if err != nil {
		l.Log.Error("failed to fetch daily clicks", zap.Error(err))
		return h.JSONError(c, http.StatusInternalServerError, "db error")
	}

	daily := make([]map[string]any, 0, len(dailyRows))
	for _, r := range dailyRows {
		daily = append(daily, map[string]any{
			"day":    r.Day,
			"clicks": r.Clicks,
		})
	}

	return h.JSONSuccess(c, http.StatusOK, map[string]any{
		"shortlink":  linkRow.Shortlink,
		"url":        linkRow.Url,
		"owner":      linkRow.Owner.String,
		"short_url":  h.BuildShortURL(c, l.BaseHost, linkRow.Shortlink),
		"total":      linkRow.Clicks,
		"daily":      daily,
		"created_at": linkRow.CreatedAt,
		"updated_at": linkRow.UpdatedAt,
	}, "")
}

func checkShortlink(shortlink string) string {
	if !shortlinkRe.MatchString(shortlink) {
		return "shortlink may only contain letters, digits, '_', '.' and '-' (max 64)"
	}
	if _, ok := reservedShortlinks[shortlink]; ok {
		return "shortlink is reserved"
	}
	return ""
}
