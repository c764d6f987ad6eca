package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// PaginationParams is a keyset cursor over (created_at, id). Listings
// order by created_at DESC, id DESC; the id tiebreak keeps rows created
// in the same microsecond (batch seeds, concurrent predictions) from
// being skipped or repeated across pages.
type PaginationParams struct {
	Limit    int
	Before   *time.Time
	BeforeID uint
}

type CursorResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

// EncodeCursor renders the "timestamp,id" cursor token for the last row
// of a page.
func EncodeCursor(t time.Time, id uint) string {
	return fmt.Sprintf("%s,%d", t.Format(time.RFC3339Nano), id)
}

// ParsePagination reads the limit and before query parameters. The
// cursor is "timestamp,id"; a bare timestamp is accepted too.
// Unparseable values fall back to defaults rather than erroring.
func ParsePagination(c *gin.Context) PaginationParams {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	cursor := c.Query("before")
	if cursor == "" {
		return p
	}

	tsPart := cursor
	if i := strings.LastIndexByte(cursor, ','); i >= 0 {
		tsPart = cursor[:i]
		if id, err := strconv.ParseUint(cursor[i+1:], 10, 64); err == nil {
			p.BeforeID = uint(id)
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, tsPart); err == nil {
		p.Before = &t
	} else {
		p.BeforeID = 0
	}

	return p
}

// applyCursor adds the keyset condition for a created_at DESC, id DESC
// listing.
func applyCursor(query *gorm.DB, p PaginationParams) *gorm.DB {
	if p.Before == nil {
		return query
	}
	if p.BeforeID > 0 {
		return query.Where("(created_at, id) < (?, ?)", *p.Before, p.BeforeID)
	}
	return query.Where("created_at < ?", *p.Before)
}
