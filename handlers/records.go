package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"medical-cost-api/models"
	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecordsHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewRecordsHandler(db *gorm.DB, cache *services.CacheService) *RecordsHandler {
	return &RecordsHandler{db: db, cache: cache}
}

// List handles GET /api/v1/records with cursor pagination and optional
// source / training-flag filters.
func (h *RecordsHandler) List(c *gin.Context) {
	p := ParsePagination(c)
	source := c.Query("source")
	training := c.Query("is_training_data")

	cacheKey := fmt.Sprintf("medicost:records:%s:%s:%d:%s", source, training, p.Limit, c.Query("before"))

	var cached CursorResponse
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.InsuranceRecord{}).
		Order("created_at DESC, id DESC").
		Limit(p.Limit + 1)

	query = applyCursor(query, p)
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if training == "true" || training == "false" {
		query = query.Where("is_training_data = ?", training == "true")
	}

	var rows []models.InsuranceRecord
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	resp := CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}

// Predictions handles GET /api/v1/predictions, listing stored prediction
// results newest first.
func (h *RecordsHandler) Predictions(c *gin.Context) {
	p := ParsePagination(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.PredictionResult{}).
		Order("created_at DESC, id DESC").
		Limit(p.Limit + 1)

	query = applyCursor(query, p)

	var rows []models.PredictionResult
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > p.Limit
	if hasMore {
		rows = rows[:p.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = EncodeCursor(last.CreatedAt, last.ID)
	}

	c.JSON(http.StatusOK, CursorResponse{Data: rows, NextCursor: nextCursor, HasMore: hasMore})
}
