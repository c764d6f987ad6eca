package handlers

import (
	"context"
	"net/http"
	"time"

	"medical-cost-api/models"
	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MetadataHandler struct {
	db           *gorm.DB
	artifacts    *services.ArtifactStore
	cache        *services.CacheService
	modelVersion string
}

func NewMetadataHandler(db *gorm.DB, artifacts *services.ArtifactStore, cache *services.CacheService, modelVersion string) *MetadataHandler {
	return &MetadataHandler{db: db, artifacts: artifacts, cache: cache, modelVersion: modelVersion}
}

// History handles GET /api/v1/metadata: the retrain audit trail, newest
// first.
func (h *MetadataHandler) History(c *gin.Context) {
	p := ParsePagination(c)

	query := h.db.WithContext(c.Request.Context()).
		Model(&models.ModelMetadata{}).
		Order("created_at DESC, id DESC").
		Limit(p.Limit + 1)

	query = applyCursor(query, p)

	var rows []models.ModelMetadata
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

// ModelInfo is the current-model view served by GET /api/v1/model.
type ModelInfo struct {
	ModelType    string    `json:"model_type"`
	ModelVersion string    `json:"model_version"`
	FeatureWidth int       `json:"n_features"`
	TrainedAt    time.Time `json:"trained_at"`
}

// Model handles GET /api/v1/model. Cached until the next retrain
// invalidates the key.
func (h *MetadataHandler) Model(c *gin.Context) {
	var cached ModelInfo
	if err := h.cache.Get(c.Request.Context(), services.CacheKeyModelInfo, &cached); err == nil && cached.ModelType != "" {
		c.JSON(http.StatusOK, cached)
		return
	}

	model, err := h.artifacts.LoadModel()
	if err != nil {
		respondServiceError(c, err, "model info unavailable")
		return
	}

	info := ModelInfo{
		ModelType:    model.ModelType,
		ModelVersion: h.modelVersion,
		FeatureWidth: len(model.Coefficients),
		TrainedAt:    model.TrainedAt,
	}
	go h.cache.Set(context.Background(), services.CacheKeyModelInfo, info, 10*time.Minute)

	c.JSON(http.StatusOK, info)
}
