package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"go.ngs.io/tide-clock/internal/adapter/cache"
	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/usecase"
)

// Handler handles HTTP requests for tide predictions.
type Handler struct {
	predictionUC *usecase.PredictionUseCase
	models       *cache.ModelCache
}

// NewHandler creates a new HTTP handler. models is only used for health
// reporting and may be nil.
func NewHandler(predictionUC *usecase.PredictionUseCase, models *cache.ModelCache) *Handler {
	return &Handler{
		predictionUC: predictionUC,
		models:       models,
	}
}

// GetDay handles GET /v1/tides/day.
func (h *Handler) GetDay(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date parameter is required"})
		return
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid tz: %v", err)})
			return
		}
		loc = l
	}

	timeStr := c.DefaultQuery("time", "00:00")
	date, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid date/time (expected YYYY-MM-DD and HH:MM): %v", err)})
		return
	}

	req := usecase.PredictionRequest{
		Date:      date,
		StationID: c.Query("station_id"),
	}

	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid latitude: %v", err)})
			return
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid longitude: %v", err)})
			return
		}
		req.Lat = &lat
		req.Lon = &lon
	}

	if dstStr := c.Query("dst"); dstStr != "" {
		dst, err := strconv.ParseFloat(dstStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid dst: %v", err)})
			return
		}
		req.DSTOffsetHours = dst
	}

	if req.Refine, err = boolQuery(c, "refine"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DedupPlateaus, err = boolQuery(c, "dedup"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.predictionUC.Execute(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCorrections handles GET /v1/corrections.
func (h *Handler) GetCorrections(c *gin.Context) {
	yearStr := c.Query("year")
	if yearStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year parameter is required"})
		return
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid year: %v", err)})
		return
	}

	response, err := h.predictionUC.Corrections(usecase.CorrectionsRequest{
		Year:      year,
		StationID: c.Query("station_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetConstituents handles GET /v1/constituents.
func (h *Handler) GetConstituents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"constituents": usecase.Constituents(),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.models != nil {
		body["model_cache"] = h.models.Stats()
	}
	c.JSON(http.StatusOK, body)
}

func boolQuery(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %v", name, err)
	}
	return v, nil
}

// respondError maps use case errors to status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
