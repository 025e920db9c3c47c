package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/deal-comb/app/bluesky"
	"github.com/lysyi3m/deal-comb/app/database"
	"github.com/lysyi3m/deal-comb/app/deal"
	"github.com/lysyi3m/deal-comb/app/feed"
	"github.com/lysyi3m/deal-comb/app/tasks"
)

func NewHandler(defaultFeed *feed.Config, configCache *feed.ConfigCache, builder BuilderInterface,
	generator GeneratorInterface, seenRepo database.SeenRepository,
	scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		defaultFeed: defaultFeed,
		configCache: configCache,
		builder:     builder,
		generator:   generator,
		seenRepo:    seenRepo,
		scheduler:   scheduler,
		version:     version,
	}
}

func (h *Handler) GetDeals(c *gin.Context) {
	deals, ok := h.buildDeals(c, h.defaultFeed)
	if !ok {
		return
	}
	h.writeDeals(c, h.defaultFeed, deals)
}

func (h *Handler) GetFeed(c *gin.Context) {
	feedConfig, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	deals, ok := h.buildDeals(c, feedConfig)
	if !ok {
		return
	}
	h.writeDeals(c, feedConfig, deals)
}

func (h *Handler) GetFeedRSS(c *gin.Context) {
	feedConfig, ok := h.lookupFeed(c)
	if !ok {
		return
	}

	deals, ok := h.buildDeals(c, feedConfig)
	if !ok {
		return
	}

	rss, err := h.generator.Run(feedConfig, deals)
	if err != nil {
		slog.Error("RSS generation error", "feed", feedConfig.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(deals)))
	c.Header("X-Feed-Name", feedConfig.Name)

	c.String(http.StatusOK, rss)
}

// lookupFeed resolves :name to an enabled feed config or writes a 404.
func (h *Handler) lookupFeed(c *gin.Context) (*feed.Config, bool) {
	name := c.Param("name")
	if name == "" {
		c.Status(http.StatusBadRequest)
		return nil, false
	}

	feedConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Debug("Feed configuration not found", "feed", name, "error", err)
		c.Status(http.StatusNotFound)
		return nil, false
	}

	if !feedConfig.Settings.Enabled {
		slog.Debug("Feed disabled", "feed", name)
		c.Status(http.StatusNotFound)
		return nil, false
	}

	return feedConfig, true
}

// buildDeals runs the pipeline and writes the error response on failure.
func (h *Handler) buildDeals(c *gin.Context, feedConfig *feed.Config) ([]deal.Deal, bool) {
	deals, err := h.builder.Run(c.Request.Context(), feedConfig)
	if err == nil {
		return deals, true
	}

	var fetchErr *bluesky.FetchError
	if errors.As(err, &fetchErr) {
		slog.Error("Upstream fetch failed", "feed", feedConfig.Name, "actor", feedConfig.Actor, "status", fetchErr.Status, "error", err)
		c.String(http.StatusBadGateway, "Bluesky fetch error (%s)", fetchErr.Reason())
		return nil, false
	}

	slog.Error("Feed build failed", "feed", feedConfig.Name, "error", err)
	c.String(http.StatusInternalServerError, "Internal server error")
	return nil, false
}

func (h *Handler) writeDeals(c *gin.Context, feedConfig *feed.Config, deals []deal.Deal) {
	if deals == nil {
		deals = []deal.Deal{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(deals); err != nil {
		slog.Error("JSON encoding error", "feed", feedConfig.Name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Feed-Items", strconv.Itoa(len(deals)))
	c.Header("X-Feed-Name", feedConfig.Name)

	c.Data(http.StatusOK, "application/json", bytes.TrimRight(buf.Bytes(), "\n"))
}

func (h *Handler) GetSeen(c *gin.Context) {
	clientID := c.Param("client")

	ids, err := h.seenRepo.GetSeen(clientID)
	if err != nil {
		slog.Error("Database error", "operation", "get_seen", "client", clientID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client": clientID,
		"ids":    ids,
		"total":  len(ids),
	})
}

func (h *Handler) HasSeen(c *gin.Context) {
	clientID := c.Param("client")
	dealID := c.Param("id")

	seen, err := h.seenRepo.HasSeen(clientID, dealID)
	if err != nil {
		slog.Error("Database error", "operation", "has_seen", "client", clientID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   dealID,
		"seen": seen,
	})
}

func (h *Handler) MarkSeen(c *gin.Context) {
	clientID := c.Param("client")

	var req markSeenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	inserted, err := h.seenRepo.MarkSeen(clientID, req.IDs...)
	if err != nil {
		slog.Error("Database error", "operation", "mark_seen", "client", clientID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client":   clientID,
		"inserted": inserted,
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":                 "ok",
		"timestamp":              time.Now().In(time.Local).Format(time.RFC3339),
		"version":                h.version,
		"actor":                  h.defaultFeed.Actor,
		"source":                 h.defaultFeed.Source,
		"loaded_configurations":  h.configCache.GetConfigCount(),
		"enabled_configurations": len(h.configCache.GetEnabledConfigs()),
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListFeeds(c *gin.Context) {
	configs := h.configCache.GetConfigs()
	if c.Query("enabled") == "true" {
		configs = h.configCache.GetEnabledConfigs()
	}

	feeds := make([]map[string]interface{}, 0, len(configs))
	for _, feedConfig := range configs {
		feeds = append(feeds, feedSummary(feedConfig))
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": feeds,
		"total": len(feeds),
	})
}

func (h *Handler) APIGetFeedDetails(c *gin.Context) {
	name := c.Param("name")

	feedConfig, err := h.configCache.GetConfig(name)
	if err != nil {
		slog.Error("Feed configuration not found", "feed", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	details := feedSummary(feedConfig)
	details["timeout"] = "none"
	if feedConfig.Settings.Timeout > 0 {
		details["timeout"] = (time.Duration(feedConfig.Settings.Timeout) * time.Second).String()
	}
	// The effective table, with keywords as they are matched.
	details["platforms"] = feedConfig.Classifier().Platforms()

	c.JSON(http.StatusOK, details)
}

func (h *Handler) APIReloadFeed(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Feed configuration not found", "feed", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Feed configuration not found"})
		return
	}

	task := tasks.NewReloadFeedConfigTask(name, h.configCache)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue ReloadFeedConfigTask", "feed", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to schedule reload"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Reload scheduled",
		"feed":    name,
		"task_id": task.GetID(),
	})
}

func feedSummary(feedConfig *feed.Config) map[string]interface{} {
	return map[string]interface{}{
		"name":      feedConfig.Name,
		"title":     feedConfig.Title,
		"actor":     feedConfig.Actor,
		"source":    feedConfig.Source,
		"enabled":   feedConfig.Settings.Enabled,
		"limit":     feedConfig.Settings.Limit,
		"platforms": len(feedConfig.Platforms),
	}
}
