package api

import (
	"cmp"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/ical"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/news"
	"github.com/makerconf/agenda-comb/app/schedule"
	"github.com/makerconf/agenda-comb/app/site"
	"github.com/makerconf/agenda-comb/app/tasks"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

func NewHandler(siteCfg *site.Config, scheduleStore *schedule.Store, newsStore *news.Store,
	exporter ExporterInterface, scheduler tasks.TaskSchedulerInterface, loader *manifest.Loader,
	reconciler *schedule.Reconciler, resolver *timeutil.Resolver, newsParser *news.Parser,
	contentExtractor *news.ContentExtractor, snapshots database.SnapshotRepository) *Handler {
	return &Handler{
		siteCfg:          siteCfg,
		scheduleStore:    scheduleStore,
		newsStore:        newsStore,
		exporter:         exporter,
		scheduler:        scheduler,
		loader:           loader,
		reconciler:       reconciler,
		resolver:         resolver,
		newsParser:       newsParser,
		contentExtractor: contentExtractor,
		snapshots:        snapshots,
	}
}

func (h *Handler) GetAgenda(c *gin.Context) {
	agenda := h.scheduleStore.Schedule()
	if agenda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agenda not loaded yet"})
		return
	}

	c.JSON(http.StatusOK, agenda)
}

func (h *Handler) GetAgendaDay(c *gin.Context) {
	agenda := h.scheduleStore.Schedule()
	if agenda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agenda not loaded yet"})
		return
	}

	id := c.Param("id")
	day, ok := agenda.Day(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Day not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"day":     day,
		"entries": agenda.DayEntries(id),
	})
}

func (h *Handler) GetEntryCalendar(c *gin.Context) {
	agenda := h.scheduleStore.Schedule()
	if agenda == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Agenda not loaded yet"})
		return
	}

	id := c.Param("id")
	entry, ok := agenda.Entry(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}

	event := ical.Event{
		Summary:         entry.Title,
		Description:     cmp.Or(entry.DetailDescription, entry.Description),
		Location:        cmp.Or(entry.VenueLocation, entry.VenueLabel, entry.VenueName),
		DayLabel:        entry.DayLabel,
		StartISO:        entry.StartISO,
		DurationMinutes: entry.DurationMinutes,
		Timezone:        agenda.Timezone,
		MapURL:          entry.VenueMapURL,
		PageURL:         h.entryPageURL(entry.ID),
	}

	payload, err := h.exporter.Run(event)
	if err != nil {
		slog.Error("Calendar export error", "entry", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render calendar event"})
		return
	}

	filename := ical.SuggestFilename(entry.Title, entry.StartISO)

	c.Header("Content-Type", "text/calendar; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.String(http.StatusOK, payload)
}

func (h *Handler) GetProgram(c *gin.Context) {
	if !h.scheduleStore.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Program not loaded yet"})
		return
	}

	sessions := h.scheduleStore.ProgramView()
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (h *Handler) ListSpeakers(c *gin.Context) {
	if !h.scheduleStore.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Program not loaded yet"})
		return
	}

	keys := h.scheduleStore.SpeakerKeys()
	c.JSON(http.StatusOK, gin.H{
		"speakers": keys,
		"total":    len(keys),
	})
}

func (h *Handler) GetSpeakerSessions(c *gin.Context) {
	if !h.scheduleStore.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Program not loaded yet"})
		return
	}

	key := c.Param("key")
	sessions, ok := h.scheduleStore.SpeakerSessions(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Speaker not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":      key,
		"sessions": sessions,
		"total":    len(sessions),
	})
}

func (h *Handler) GetNews(c *gin.Context) {
	if h.siteCfg.NewsFeedURL == "" || h.siteCfg.Settings.NewsMaxItems == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "News section disabled"})
		return
	}

	metadata, items := h.newsStore.Latest(h.siteCfg.Settings.NewsMaxItems)
	c.JSON(http.StatusOK, gin.H{
		"metadata": metadata,
		"items":    items,
		"total":    len(items),
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"agenda_loaded": h.scheduleStore.Loaded(),
	}

	if count, err := h.snapshots.Count(); err == nil {
		health["snapshots"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"agenda": h.scheduleStore.Stats(),
	}

	if h.siteCfg.NewsFeedURL != "" {
		stats["news_items"] = h.newsStore.Count()
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIRefresh(c *gin.Context) {
	agendaTask := tasks.NewRefreshAgendaTask(h.siteCfg, h.loader, h.reconciler, h.resolver, h.scheduleStore, h.snapshots)
	if err := h.scheduler.EnqueueTask(agendaTask); err != nil {
		slog.Error("Error enqueueing refresh task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue refresh task",
			"details": err.Error(),
		})
		return
	}

	enqueued := []gin.H{
		{"id": agendaTask.ID, "type": agendaTask.Type},
	}

	if h.siteCfg.NewsFeedURL != "" && h.siteCfg.Settings.NewsMaxItems != 0 {
		newsTask := tasks.NewRefreshNewsTask(h.siteCfg, h.loader, h.newsParser, h.contentExtractor, h.newsStore, h.snapshots)
		if err := h.scheduler.EnqueueTask(newsTask); err != nil {
			slog.Error("Error enqueueing news refresh task", "error", err)
		} else {
			enqueued = append(enqueued, gin.H{"id": newsTask.ID, "type": newsTask.Type})
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Refresh tasks enqueued",
		"tasks":   enqueued,
	})
}

func (h *Handler) entryPageURL(entryID string) string {
	if h.siteCfg.CanonicalURL == "" {
		return ""
	}
	return strings.TrimSuffix(h.siteCfg.CanonicalURL, "/") + "/#" + entryID
}
