package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/news"
	"github.com/makerconf/agenda-comb/app/site"
)

// RefreshNewsTask fetches the announcement feed and publishes the
// parsed items. Content extraction is best effort: an item that fails
// keeps its feed description.
type RefreshNewsTask struct {
	Task
	siteCfg          *site.Config
	loader           *manifest.Loader
	parser           *news.Parser
	contentExtractor *news.ContentExtractor
	newsStore        *news.Store
	snapshots        database.SnapshotRepository
}

func NewRefreshNewsTask(siteCfg *site.Config, loader *manifest.Loader, parser *news.Parser,
	contentExtractor *news.ContentExtractor, newsStore *news.Store, snapshots database.SnapshotRepository) *RefreshNewsTask {
	return &RefreshNewsTask{
		Task:             NewTask(TaskTypeRefreshNews, siteCfg.NewsFeedURL),
		siteCfg:          siteCfg,
		loader:           loader,
		parser:           parser,
		contentExtractor: contentExtractor,
		newsStore:        newsStore,
		snapshots:        snapshots,
	}
}

func (t *RefreshNewsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := t.loader.Fetch(ctx, t.siteCfg.NewsFeedURL)
	if err != nil {
		payload, fetchedAt, snapErr := t.snapshots.Latest(database.SnapshotKindNews)
		if snapErr != nil || payload == nil {
			return fmt.Errorf("failed to fetch news feed: %w", err)
		}
		slog.Warn("Upstream news feed unavailable, using snapshot", "fetched_at", fetchedAt, "error", err)
		data = payload
	} else {
		if saveErr := t.snapshots.Save(database.SnapshotKindNews, data); saveErr != nil {
			slog.Warn("Failed to save news snapshot", "error", saveErr)
		} else if pruneErr := t.snapshots.Prune(database.SnapshotKindNews, snapshotKeep); pruneErr != nil {
			slog.Warn("Failed to prune news snapshots", "error", pruneErr)
		}
	}

	metadata, items, err := t.parser.Run(data)
	if err != nil {
		return fmt.Errorf("failed to parse news feed: %w", err)
	}

	if limit := t.siteCfg.Settings.NewsMaxItems; limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	extractedCount := 0
	if t.siteCfg.Settings.ExtractNewsContent && t.contentExtractor != nil {
		extractedCount = t.extractContent(ctx, items)
	}

	t.newsStore.Publish(metadata, items)

	slog.Info("Task completed",
		"type", "RefreshNews",
		"duration", t.GetDuration(),
		"total", len(items),
		"extracted", extractedCount)

	return nil
}

func (t *RefreshNewsTask) extractContent(ctx context.Context, items []news.Item) int {
	extracted := 0
	for i := range items {
		if items[i].Link == "" || items[i].Content != "" {
			continue
		}

		select {
		case <-ctx.Done():
			return extracted
		default:
		}

		data, err := t.loader.Fetch(ctx, items[i].Link)
		if err != nil {
			slog.Debug("Failed to fetch news item page", "link", items[i].Link, "error", err)
			continue
		}

		content, err := t.contentExtractor.Run(data, items[i].Link)
		if err != nil {
			slog.Debug("Failed to extract news item content", "link", items[i].Link, "error", err)
			continue
		}

		items[i].Content = content
		extracted++
	}
	return extracted
}
