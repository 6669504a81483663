package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/program"
	"github.com/makerconf/agenda-comb/app/schedule"
	"github.com/makerconf/agenda-comb/app/site"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

// Snapshots kept per manifest kind after a successful refresh.
const snapshotKeep = 5

// RefreshAgendaTask fetches the schedule and program manifests,
// reconciles them into an agenda and publishes the result. When an
// upstream fetch fails the latest stored snapshot is used instead, so
// a flaky upstream degrades to stale data rather than an empty site.
type RefreshAgendaTask struct {
	Task
	siteCfg       *site.Config
	loader        *manifest.Loader
	reconciler    *schedule.Reconciler
	resolver      *timeutil.Resolver
	scheduleStore *schedule.Store
	snapshots     database.SnapshotRepository
}

func NewRefreshAgendaTask(siteCfg *site.Config, loader *manifest.Loader, reconciler *schedule.Reconciler,
	resolver *timeutil.Resolver, scheduleStore *schedule.Store, snapshots database.SnapshotRepository) *RefreshAgendaTask {
	return &RefreshAgendaTask{
		Task:          NewTask(TaskTypeRefreshAgenda, siteCfg.ScheduleManifestURL),
		siteCfg:       siteCfg,
		loader:        loader,
		reconciler:    reconciler,
		resolver:      resolver,
		scheduleStore: scheduleStore,
		snapshots:     snapshots,
	}
}

func (t *RefreshAgendaTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	sm, scheduleSource, err := t.loadSchedule(ctx)
	if err != nil {
		return err
	}

	pm, programSource, err := t.loadProgram(ctx)
	if err != nil {
		return err
	}

	source := schedule.SourceUpstream
	if scheduleSource == schedule.SourceSnapshot || programSource == schedule.SourceSnapshot {
		source = schedule.SourceSnapshot
	}

	agenda := t.reconciler.Run(sm, pm)

	sessions := program.ParseSessions(pm)
	programView := program.MergeMultipartWorkshops(program.ProgramSessions(sessions))
	speakerIndex := program.BuildSpeakerIndex(program.ProgramSessions(sessions), program.NewContext(sm, t.resolver))

	t.scheduleStore.Publish(agenda, programView, speakerIndex, source)

	slog.Info("Task completed",
		"type", "RefreshAgenda",
		"duration", t.GetDuration(),
		"source", source,
		"entries", len(agenda.Entries),
		"days", len(agenda.Days),
		"venues", len(agenda.Venues),
		"sessions", len(programView),
		"speakers", len(speakerIndex))

	return nil
}

func (t *RefreshAgendaTask) loadSchedule(ctx context.Context) (*manifest.ScheduleManifest, string, error) {
	data, err := t.loader.Fetch(ctx, t.siteCfg.ScheduleManifestURL)
	if err == nil {
		sm, parseErr := manifest.ParseSchedule(data)
		if parseErr == nil {
			t.saveSnapshot(database.SnapshotKindSchedule, data)
			return sm, schedule.SourceUpstream, nil
		}
		err = parseErr
	}

	slog.Warn("Upstream schedule manifest unavailable, trying snapshot", "error", err)

	payload, fetchedAt, snapErr := t.snapshots.Latest(database.SnapshotKindSchedule)
	if snapErr != nil {
		return nil, "", fmt.Errorf("failed to load schedule snapshot: %w", snapErr)
	}
	if payload == nil {
		return nil, "", fmt.Errorf("schedule manifest unavailable and no snapshot stored: %w", err)
	}

	sm, parseErr := manifest.ParseSchedule(payload)
	if parseErr != nil {
		return nil, "", fmt.Errorf("failed to parse schedule snapshot: %w", parseErr)
	}

	slog.Info("Using schedule snapshot", "fetched_at", fetchedAt)
	return sm, schedule.SourceSnapshot, nil
}

func (t *RefreshAgendaTask) loadProgram(ctx context.Context) (*manifest.ProgramManifest, string, error) {
	data, err := t.loader.Fetch(ctx, t.siteCfg.ProgramManifestURL)
	if err == nil {
		pm, parseErr := manifest.ParseProgram(data)
		if parseErr == nil {
			t.saveSnapshot(database.SnapshotKindProgram, data)
			return pm, schedule.SourceUpstream, nil
		}
		err = parseErr
	}

	slog.Warn("Upstream program manifest unavailable, trying snapshot", "error", err)

	payload, fetchedAt, snapErr := t.snapshots.Latest(database.SnapshotKindProgram)
	if snapErr != nil {
		return nil, "", fmt.Errorf("failed to load program snapshot: %w", snapErr)
	}
	if payload == nil {
		return nil, "", fmt.Errorf("program manifest unavailable and no snapshot stored: %w", err)
	}

	pm, parseErr := manifest.ParseProgram(payload)
	if parseErr != nil {
		return nil, "", fmt.Errorf("failed to parse program snapshot: %w", parseErr)
	}

	slog.Info("Using program snapshot", "fetched_at", fetchedAt)
	return pm, schedule.SourceSnapshot, nil
}

func (t *RefreshAgendaTask) saveSnapshot(kind string, payload []byte) {
	if err := t.snapshots.Save(kind, payload); err != nil {
		slog.Warn("Failed to save snapshot", "kind", kind, "error", err)
		return
	}
	if err := t.snapshots.Prune(kind, snapshotKeep); err != nil {
		slog.Warn("Failed to prune snapshots", "kind", kind, "error", err)
	}
}
