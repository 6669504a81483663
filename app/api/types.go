package api

import (
	"github.com/makerconf/agenda-comb/app/database"
	"github.com/makerconf/agenda-comb/app/ical"
	"github.com/makerconf/agenda-comb/app/manifest"
	"github.com/makerconf/agenda-comb/app/news"
	"github.com/makerconf/agenda-comb/app/schedule"
	"github.com/makerconf/agenda-comb/app/site"
	"github.com/makerconf/agenda-comb/app/tasks"
	"github.com/makerconf/agenda-comb/app/timeutil"
)

type ExporterInterface interface {
	Run(event ical.Event) (string, error)
}

var _ ExporterInterface = (*ical.Exporter)(nil)

type Handler struct {
	siteCfg          *site.Config
	scheduleStore    *schedule.Store
	newsStore        *news.Store
	exporter         ExporterInterface
	scheduler        tasks.TaskSchedulerInterface
	loader           *manifest.Loader
	reconciler       *schedule.Reconciler
	resolver         *timeutil.Resolver
	newsParser       *news.Parser
	contentExtractor *news.ContentExtractor
	snapshots        database.SnapshotRepository
}
