package loom

import (
	"github.com/rs/zerolog"

	"github.com/aldersky/loom/internal/core/config"
	"github.com/aldersky/loom/internal/data/db"
	"github.com/aldersky/loom/internal/data/stores"
)

// App aggregates the wired application dependencies. main populates one
// instance in the CLI Before hook; commands hold a pointer to it.
type App struct {
	Config   *config.Config
	DB       *db.DB
	Chapters *stores.ChapterStore
	Segments *stores.SegmentStore
	Batches  *stores.BatchStore
	Pipeline *Service
	Importer *Importer
}

// NewApp wires an App over an open database.
func NewApp(cfg *config.Config, database *db.DB, log zerolog.Logger) *App {
	chapters := stores.NewChapterStore(database)
	segments := stores.NewSegmentStore(database)
	batches := stores.NewBatchStore(database)

	return &App{
		Config:   cfg,
		DB:       database,
		Chapters: chapters,
		Segments: segments,
		Batches:  batches,
		Pipeline: NewService(chapters, segments, batches, log.With().Str("component", "pipeline").Logger()),
		Importer: NewImporter(chapters, segments, batches),
	}
}
