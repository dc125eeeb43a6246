package newsservice

import (
	"context"
	"fmt"
	"log"
	"time"

	"malawi-news/pkg/db"
	"malawi-news/pkg/domain"
	"malawi-news/pkg/pipeline"
)

// Collector gathers the articles of one site
type Collector interface {
	Collect(ctx context.Context, site domain.SiteSpec) []domain.Article
}

// SnapshotWriter persists the ranked snapshot
type SnapshotWriter interface {
	Write(entries []domain.SnapshotEntry) error
}

// Config wires the service dependencies
type Config struct {
	Sites     []domain.SiteSpec
	Collector Collector
	Writer    SnapshotWriter
	// OutputPath is only reported in logs and in the Result
	OutputPath string
	SiteDelay  time.Duration
	Pauser     pipeline.Pauser
	Archivers  []db.Archiver
}

// Service runs one collection pass over every configured site
type Service struct {
	sites      []domain.SiteSpec
	collector  Collector
	writer     SnapshotWriter
	outputPath string
	siteDelay  time.Duration
	pauser     pipeline.Pauser
	archivers  []db.Archiver
}

// Result summarizes a completed run
type Result struct {
	Articles []domain.Article
	PerSite  map[string]int
	Path     string
}

// New creates a Service. A nil Pauser means pipeline.SleepPauser.
func New(cfg Config) *Service {
	pauser := cfg.Pauser
	if pauser == nil {
		pauser = pipeline.SleepPauser{}
	}
	return &Service{
		sites:      cfg.Sites,
		collector:  cfg.Collector,
		writer:     cfg.Writer,
		outputPath: cfg.OutputPath,
		siteDelay:  cfg.SiteDelay,
		pauser:     pauser,
		archivers:  cfg.Archivers,
	}
}

// accumulator holds the articles gathered so far, in site order
type accumulator struct {
	articles []domain.Article
	perSite  map[string]int
}

func (a accumulator) add(site string, articles []domain.Article) accumulator {
	a.articles = append(a.articles, articles...)
	a.perSite[site] = len(articles)
	return a
}

// Run collects every site, then ranks and writes the snapshot.
// Only a failure to write the snapshot is returned; archive failures are logged.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	acc := accumulator{perSite: make(map[string]int, len(s.sites))}

	for _, site := range s.sites {
		if ctx.Err() != nil {
			log.Printf("Run interrupted, writing what was collected")
			break
		}

		log.Printf("Processing %s...", site.Name)
		articles := s.collector.Collect(ctx, site)
		log.Printf("%s: collected %d articles", site.Name, len(articles))
		acc = acc.add(site.Name, articles)

		s.pauser.Pause(ctx, s.siteDelay)
	}

	ranked := pipeline.Rank(acc.articles)
	if err := s.writer.Write(pipeline.ToSnapshot(ranked)); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Printf("Collected %d articles! Saved to %s", len(ranked), s.outputPath)

	s.archive(ctx, ranked)

	return &Result{Articles: ranked, PerSite: acc.perSite, Path: s.outputPath}, nil
}

// archive hands the run to every configured sink
func (s *Service) archive(ctx context.Context, articles []domain.Article) {
	// archive even when the run was interrupted
	ctx = context.WithoutCancel(ctx)

	for _, a := range s.archivers {
		if err := a.Archive(ctx, articles); err != nil {
			log.Printf("Archive: %s failed: %v", a.Name(), err)
			continue
		}
		log.Printf("Archive: %s stored %d articles", a.Name(), len(articles))
	}
}
