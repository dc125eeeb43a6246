package pipeline

import (
	"context"
	"log"
	"time"

	"malawi-news/pkg/config"
	"malawi-news/pkg/content"
	"malawi-news/pkg/dedupe"
	"malawi-news/pkg/domain"
)

// FeedReader lists the entries of an RSS/Atom feed.
// A feed that cannot be read yields no entries.
type FeedReader interface {
	Entries(ctx context.Context, feedURL string, limit int) []domain.Candidate
}

// LinkDiscoverer lists candidate article links found on a site's homepage, in page order
type LinkDiscoverer interface {
	Discover(ctx context.Context, homepageURL string) ([]string, error)
}

// Pauser waits between outbound requests
type Pauser interface {
	Pause(ctx context.Context, d time.Duration)
}

// SleepPauser pauses for the full duration unless the context is cancelled
type SleepPauser struct{}

// Pause blocks for d or until ctx is done
func (SleepPauser) Pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Options are the per-site collection limits
type Options struct {
	MaxPerSource    int
	MinTextLength   int
	SummaryLimit    int
	PreviewLimit    int
	PolitenessDelay time.Duration
}

// OptionsFromConfig takes the collection limits from the run configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxPerSource:    cfg.MaxPerSource,
		MinTextLength:   cfg.MinTextLength,
		SummaryLimit:    cfg.SummaryLimit,
		PreviewLimit:    cfg.PreviewLimit,
		PolitenessDelay: cfg.PolitenessDelay,
	}
}

// Multipliers bounding extraction attempts per discovery phase
const (
	feedEntryFactor    = 2
	homepageLinkFactor = 3
)

// SiteCollector gathers up to MaxPerSource articles from one site,
// trying its feeds first and its homepage when the feeds fall short
type SiteCollector struct {
	feeds     FeedReader
	links     LinkDiscoverer
	extractor content.Extractor
	pauser    Pauser
	opts      Options
	now       func() time.Time
}

// NewSiteCollector creates a site collector. A nil pauser means SleepPauser.
func NewSiteCollector(feeds FeedReader, links LinkDiscoverer, extractor content.Extractor, pauser Pauser, opts Options) *SiteCollector {
	if pauser == nil {
		pauser = SleepPauser{}
	}
	return &SiteCollector{
		feeds:     feeds,
		links:     links,
		extractor: extractor,
		pauser:    pauser,
		opts:      opts,
		now:       time.Now,
	}
}

// sitePass is the state of one site's collection: its dedupe set and what it has gathered
type sitePass struct {
	site     domain.SiteSpec
	seen     *dedupe.Seen
	articles []domain.Article
}

// Collect returns the site's articles in discovery order.
// Discovery and extraction failures never escape; the site yields what it gathered.
func (c *SiteCollector) Collect(ctx context.Context, site domain.SiteSpec) []domain.Article {
	pass := &sitePass{site: site, seen: dedupe.NewSeen()}
	limit := c.opts.MaxPerSource

	for _, feedURL := range site.FeedURLs {
		if c.feeds == nil || len(pass.articles) >= limit || ctx.Err() != nil {
			break
		}
		entries := c.feeds.Entries(ctx, feedURL, feedEntryFactor*limit)
		log.Printf("SiteCollector: %s: %d entries from feed %s", site.Name, len(entries), feedURL)
		c.consume(ctx, pass, entries)
	}

	if len(pass.articles) < limit && ctx.Err() == nil {
		c.collectHomepage(ctx, pass)
	}

	if len(pass.articles) > limit {
		pass.articles = pass.articles[:limit]
	}
	return pass.articles
}

// collectHomepage supplements the pass with links from the site's homepage
func (c *SiteCollector) collectHomepage(ctx context.Context, pass *sitePass) {
	if c.links == nil || pass.site.HomepageURL == "" {
		return
	}

	links, err := c.links.Discover(ctx, pass.site.HomepageURL)
	if err != nil {
		log.Printf("SiteCollector: %s: homepage discovery failed: %v", pass.site.Name, err)
		return
	}

	if limit := homepageLinkFactor * c.opts.MaxPerSource; len(links) > limit {
		links = links[:limit]
	}
	log.Printf("SiteCollector: %s: %d candidate links from homepage", pass.site.Name, len(links))

	candidates := make([]domain.Candidate, 0, len(links))
	for _, link := range links {
		candidates = append(candidates, domain.Candidate{URL: link})
	}
	c.consume(ctx, pass, candidates)
}

// consume extracts new candidates until the site reaches its cap.
// Every extraction attempt is followed by the politeness delay.
func (c *SiteCollector) consume(ctx context.Context, pass *sitePass, candidates []domain.Candidate) {
	for _, candidate := range candidates {
		if len(pass.articles) >= c.opts.MaxPerSource || ctx.Err() != nil {
			return
		}
		if !pass.seen.Add(candidate.URL) {
			continue
		}

		extraction, err := c.extractor.Extract(ctx, candidate.URL)
		c.pauser.Pause(ctx, c.opts.PolitenessDelay)
		if err != nil {
			log.Printf("SiteCollector: %s: failed to extract %s: %v", pass.site.Name, candidate.URL, err)
			continue
		}

		if !Qualifies(extraction, c.opts.MinTextLength) {
			continue
		}

		pass.articles = append(pass.articles, Normalize(extraction, candidate, pass.site.Name, c.opts, c.now()))
	}
}
