package domain

import "time"

// PublishedUnavailable is written in place of a publish date that could not be determined
const PublishedUnavailable = "unavailable"

// PublishedLayout is the display format of the published field in the snapshot
const PublishedLayout = "Mon, 02 Jan 2006 15:04:05 -0700"

// SiteSpec describes one news site to collect from.
// FeedURLs may be empty, in which case only the homepage is crawled.
type SiteSpec struct {
	Name        string   `yaml:"name"`
	HomepageURL string   `yaml:"homepage_url"`
	FeedURLs    []string `yaml:"feed_urls"`
}

// Candidate is an article URL discovered from a feed entry or a homepage link
type Candidate struct {
	URL       string
	Published *time.Time // set only when the feed supplied a timestamp
}

// Extraction is what the article extractor returns for a single URL
type Extraction struct {
	URL       string
	Title     string
	Text      string
	Summary   string
	Authors   []string
	Published *time.Time
	TopImage  string
}

// Article is a normalized news article as collected from one site.
// Timestamp is internal and only used for ranking; it never reaches the snapshot.
type Article struct {
	Title       string     `bson:"title" json:"title"`
	Link        string     `bson:"link" json:"link"`
	Published   *time.Time `bson:"published,omitempty" json:"published,omitempty"`
	Timestamp   int64      `bson:"timestamp" json:"-"`
	Summary     string     `bson:"summary" json:"summary"`
	TextPreview string     `bson:"text_preview" json:"text_preview"`
	Source      string     `bson:"source" json:"source"`
	Authors     string     `bson:"authors" json:"authors"`
	TopImage    string     `bson:"top_image" json:"top_image"`
	CrawledAt   time.Time  `bson:"crawled_at" json:"crawled_at"`
}

// SnapshotEntry is the serialized form of an Article in the output file
type SnapshotEntry struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Published   string `json:"published"`
	Summary     string `json:"summary"`
	TextPreview string `json:"text_preview"`
	Source      string `json:"source"`
	Authors     string `json:"authors"`
	TopImage    string `json:"top_image"`
}
