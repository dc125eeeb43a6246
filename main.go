package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"malawi-news/pkg/config"
	"malawi-news/pkg/content"
	"malawi-news/pkg/db"
	"malawi-news/pkg/httpclient"
	"malawi-news/pkg/newsservice"
	"malawi-news/pkg/pipeline"
	"malawi-news/pkg/scheduler"
	"malawi-news/pkg/sites"
	"malawi-news/pkg/snapshot"
	"malawi-news/pkg/urls"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional YAML file overriding the built-in sites and limits")
		output     = flag.String("output", "", "Snapshot path (overrides output_path from the config)")
		schedule   = flag.String("schedule", "", "Cron spec for repeated runs, e.g. \"0 */2 * * *\" (empty runs once and exits)")

		mongoURI        = flag.String("mongo-uri", "", "MongoDB connection string for archiving each run (empty disables)")
		mongoDB         = flag.String("mongo-db", "malawinews", "MongoDB database name")
		mongoCollection = flag.String("mongo-collection", "articles", "MongoDB collection for archived articles")

		postgresDSN = flag.String("postgres-dsn", "", "Postgres DSN for archiving each run (empty disables)")

		supabaseURL      = flag.String("supabase-url", "", "Supabase project URL for archiving each run (empty disables)")
		supabaseKey      = flag.String("supabase-key", "", "Supabase API key (REST mode)")
		supabasePassword = flag.String("supabase-password", "", "Supabase database password (direct connection mode)")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *output != "" {
		cfg.OutputPath = *output
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	archivers, closeArchivers := connectArchivers(ctx, archiveFlags{
		mongoURI:         *mongoURI,
		mongoDB:          *mongoDB,
		mongoCollection:  *mongoCollection,
		postgresDSN:      *postgresDSN,
		supabaseURL:      *supabaseURL,
		supabaseKey:      *supabaseKey,
		supabasePassword: *supabasePassword,
	})
	defer closeArchivers()

	service := newService(cfg, archivers)

	if *schedule == "" {
		start := time.Now()
		if _, err := service.Run(ctx); err != nil {
			closeArchivers()
			log.Fatalf("Run failed: %v", err)
		}
		log.Printf("Done. Duration: %s", time.Since(start))
		return
	}

	s, err := scheduler.New(ctx, *schedule, func(ctx context.Context) error {
		_, err := service.Run(ctx)
		return err
	})
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	s.Run()
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(path)
}

// newService wires the HTTP client, discovery, extraction and output of one run
func newService(cfg *config.Config, archivers []db.Archiver) *newsservice.Service {
	client := httpclient.NewClientWithOptions(httpclient.Options{
		Type:      httpclient.ClientType(cfg.ClientType),
		Timeout:   cfg.RequestTimeout,
		UserAgent: cfg.UserAgent,
		Limiter:   httpclient.NewHostRateLimiter(cfg.MinHostInterval),
	})

	collector := pipeline.NewSiteCollector(
		urls.NewRSSParser(client),
		sites.NewHomepageDiscoverer(client),
		content.NewHTTPExtractor(client),
		pipeline.SleepPauser{},
		pipeline.OptionsFromConfig(cfg),
	)

	return newsservice.New(newsservice.Config{
		Sites:      cfg.Sites,
		Collector:  collector,
		Writer:     snapshot.NewWriter(cfg.OutputPath),
		OutputPath: cfg.OutputPath,
		SiteDelay:  cfg.SiteDelay,
		Archivers:  archivers,
	})
}

type archiveFlags struct {
	mongoURI, mongoDB, mongoCollection string
	postgresDSN                        string
	supabaseURL, supabaseKey           string
	supabasePassword                   string
}

// connectArchivers connects every configured sink. A sink that cannot connect is
// logged and left out; archiving never stops a run.
func connectArchivers(ctx context.Context, f archiveFlags) ([]db.Archiver, func()) {
	var archivers []db.Archiver
	var closers []func()

	if f.mongoURI != "" {
		client := db.NewClient(f.mongoURI, f.mongoDB, f.mongoCollection)
		if err := client.Connect(ctx); err != nil {
			log.Printf("Archive: mongo disabled: %v", err)
		} else {
			archivers = append(archivers, client)
			closers = append(closers, func() { _ = client.Close(context.Background()) })
		}
	}

	if f.postgresDSN != "" {
		client := db.NewPostgresClient(db.PostgresConfig{DSN: f.postgresDSN, MaxOpenConns: 2})
		if err := client.Connect(ctx); err != nil {
			log.Printf("Archive: postgres disabled: %v", err)
		} else {
			archivers = append(archivers, client)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	if f.supabaseURL != "" {
		client := db.NewSupabaseClient(db.SupabaseConfig{
			ProjectURL: f.supabaseURL,
			APIKey:     f.supabaseKey,
			Password:   f.supabasePassword,
		})
		if err := client.Connect(ctx); err != nil {
			log.Printf("Archive: supabase disabled: %v", err)
		} else {
			archivers = append(archivers, client)
			closers = append(closers, func() { _ = client.Close() })
		}
	}

	closed := false
	return archivers, func() {
		if closed {
			return
		}
		closed = true
		for _, c := range closers {
			c()
		}
	}
}
