package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"malawi-news/pkg/config"
	"malawi-news/pkg/db"
	"malawi-news/pkg/server"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "Listen address")
		snapshotPath = flag.String("snapshot", config.DefaultOutputPath, "Snapshot file written by the collector")
		publicDir    = flag.String("public", "", "Directory served for non-API paths (defaults to the snapshot's directory)")

		mongoURI        = flag.String("mongo-uri", "", "MongoDB connection string for the archive API (empty disables)")
		mongoDB         = flag.String("mongo-db", "malawinews", "MongoDB database name")
		mongoCollection = flag.String("mongo-collection", "articles", "MongoDB collection of archived articles")
	)
	flag.Parse()

	if *publicDir == "" {
		*publicDir = filepath.Dir(*snapshotPath)
	}

	var archive server.ArchiveReader
	if *mongoURI != "" {
		ctx := context.Background()
		client := db.NewClient(*mongoURI, *mongoDB, *mongoCollection)
		if err := client.Connect(ctx); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer client.Close(ctx)
		archive = client
	}

	srv := server.NewServer(*snapshotPath, *publicDir, archive)

	log.Printf("Serving %s from %s on %s", *snapshotPath, *publicDir, *addr)
	if err := srv.Handler().Run(*addr); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
