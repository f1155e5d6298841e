package main

// Backfill job: rewrites asset records whose URL still points into the old
// WordPress storage layout onto the legacy host, using the same resolution
// rules the read path applies on the fly.
// Usage: go run script/migrate_legacy_urls.go -config config.yaml [-dry-run]

import (
	"context"
	"flag"
	"log"

	"github.com/oakline/media_bridge/biz/dal/model"
	mediaservice "github.com/oakline/media_bridge/biz/service/media"
	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/config"
	"github.com/oakline/media_bridge/pkg/database"
	"github.com/oakline/media_bridge/pkg/storage"
	"github.com/oakline/media_bridge/pkg/validator"
)

var (
	configPath = flag.String("config", "config.yaml", "path to configuration file")
	dryRun     = flag.Bool("dry-run", false, "report what would change without writing")
)

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&model.Asset{}); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	resolver := asseturl.Resolver{
		Development: cfg.Assets.Development,
		Host:        cfg.Assets.Host,
		LegacyHost:  cfg.Assets.LegacyHost,
		Placeholder: cfg.Assets.Placeholder,
	}
	logic := mediaservice.NewLogic(db)
	svc := mediaservice.NewService(logic, store, validator.FromAllowedTypes(cfg.Upload.MaxSize, cfg.Upload.AllowedTypes), resolver)

	ctx := context.Background()

	if *dryRun {
		assets, err := logic.ListLegacyAssets(ctx, asseturl.LegacyMarker)
		if err != nil {
			log.Fatalf("list legacy assets: %v", err)
		}
		for _, a := range assets {
			log.Printf("would rewrite %s: %s -> %s", a.FileID, a.URL, resolver.Resolve(a.URL))
		}
		log.Printf("%d asset(s) pending rewrite", len(assets))
		return
	}

	updated, err := svc.RewriteLegacyURLs(ctx)
	if err != nil {
		log.Fatalf("rewrite legacy urls: %v", err)
	}
	log.Printf("rewrote %d asset record(s)", updated)
}
