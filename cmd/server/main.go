package main

import (
	"flag"
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/oakline/media_bridge/biz/dal/model"
	"github.com/oakline/media_bridge/biz/handler"
	"github.com/oakline/media_bridge/biz/middleware"
	"github.com/oakline/media_bridge/biz/router"
	mediaservice "github.com/oakline/media_bridge/biz/service/media"
	"github.com/oakline/media_bridge/pkg/asseturl"
	"github.com/oakline/media_bridge/pkg/config"
	"github.com/oakline/media_bridge/pkg/database"
	"github.com/oakline/media_bridge/pkg/lock"
	rediscli "github.com/oakline/media_bridge/pkg/redis"
	"github.com/oakline/media_bridge/pkg/storage"
	"github.com/oakline/media_bridge/pkg/validator"
)

var configPath = flag.String("config", "config.yaml", "path to configuration file")

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
	log.Printf("storage backend: %s", store.Type())

	redisClient, err := rediscli.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("init redis: %v", err)
	}
	if redisClient != nil {
		middleware.InitWriteLock(lock.New(redisClient, "media_bridge:write_lock", 30*time.Second, 10*time.Second))
		log.Printf("admin write lock enabled")
	}

	resolver := asseturl.Resolver{
		Development: cfg.Assets.Development,
		Host:        cfg.Assets.Host,
		LegacyHost:  cfg.Assets.LegacyHost,
		Placeholder: cfg.Assets.Placeholder,
	}

	svc := mediaservice.NewService(
		mediaservice.NewLogic(db),
		store,
		validator.FromAllowedTypes(cfg.Upload.MaxSize, cfg.Upload.AllowedTypes),
		resolver,
	)

	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithMaxRequestBodySize(int(cfg.Upload.MaxSize)+1024*1024),
	)
	h.Use(middleware.Recovery())
	h.Use(middleware.Logging())
	h.Use(middleware.CORS(&cfg.CORS))
	h.Use(middleware.Auth())

	router.RegisterMediaRoutes(h, handler.NewMediaHandler(svc))

	log.Printf("media bridge listening on %s", cfg.Server.Address)
	h.Spin()
}
