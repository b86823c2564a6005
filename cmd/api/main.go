package main

import (
	"context"
	"flag"
	"log"

	"github.com/Adithecoder/SocialM-sub001/internal/api"
	"github.com/Adithecoder/SocialM-sub001/internal/archive"
	"github.com/Adithecoder/SocialM-sub001/internal/auth"
	"github.com/Adithecoder/SocialM-sub001/internal/config"
	"github.com/Adithecoder/SocialM-sub001/internal/database"
	"github.com/Adithecoder/SocialM-sub001/internal/store"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, *store.Store, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	dataStore := store.New(db, cfg.Database.Driver)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authSvc := auth.NewService(dataStore, tokens)

	apiSrv, err := api.NewApi(cfg, authSvc)
	if err != nil {
		return nil, nil, nil, err
	}
	return apiSrv, dataStore, cfg, nil
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting auth API v%s with config: %s", version, *configPath)

	apiSrv, dataStore, cfg, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Archive.Enabled {
		s3Client, err := archive.NewS3Client(cfg)
		if err != nil {
			log.Fatal(err)
		}
		archiver := archive.New(dataStore, s3Client, cfg.Archive.Bucket, cfg.Archive.Retention, cfg.Archive.Interval)
		go archiver.Run(context.Background())
	}

	apiSrv.Serve()
}
