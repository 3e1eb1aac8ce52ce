package main

import (
	"io"
	"log/slog"

	"github.com/krishivikas/assistant/internal/bootstrap"
	"github.com/krishivikas/assistant/internal/domain/classifier"
	"github.com/krishivikas/assistant/internal/domain/fieldscan"
	"github.com/krishivikas/assistant/internal/domain/plots"
	"github.com/krishivikas/assistant/internal/domain/session"
	"github.com/krishivikas/assistant/internal/domain/settings"
	"github.com/krishivikas/assistant/internal/domain/voice"
	"github.com/krishivikas/assistant/internal/infra/assetstore"
	"github.com/krishivikas/assistant/internal/infra/config"
	"github.com/krishivikas/assistant/internal/infra/exifmeta"
	"github.com/krishivikas/assistant/internal/infra/gateway"
	"github.com/krishivikas/assistant/internal/infra/inference"
	"github.com/krishivikas/assistant/internal/infra/modelhost"
	"github.com/krishivikas/assistant/internal/infra/osm"
	"github.com/krishivikas/assistant/internal/infra/settingsrepo"
	"github.com/krishivikas/assistant/internal/interface/tui"
	"github.com/krishivikas/assistant/pkg/logger"
)

// initializeApp wires the whole application by hand.
func initializeApp(configPath string) (*bootstrap.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.LogFile)

	store, err := settingsrepo.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}
	settingsSvc := settings.NewService(store, log)

	gw := gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	classifierSvc := provideClassifier(cfg, log)
	fieldScanSvc := provideFieldScan(cfg, classifierSvc, gw, log)

	osmClient := osm.NewClient(cfg.OSM.OverpassURL, int(cfg.OSM.RadiusMeters), cfg.OSM.Timeout)
	plotsSvc := plots.NewService(gw, osmClient, log)

	recorder := voice.NewFileRecorder("")
	voiceSvc := voice.NewService(recorder, log)

	ctrl := session.NewController(cfg.Session.ThoughtStep, log)

	model := tui.New(tui.Services{
		Settings:  settingsSvc,
		Gateway:   gw,
		Session:   ctrl,
		FieldScan: fieldScanSvc,
		Plots:     plotsSvc,
		Voice:     voiceSvc,
		Recorder:  recorder,
		Logger:    log,
	})
	return bootstrap.NewApp(cfg, log, model, gw), nil
}

func provideClassifier(cfg *config.Config, log *slog.Logger) *classifier.Service {
	source := modelhost.NewSource(
		cfg.Classifier.ModelBaseURL,
		cfg.Classifier.FallbackBaseURL,
		cfg.Classifier.DownloadTimeout,
		log,
	)
	runtime := inference.NewHTTPRuntime(cfg.Classifier.PredictURL, cfg.Backend.Timeout, log)
	return classifier.NewService(source, runtime, classifier.Config{
		Categories:      cfg.Classifier.CropCategories,
		Complements:     cfg.Classifier.Complements,
		DefaultCategory: cfg.Classifier.DefaultCategory,
		Cutoff:          cfg.Classifier.PositiveCutoff,
		TopN:            cfg.Classifier.TopPredictions,
	}, log)
}

func provideFieldScan(cfg *config.Config, cls *classifier.Service, gw *gateway.Client, log *slog.Logger) *fieldscan.Service {
	var assets fieldscan.AssetStore
	if cfg.Assets.Endpoint != "" {
		store, err := assetstore.NewS3Store(
			cfg.Assets.Endpoint,
			cfg.Assets.AccessKey,
			cfg.Assets.SecretKey,
			cfg.Assets.Bucket,
			cfg.Assets.Region,
			log,
		)
		if err != nil {
			log.Warn("asset store unavailable, photos stay local", "error", err)
		} else {
			assets = store
		}
	}

	locate := func(r io.Reader) *fieldscan.Geo {
		if loc := exifmeta.FromImage(r); loc != nil {
			return &fieldscan.Geo{Latitude: loc.Latitude, Longitude: loc.Longitude}
		}
		return nil
	}

	return fieldscan.NewService(cls, assets, gw, locate, fieldscan.Config{
		MaxParallel:   cfg.FieldScan.MaxParallel,
		MaxImageBytes: cfg.FieldScan.MaxImageBytes,
		ResizeWidth:   cfg.FieldScan.ResizeWidth,
		JPEGQuality:   cfg.FieldScan.JPEGQuality,
	}, log)
}
