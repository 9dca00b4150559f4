package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"treemap/internal/app"
	"treemap/internal/config"
	"treemap/internal/geom"
	"treemap/internal/logging"
	"treemap/internal/metrics"
	"treemap/internal/trees"
	"treemap/internal/tui"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger, closer, err := logging.OpenFile(cfg.Log.Logging(), cfg.Log.File)
	if err != nil {
		log.Fatal(err)
	}
	defer closer.Close()

	collector, err := metrics.New(nil)
	if err != nil {
		logger.Error("metrics setup failed", logging.Err(err))
		os.Exit(1)
	}
	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info("serving metrics", logging.String("addr", cfg.MetricsAddr))
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", logging.Err(err))
			}
		}()
	}

	proj := cfg.Projection.Projector()
	store, rep, err := trees.LoadFile(cfg.DataPath, proj)
	if err != nil {
		logger.Error("dataset load failed", logging.String("path", cfg.DataPath), logging.Err(err))
		closer.Close()
		log.Fatal(err)
	}
	logger.Info("dataset parsed", logging.String("path", cfg.DataPath), logging.Int("rows", rep.Rows),
		logging.Int("defaulted", rep.Defaulted), logging.Int("duplicates", rep.Duplicates))

	var basemap geom.Data
	if cfg.BaseMapPath != "" {
		basemap, err = geom.LoadBaseMap(cfg.BaseMapPath)
		if err != nil {
			logger.Warn("base map unavailable", logging.String("path", cfg.BaseMapPath), logging.Err(err))
		}
	}

	ctrl := app.New(store, app.Options{
		DefaultRadius: cfg.Sliders.DefaultRadius,
		Logger:        logger,
		Metrics:       collector,
	})
	m := tui.New(ctrl, tui.Options{
		Canvas:       cfg.Projection.Canvas,
		RadiusStep:   cfg.Sliders.RadiusStep,
		DiameterStep: cfg.Sliders.DiameterStep,
		BaseMap:      basemap,
		DataPath:     cfg.DataPath,
		Logger:       logger,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		logger.Error("ui exited", logging.Err(err))
		closer.Close()
		log.Fatal(err)
	}
}
