package config

import (
	"fmt"
	"os"
	"strconv"

	"treemap/internal/geom"
	"treemap/internal/logging"
)

// Config is the application configuration.
type Config struct {
	DataPath    string
	BaseMapPath string
	Projection  ProjectionConfig
	Sliders     SliderConfig
	Log         LogConfig
	MetricsAddr string
}

// ProjectionConfig places the Mercator canvas.
type ProjectionConfig struct {
	CenterLon float64
	CenterLat float64
	Scale     float64
	Canvas    float64
}

// SliderConfig holds the initial radius and the slider steps.
type SliderConfig struct {
	DefaultRadius float64
	RadiusStep    float64
	DiameterStep  float64
}

type LogConfig struct {
	File   string
	Level  string
	Format string
}

// Projector builds the configured projection.
func (p ProjectionConfig) Projector() geom.Mercator {
	return geom.NewMercator(p.CenterLon, p.CenterLat, p.Scale, p.Canvas)
}

// Logging returns the logger settings.
func (l LogConfig) Logging() logging.Config {
	return logging.Config{Level: l.Level, Format: l.Format}
}

// Load reads configuration from the environment. Positional args override the
// data path (args[0]) and base map (args[1]).
func Load(args []string) (*Config, error) {
	cfg := &Config{
		DataPath:    getEnv("TREEMAP_DATA", "trees_filter_latlong.csv"),
		BaseMapPath: getEnv("TREEMAP_BASEMAP", ""),
		Log: LogConfig{
			File:   getEnv("TREEMAP_LOG_FILE", "treemap.log"),
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		MetricsAddr: getEnv("TREEMAP_METRICS_ADDR", ""),
	}
	if len(args) > 0 {
		cfg.DataPath = args[0]
	}
	if len(args) > 1 {
		cfg.BaseMapPath = args[1]
	}

	floats := []struct {
		key string
		def float64
		dst *float64
	}{
		{"TREEMAP_CENTER_LON", -122.433701, &cfg.Projection.CenterLon},
		{"TREEMAP_CENTER_LAT", 37.767683, &cfg.Projection.CenterLat},
		{"TREEMAP_SCALE", 225000, &cfg.Projection.Scale},
		{"TREEMAP_CANVAS", 750, &cfg.Projection.Canvas},
		{"TREEMAP_DEFAULT_RADIUS", 100, &cfg.Sliders.DefaultRadius},
		{"TREEMAP_RADIUS_STEP", 10, &cfg.Sliders.RadiusStep},
		{"TREEMAP_DIAMETER_STEP", 1, &cfg.Sliders.DiameterStep},
	}
	for _, f := range floats {
		v, err := getFloat(f.key, f.def)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	if cfg.Projection.Scale <= 0 || cfg.Projection.Canvas <= 0 {
		return nil, fmt.Errorf("config: scale and canvas must be positive")
	}
	if cfg.Sliders.DefaultRadius < 0 || cfg.Sliders.RadiusStep <= 0 || cfg.Sliders.DiameterStep <= 0 {
		return nil, fmt.Errorf("config: radius must be non-negative and steps positive")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}
