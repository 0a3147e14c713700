package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"seatmap-cli/seatmap"
)

const (
	RendererStage = "stage"
	RendererGrid  = "grid"
)

// Config holds everything read from the environment.
type Config struct {
	LogLevel string
	// LogFile receives logs while the terminal UI owns stdout. Empty discards.
	LogFile string

	// Renderer picks how the seat map is drawn: stage or grid.
	Renderer string

	// Seed drives the generated stadium availability.
	Seed uint64

	// AutoSelectTicket selects the first ticket of a section on seat click.
	AutoSelectTicket bool
	// SingleSeat limits the seat map to one seat at a time.
	SingleSeat bool

	MaxQuantity int

	SeatMap seatmap.Config
}

// Load reads .env when present, then SEATMAP_* variables.
func Load() *Config {
	_ = godotenv.Load()

	defaults := seatmap.DefaultConfig()
	cfg := &Config{
		LogLevel:         getEnv("SEATMAP_LOG_LEVEL", "info"),
		LogFile:          getEnv("SEATMAP_LOG_FILE", ""),
		Renderer:         getEnv("SEATMAP_RENDERER", RendererStage),
		Seed:             getUintEnv("SEATMAP_SEED", 2024),
		AutoSelectTicket: getBoolEnv("SEATMAP_AUTO_SELECT_TICKET", false),
		SingleSeat:       getBoolEnv("SEATMAP_SINGLE_SEAT", false),
		MaxQuantity:      getIntEnv("SEATMAP_MAX_QUANTITY", 10),

		SeatMap: seatmap.Config{
			Threshold:      getFloatEnv("SEATMAP_ZOOM_THRESHOLD", defaults.Threshold),
			MaxZoom:        getFloatEnv("SEATMAP_MAX_ZOOM", defaults.MaxZoom),
			ZoomStep:       getFloatEnv("SEATMAP_ZOOM_STEP", defaults.ZoomStep),
			PanBoundX:      defaults.PanBoundX,
			SidePanelWidth: defaults.SidePanelWidth,
			OriginX:        defaults.OriginX,
			OriginY:        defaults.OriginY,
			RowSpacing:     defaults.RowSpacing,
			SeatSpacing:    defaults.SeatSpacing,
			SeatHit:        defaults.SeatHit,
			SectionHitX:    defaults.SectionHitX,
			SectionHitY:    defaults.SectionHitY,
		},
	}

	cfg.Renderer = strings.ToLower(cfg.Renderer)
	if cfg.Renderer != RendererGrid {
		cfg.Renderer = RendererStage
	}
	if cfg.MaxQuantity < 1 {
		cfg.MaxQuantity = 1
	}
	return cfg
}

// SeatPolicy is the seat selection policy for the seat map screen.
func (c *Config) SeatPolicy() seatmap.Policy {
	if c.SingleSeat {
		return seatmap.Single
	}
	return seatmap.Multi
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

func getUintEnv(key string, fallback uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}
