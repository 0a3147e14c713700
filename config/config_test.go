package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"seatmap-cli/seatmap"
)

// chdir moves into an empty directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	for _, key := range []string{"SEATMAP_LOG_LEVEL", "SEATMAP_RENDERER", "SEATMAP_SEED", "SEATMAP_SINGLE_SEAT", "SEATMAP_MAX_ZOOM"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, RendererStage, cfg.Renderer)
	assert.Equal(t, uint64(2024), cfg.Seed)
	assert.Equal(t, seatmap.Multi, cfg.SeatPolicy())
	assert.Equal(t, seatmap.DefaultConfig(), cfg.SeatMap)
	assert.Equal(t, 10, cfg.MaxQuantity)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t)
	t.Setenv("SEATMAP_LOG_LEVEL", "debug")
	t.Setenv("SEATMAP_RENDERER", "GRID")
	t.Setenv("SEATMAP_SEED", "9")
	t.Setenv("SEATMAP_SINGLE_SEAT", "true")
	t.Setenv("SEATMAP_MAX_ZOOM", "6.5")
	t.Setenv("SEATMAP_MAX_QUANTITY", "0")

	cfg := Load()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, RendererGrid, cfg.Renderer)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, seatmap.Single, cfg.SeatPolicy())
	assert.Equal(t, 6.5, cfg.SeatMap.MaxZoom)
	assert.Equal(t, 1, cfg.MaxQuantity)
}

func TestLoadIgnoresBadValues(t *testing.T) {
	chdir(t)
	t.Setenv("SEATMAP_RENDERER", "webgl")
	t.Setenv("SEATMAP_SEED", "-3")
	t.Setenv("SEATMAP_AUTO_SELECT_TICKET", "maybe")

	cfg := Load()
	assert.Equal(t, RendererStage, cfg.Renderer)
	assert.Equal(t, uint64(2024), cfg.Seed)
	assert.False(t, cfg.AutoSelectTicket)
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := chdir(t)
	t.Setenv("SEATMAP_LOG_FILE", "")
	os.Unsetenv("SEATMAP_LOG_FILE")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SEATMAP_LOG_FILE=/tmp/seatmap.log\n"), 0o644); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SEATMAP_LOG_FILE") })

	cfg := Load()
	assert.Equal(t, "/tmp/seatmap.log", cfg.LogFile)
}
