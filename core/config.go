package core

import (
	"fmt"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/devblok/chili/diag"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time        TimeConfiguration
	Renderer    RendererConfiguration
	Diagnostics diag.Configuration
	Assets      AssetConfiguration

	LogLevel logrus.Level
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  uint32
	ScreenHeight uint32
}

// AssetConfiguration tells where resources are loaded from
type AssetConfiguration struct {
	// Archive is the path to a kar archive, empty to use
	// only built-in assets
	Archive string
}

// DefaultConfiguration is used for any setting not found in
// the environment
var DefaultConfiguration = Configuration{
	Time: TimeConfiguration{
		FramesPerSecond: 60,
	},
	Renderer: RendererConfiguration{
		ScreenWidth:  800,
		ScreenHeight: 600,
	},
	Diagnostics: diag.DefaultConfiguration,
	LogLevel:    logrus.InfoLevel,
}

// Environment keys read by LoadConfiguration
const (
	EnvFPS          = "CHILI_FPS"
	EnvScreenWidth  = "CHILI_SCREEN_WIDTH"
	EnvScreenHeight = "CHILI_SCREEN_HEIGHT"
	EnvFrameWindow  = "CHILI_FRAME_WINDOW"
	EnvFrameSample  = "CHILI_FRAME_SAMPLE"
	EnvAssetArchive = "CHILI_ASSET_ARCHIVE"
	EnvLogLevel     = "CHILI_LOG_LEVEL"
)

// LoadConfiguration loads the given .env files, if any, then reads
// the configuration from the environment. Missing keys keep their
// DefaultConfiguration values.
func LoadConfiguration(files ...string) (Configuration, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Configuration{}, fmt.Errorf("loading env files: %w", err)
		}
	}
	// envy snapshots the environment, pick up what was just loaded
	envy.Reload()

	cfg := DefaultConfiguration
	var err error
	if cfg.Time.FramesPerSecond, err = envInt(EnvFPS, cfg.Time.FramesPerSecond); err != nil {
		return Configuration{}, err
	}
	width, err := envInt(EnvScreenWidth, int(cfg.Renderer.ScreenWidth))
	if err != nil {
		return Configuration{}, err
	}
	height, err := envInt(EnvScreenHeight, int(cfg.Renderer.ScreenHeight))
	if err != nil {
		return Configuration{}, err
	}
	cfg.Renderer.ScreenWidth, cfg.Renderer.ScreenHeight = uint32(width), uint32(height)

	if cfg.Diagnostics.FrameWindow, err = envInt(EnvFrameWindow, cfg.Diagnostics.FrameWindow); err != nil {
		return Configuration{}, err
	}
	if cfg.Diagnostics.FrameSample, err = envInt(EnvFrameSample, cfg.Diagnostics.FrameSample); err != nil {
		return Configuration{}, err
	}
	cfg.Assets.Archive = envy.Get(EnvAssetArchive, cfg.Assets.Archive)

	if cfg.LogLevel, err = logrus.ParseLevel(envy.Get(EnvLogLevel, cfg.LogLevel.String())); err != nil {
		return Configuration{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	return cfg, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := envy.Get(key, strconv.Itoa(fallback))
	num, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	if num < 0 {
		return 0, fmt.Errorf("%s: %d is negative", key, num)
	}
	return num, nil
}
