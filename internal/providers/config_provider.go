package providers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clipkeep/internal/structures"

	"github.com/spf13/viper"
)

const AppName = "clipkeep"

// defaultDataDir resolves the per-user application data directory.
func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	return filepath.Join(os.TempDir(), AppName)
}

func setDefaults(v *viper.Viper) {
	dataDir := defaultDataDir()

	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8765)
	v.SetDefault("persistence.filePath", filepath.Join(dataDir, "db.json"))
	v.SetDefault("persistence.imagesDir", filepath.Join(dataDir, "images"))
	v.SetDefault("persistence.renameRetries", 10)
	v.SetDefault("persistence.renameBackoff", 100*time.Millisecond)
	v.SetDefault("history.maxItems", 100)
	v.SetDefault("watcher.enabled", true)
	v.SetDefault("watcher.interval", time.Second)
	v.SetDefault("watcher.pasteDelay", 500*time.Millisecond)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", filepath.Join(dataDir, "logs"))
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 32)
	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("metrics.enabled", false)
}

// NewConfigProvider loads the YAML config at flags.ConfigPath on top of the
// built-in defaults. A missing config file is not an error.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	if flags.ConfigPath != "" {
		filename := filepath.Base(flags.ConfigPath)
		v.AddConfigPath(filepath.Dir(flags.ConfigPath))
		v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
		v.SetConfigType("yaml")
	}

	v.BindEnv("logger.level", "CLIPKEEP_LOG_LEVEL")
	v.BindEnv("webServer.port", "CLIPKEEP_PORT")
	v.BindEnv("persistence.filePath", "CLIPKEEP_DB_PATH")
	v.BindEnv("persistence.imagesDir", "CLIPKEEP_IMAGES_DIR")
	v.BindEnv("history.maxItems", "CLIPKEEP_MAX_ITEMS")
	v.BindEnv("watcher.enabled", "CLIPKEEP_WATCHER_ENABLED")
	v.BindEnv("metrics.enabled", "CLIPKEEP_METRICS_ENABLED")

	if flags.ConfigPath != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := os.MkdirAll(conf.Logger.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	if err := cnfValidator.Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	if conf.Debug {
		conf.Logger.Level = "debug"
	}

	return &conf, nil
}
