package providers

import (
	"fmt"
	"path/filepath"
	"protostats/internal/structures"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "PROTOSTATS_LOG_LEVEL")
	viper.BindEnv("catalog.baseUrl", "PROTOSTATS_CATALOG_URL")
	viper.BindEnv("snapshot.ttl", "PROTOSTATS_SNAPSHOT_TTL")
	viper.BindEnv("snapshot.refreshInterval", "PROTOSTATS_REFRESH_INTERVAL")
	viper.BindEnv("cache.enabled", "PROTOSTATS_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PROTOSTATS_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Catalog.PageSize <= 0 {
		conf.Catalog.PageSize = 100
	}
	if conf.Analysis.RetiredStatus == 0 {
		conf.Analysis.RetiredStatus = 4
	}

	conf.AppName = "PrototypeStatsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
