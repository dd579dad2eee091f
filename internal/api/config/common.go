package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// DREAMSCAPE_DATABASE_DSN 覆盖 database.dsn
	viper.SetEnvPrefix("DREAMSCAPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.ai_rate_limit", 10)
	viper.SetDefault("auth.jwt_expire_hour", 24*7)
	viper.SetDefault("database.max_idle", 10)
	viper.SetDefault("database.max_open", 100)
	viper.SetDefault("database.max_lifetime", 60)
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("llm.prompts_path.dream_analysis", "./prompts/dream-analysis.txt")
	viper.SetDefault("image.size", "1024x1024")
	viper.SetDefault("image.timeout", 120)
	viper.SetDefault("elastic.indices.dream_index", "dreams")
	viper.SetDefault("kafka.topic", "dream-events")
	viper.SetDefault("kafka.consumer.notify_group_id", "dreamscape-notify")
	viper.SetDefault("kafka.consumer.search_group_id", "dreamscape-search")
	viper.SetDefault("kafka.consumer.session_timeout", 30)
	viper.SetDefault("kafka.consumer.heartbeat_interval", 3)
	viper.SetDefault("kafka.consumer.rebalance_timeout", 60)
	viper.SetDefault("kafka.consumer.max_processing_time", 10)
	viper.SetDefault("jobs.counter_reconcile", "0 30 3 * * *")
}
