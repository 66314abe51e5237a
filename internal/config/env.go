package config

import (
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "LOCKBOX"

// parseEnv overlays values from LOCKBOX_* environment variables.
func parseEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	overlay(cfg, v.GetString("store_path"), v.GetString("log_level"), v.GetString("log_format"))
}
