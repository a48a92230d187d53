// Package config resolves rigtune.Options from defaults, an optional YAML
// config file, a .env file, RIGTUNE_* environment variables and flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stepherg/rigtune"
)

const EnvPrefix = "RIGTUNE"

const (
	KeyListenAddr      = "listen_addr"
	KeyCatalogFile     = "catalog_file"
	KeyStaticDir       = "static_dir"
	KeyAllowedOrigins  = "allowed_origins"
	KeyRateLimitRPS    = "rate_limit_rps"
	KeyRateLimitBurst  = "rate_limit_burst"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyReadTimeout     = "read_timeout"
	KeyWriteTimeout    = "write_timeout"
	KeyIdleTimeout     = "idle_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
)

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	d := rigtune.DefaultOptions()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	listen := d.ListenAddr
	// PORT is what hosting platforms inject; it only replaces the default
	if port := os.Getenv("PORT"); port != "" {
		listen = ":" + port
	}
	v.SetDefault(KeyListenAddr, listen)
	v.SetDefault(KeyCatalogFile, d.CatalogFile)
	v.SetDefault(KeyStaticDir, d.StaticDir)
	v.SetDefault(KeyAllowedOrigins, d.AllowedOrigins)
	v.SetDefault(KeyRateLimitRPS, d.RateLimit.RequestsPerSecond)
	v.SetDefault(KeyRateLimitBurst, d.RateLimit.Burst)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyReadTimeout, d.HTTP.ReadTimeout)
	v.SetDefault(KeyWriteTimeout, d.HTTP.WriteTimeout)
	v.SetDefault(KeyIdleTimeout, d.HTTP.IdleTimeout)
	v.SetDefault(KeyShutdownTimeout, d.HTTP.ShutdownTimeout)
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env (%s): %w", path, err)
	}
	return nil
}

// BindFlags maps command flags onto config keys. Flag names use dashes.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		errs = append(errs, v.BindPFlag(key, f))
	})
	return errors.Join(errs...)
}

// Load reads the optional config file and resolves Options.
func Load(v *viper.Viper, file string) (rigtune.Options, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return rigtune.Options{}, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	opts := rigtune.Options{
		ListenAddr:     v.GetString(KeyListenAddr),
		CatalogFile:    v.GetString(KeyCatalogFile),
		StaticDir:      v.GetString(KeyStaticDir),
		AllowedOrigins: splitList(v.GetStringSlice(KeyAllowedOrigins)),
		RateLimit: rigtune.RateLimitConfig{
			RequestsPerSecond: v.GetInt(KeyRateLimitRPS),
			Burst:             v.GetInt(KeyRateLimitBurst),
		},
		Log: rigtune.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		HTTP: rigtune.HTTPConfig{
			ReadTimeout:     v.GetDuration(KeyReadTimeout),
			WriteTimeout:    v.GetDuration(KeyWriteTimeout),
			IdleTimeout:     v.GetDuration(KeyIdleTimeout),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
	}
	return opts, validate(opts)
}

func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
