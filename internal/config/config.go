// Package config provides configuration management for go-ecsdemo.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Default listener settings
	DefaultListenAddr      = "0.0.0.0"
	DefaultListenPort      = 80
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// DefaultConfigName is looked up in the working directory when no --config is given
	DefaultConfigName = "settings"
)

// MainConfig holds the main configuration for go-ecsdemo
type MainConfig struct {
	// Web interface settings
	Web WebConfig `mapstructure:"web"`

	// Logging settings
	Log LogConfig `mapstructure:"log"`

	// Profiler settings
	Profiler ProfilerConfig `mapstructure:"profiler"`

	AppVersion string `mapstructure:"-"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ListenPort      int           `mapstructure:"listen_port"`
	SSL             bool          `mapstructure:"ssl"`
	CertFile        string        `mapstructure:"cert_file"`
	KeyFile         string        `mapstructure:"key_file"`
	Debug           bool          `mapstructure:"debug"` // gin debug mode
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json or auto
}

// ProfilerConfig enables the cpu/mem profiler web ui when Addr is set
type ProfilerConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultTrustedProxies covers loopback and private networks (load balancers, sidecars)
var DefaultTrustedProxies = []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

// flag name -> config key
var flagKeys = map[string]string{
	"addr":       "web.listen_addr",
	"port":       "web.listen_port",
	"ssl":        "web.ssl",
	"cert":       "web.cert_file",
	"key":        "web.key_file",
	"debug":      "web.debug",
	"log-level":  "log.level",
	"log-format": "log.format",
	"pprof":      "profiler.addr",
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenAddr:      DefaultListenAddr,
			ListenPort:      DefaultListenPort,
			TrustedProxies:  append([]string(nil), DefaultTrustedProxies...),
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// setDefaults mirrors NewDefaultConfig into v so unset keys keep their defaults
func setDefaults(v *viper.Viper) {
	def := NewDefaultConfig()
	v.SetDefault("web.listen_addr", def.Web.ListenAddr)
	v.SetDefault("web.listen_port", def.Web.ListenPort)
	v.SetDefault("web.ssl", def.Web.SSL)
	v.SetDefault("web.cert_file", def.Web.CertFile)
	v.SetDefault("web.key_file", def.Web.KeyFile)
	v.SetDefault("web.debug", def.Web.Debug)
	v.SetDefault("web.trusted_proxies", def.Web.TrustedProxies)
	v.SetDefault("web.read_timeout", def.Web.ReadTimeout)
	v.SetDefault("web.write_timeout", def.Web.WriteTimeout)
	v.SetDefault("web.shutdown_timeout", def.Web.ShutdownTimeout)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("profiler.addr", def.Profiler.Addr)
}

// Load builds the configuration from defaults, an optional settings file and
// the flags that were explicitly set on flags.
// An empty path looks for settings.yaml in the working directory and silently
// continues without it; an explicit path must exist.
func Load(path string, flags *pflag.FlagSet) (*MainConfig, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else {
		wd, err := os.Getwd()
		if err == nil {
			v.AddConfigPath(wd)
		}
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.Wrap(err, "read config")
			}
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag --%s", name)
			}
		}
	}

	cfg := NewDefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	cfg.AppVersion = AppVersion

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise only fail at bind time
func (c *MainConfig) Validate() error {
	if c.Web.ListenPort < 0 || c.Web.ListenPort > 65535 {
		return errors.Errorf("invalid port number: %d (must be between 0 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	switch c.Log.Format {
	case "text", "json", "auto":
	default:
		return errors.Errorf("invalid log format: %q (must be text, json or auto)", c.Log.Format)
	}
	return nil
}
