package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. CTPARSE_PORT.
const EnvPrefix = "CTPARSE"

// Configuration keys.
const (
	KeyMode      = "mode"
	KeyAddr      = "addr"
	KeyPort      = "port"
	KeyData      = "data"
	KeyDriver    = "driver"
	KeyDSN       = "dsn"
	KeyModel     = "model"
	KeyLang      = "lang"
	KeyBeamSize  = "beam_size"
	KeyMaxRounds = "max_rounds"
	KeyTimeout   = "timeout"
	KeyCacheSize = "cache_size"
	KeyCacheTTL  = "cache_ttl"
	KeyRateLimit = "rate_limit"
	KeyRateBurst = "rate_burst"
	KeyRateKeys  = "rate_keys"
	KeyRateTTL   = "rate_ttl"
)

// Profile is the configuration to start the parser server and CLI.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// Driver is the corpus database driver (sqlite or postgres)
	Driver string
	// DSN points to where the labelled corpus is stored
	DSN string
	// Version is the current version of server
	Version string

	// Parser configuration
	Model     string        // CTPARSE_MODEL, scorer blob path; empty selects the length scorer
	Lang      string        // CTPARSE_LANG (default: multi)
	BeamSize  int           // CTPARSE_BEAM_SIZE (default: 20)
	MaxRounds int           // CTPARSE_MAX_ROUNDS (default: 16)
	Timeout   time.Duration // CTPARSE_TIMEOUT (default: 500ms)
	CacheSize int           // CTPARSE_CACHE_SIZE (default: 1000)
	CacheTTL  time.Duration // CTPARSE_CACHE_TTL (default: 5m)

	// HTTP rate limiting per client
	RateLimit float64 // CTPARSE_RATE_LIMIT, requests per second (default: 10)
	RateBurst int     // CTPARSE_RATE_BURST (default: 20)
	// RateKeys bounds the number of clients tracked at once; the least
	// recently seen client is forgotten first.
	RateKeys int           // CTPARSE_RATE_KEYS (default: 10000)
	RateTTL  time.Duration // CTPARSE_RATE_TTL, idle time before a client is forgotten (default: 5m)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMode, "demo")
	v.SetDefault(KeyAddr, "")
	v.SetDefault(KeyPort, 8081)
	v.SetDefault(KeyData, ".")
	v.SetDefault(KeyDriver, "sqlite")
	v.SetDefault(KeyDSN, "")
	v.SetDefault(KeyModel, "")
	v.SetDefault(KeyLang, "multi")
	v.SetDefault(KeyBeamSize, 20)
	v.SetDefault(KeyMaxRounds, 16)
	v.SetDefault(KeyTimeout, 500*time.Millisecond)
	v.SetDefault(KeyCacheSize, 1000)
	v.SetDefault(KeyCacheTTL, 5*time.Minute)
	v.SetDefault(KeyRateLimit, 10.0)
	v.SetDefault(KeyRateBurst, 20)
	v.SetDefault(KeyRateKeys, 10000)
	v.SetDefault(KeyRateTTL, 5*time.Minute)
}

// NewViper returns a viper instance with defaults set and CTPARSE_*
// environment variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadConfigFile merges a config file into v. An empty path is a no-op.
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	return nil
}

// FromViper builds a Profile from the resolved keys of v.
func FromViper(v *viper.Viper) *Profile {
	return &Profile{
		Mode:      v.GetString(KeyMode),
		Addr:      v.GetString(KeyAddr),
		Port:      v.GetInt(KeyPort),
		Data:      v.GetString(KeyData),
		Driver:    v.GetString(KeyDriver),
		DSN:       v.GetString(KeyDSN),
		Model:     v.GetString(KeyModel),
		Lang:      v.GetString(KeyLang),
		BeamSize:  v.GetInt(KeyBeamSize),
		MaxRounds: v.GetInt(KeyMaxRounds),
		Timeout:   v.GetDuration(KeyTimeout),
		CacheSize: v.GetInt(KeyCacheSize),
		CacheTTL:  v.GetDuration(KeyCacheTTL),
		RateLimit: v.GetFloat64(KeyRateLimit),
		RateBurst: v.GetInt(KeyRateBurst),
		RateKeys:  v.GetInt(KeyRateKeys),
		RateTTL:   v.GetDuration(KeyRateTTL),
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		absDir, err := filepath.Abs(dataDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unsupported driver %q", p.Driver)
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.BeamSize <= 0 || p.MaxRounds <= 0 {
		return errors.Errorf("beam_size and max_rounds must be positive, got %d and %d", p.BeamSize, p.MaxRounds)
	}
	if p.Timeout < 0 || p.CacheTTL < 0 {
		return errors.New("timeout and cache_ttl must not be negative")
	}
	if p.CacheSize <= 0 {
		return errors.Errorf("cache_size must be positive, got %d", p.CacheSize)
	}
	if p.RateLimit <= 0 || p.RateBurst <= 0 {
		return errors.Errorf("rate_limit and rate_burst must be positive, got %v and %d", p.RateLimit, p.RateBurst)
	}
	if p.RateKeys <= 0 || p.RateTTL <= 0 {
		return errors.Errorf("rate_keys and rate_ttl must be positive, got %d and %v", p.RateKeys, p.RateTTL)
	}

	if p.Driver == "postgres" {
		if p.DSN == "" {
			return errors.New("dsn is required for postgres")
		}
		return nil
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir
	if p.DSN == "" {
		dbFile := fmt.Sprintf("ctparse_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	return nil
}
