package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	CORSOrigins    []string
	TrustedProxies []string
	FrontendURL    string
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const (
	StorageDriverDisk  = "disk"
	StorageDriverMinio = "minio"
)

type StorageConfig struct {
	Driver     string
	UploadDir  string
	PublicPath string

	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

type UploadsConfig struct {
	MaxBytes    int64
	RequireAuth bool
}

type MailConfig struct {
	Host               string
	Port               int
	Username           string
	Password           string
	SSL                bool
	InsecureSkipVerify bool
	From               string
	NotifyEmail        string
	Timeout            time.Duration
}

type SecurityConfig struct {
	JWTAccessSecret   string
	JWTAccessTTL      time.Duration
	JWTRefreshTTL     time.Duration
	MaxSessions       int
	ResetTokenTTL     time.Duration
	MinPasswordLength int
}

type RateLimitConfig struct {
	ContactLimit  int
	ContactWindow time.Duration
	Prefix        string
}

type CacheConfig struct {
	ContentTTL time.Duration
	Prefix     string
}

type AdminConfig struct {
	Email    string
	Password string
}

type JobsConfig struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	InProcess     bool
}

type AppConfig struct {
	Environment string
	ClientURL   string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Uploads     UploadsConfig
	Mail        MailConfig
	Security    SecurityConfig
	RateLimit   RateLimitConfig
	Cache       CacheConfig
	Admin       AdminConfig
	Jobs        JobsConfig
}

// Load reads config.yaml (optional), a .env file (optional) and JHS_* environment
// variables, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("JHS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *AppConfig) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	switch c.Storage.Driver {
	case StorageDriverDisk, StorageDriverMinio:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Security.MinPasswordLength < 1 {
		return errors.New("security.minpasswordlength must be positive")
	}
	if c.RateLimit.ContactLimit < 1 || c.RateLimit.ContactWindow <= 0 {
		return errors.New("ratelimit.contactlimit and ratelimit.contactwindow must be positive")
	}
	return nil
}

// NotifyAddress is where inquiry notifications go.
func (c MailConfig) NotifyAddress() string {
	if c.NotifyEmail != "" {
		return c.NotifyEmail
	}
	return c.Username
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("clienturl", "http://localhost:5000")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.readtimeout", "15s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.corsorigins", "https://jebessafrontend.vercel.app")
	v.SetDefault("http.trustedproxies", "")
	v.SetDefault("http.frontendurl", "https://jebessafrontend.vercel.app")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 20)
	v.SetDefault("postgres.maxidle", 2)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.driver", StorageDriverDisk)
	v.SetDefault("storage.uploaddir", "uploads")
	v.SetDefault("storage.publicpath", "/uploads")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucket", "jhs-uploads")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("uploads.maxbytes", 5*1024*1024)
	v.SetDefault("uploads.requireauth", false)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.ssl", false)
	v.SetDefault("mail.insecureskipverify", false)
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.notifyemail", "")
	v.SetDefault("mail.timeout", "15s")

	v.SetDefault("security.jwtaccesssecret", "")
	v.SetDefault("security.jwtaccessttl", "15m")
	v.SetDefault("security.jwtrefreshttl", "24h")
	v.SetDefault("security.maxsessions", 5)
	v.SetDefault("security.resettokenttl", "1h")
	v.SetDefault("security.minpasswordlength", 8)

	v.SetDefault("ratelimit.contactlimit", 10)
	v.SetDefault("ratelimit.contactwindow", "15m")
	v.SetDefault("ratelimit.prefix", "rl")

	v.SetDefault("cache.contentttl", "60s")
	v.SetDefault("cache.prefix", "content")

	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("jobs.stream", "jhs:jobs")
	v.SetDefault("jobs.group", "jhs-workers")
	v.SetDefault("jobs.consumer", "worker-1")
	v.SetDefault("jobs.claiminterval", "30s")
	v.SetDefault("jobs.inprocess", true)
}
