// Package config loads the storefront configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type storage struct {
	Driver string `mapstructure:"driver"`
	SQLDB  string `mapstructure:"sql_db"`
	Redis  redis  `mapstructure:"redis"`
}

// Account is a staff login. PasswordHash is a bcrypt hash.
type Account struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
	Role         string `mapstructure:"role"`
	Name         string `mapstructure:"name"`
}

type auth struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	Accounts    []Account     `mapstructure:"accounts"`
}

type topics struct {
	Orders       string `mapstructure:"orders"`
	SiteSettings string `mapstructure:"site_settings"`
}

type consumers struct {
	OrderHistoryGroup string `mapstructure:"order_history_group"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	Enabled            bool      `mapstructure:"enabled"`
	SeedBrokers        []string  `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string  `mapstructure:"schema_registry_urls"`
	Topics             topics    `mapstructure:"topics"`
	Consumers          consumers `mapstructure:"consumers"`
	TLS                tlsFiles  `mapstructure:"tls"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	CatalogFile    string     `mapstructure:"catalog_file"`
	Storage        storage    `mapstructure:"storage"`
	Auth           auth       `mapstructure:"auth"`
	Broker         broker     `mapstructure:"broker"`
}

var defaults = map[string]any{
	"log_level":                            "info",
	"http_server_addr":                     ":8080",
	"catalog_file":                         "",
	"storage.driver":                       StorageMemory,
	"storage.sql_db":                       "",
	"storage.redis.addr":                   "localhost:6379",
	"storage.redis.password":               "",
	"storage.redis.db":                     0,
	"auth.token_secret":                    "",
	"auth.token_ttl":                       "24h",
	"broker.enabled":                       false,
	"broker.seed_brokers":                  []string{},
	"broker.schema_registry_urls":          []string{},
	"broker.topics.orders":                 "storefront-orders",
	"broker.topics.site_settings":          "storefront-site-settings",
	"broker.consumers.order_history_group": "storefront-order-history",
	"broker.tls.ca":                        "",
	"broker.tls.cert":                      "",
	"broker.tls.key":                       "",
}

// Load reads the file named by STOREFRONT_CONFIG_FILE or --config. Any
// key may be overridden by a STOREFRONT_ variable, e.g.
// STOREFRONT_AUTH_TOKEN_SECRET. Invalid configuration exits the process.
func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and validates the config at path. An empty path uses
// defaults and the environment only.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr: required"))
	}

	if c.Auth.TokenSecret == "" {
		errs = append(errs, errors.New("auth.token_secret: required"))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl: must be positive"))
	}

	for i, a := range c.Auth.Accounts {
		if a.Email == "" || a.PasswordHash == "" {
			errs = append(errs, fmt.Errorf("auth.accounts[%d]: email and password_hash required", i))
		}
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Storage.SQLDB == "" {
			errs = append(errs, errors.New("storage.sql_db: required for postgres"))
		}
	case StorageRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr: required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q", c.Storage.Driver))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	CatalogFile=%q

	Storage:
	Driver=%q
	SQLDB=%s
	RedisAddr=%q

	Auth:
	TokenSecret=%s
	TokenTTL=%s
	Accounts=%d

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Orders=%q
		SiteSettings=%q
	Consumers:
		OrderHistoryGroup=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.CatalogFile,
		c.Storage.Driver,
		redact(c.Storage.SQLDB),
		c.Storage.Redis.Addr,
		redact(c.Auth.TokenSecret),
		c.Auth.TokenTTL,
		len(c.Auth.Accounts),
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.CA != "",
		c.Broker.Topics.Orders,
		c.Broker.Topics.SiteSettings,
		c.Broker.Consumers.OrderHistoryGroup,
	)
}

func redact(s string) string {
	if s == "" {
		return `""`
	}
	return `"***"`
}
