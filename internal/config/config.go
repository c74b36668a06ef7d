package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/siweifamily/dashboard/internal/models"
)

// Config holds service configuration loaded from YAML and env.
type Config struct {
	ServerPort string

	CacheBackend          string // "in_memory" or "memcached"
	MemcachedAddrs        string
	MemcachedTimeout      time.Duration
	MemcachedMaxIdleConns int

	CurrencyTTL time.Duration
	WeatherTTL  time.Duration
	FuelTTL     time.Duration

	CurrencyFeedURL string
	CurrencyTimeout time.Duration
	WeatherAPIURL   string
	WeatherTimeout  time.Duration
	FuelPageURL     string
	FuelTimeout     time.Duration

	RoutingAPIURL   string
	RoutingAPIKey   string
	RoutingTimeout  time.Duration
	RoutingLanguage string

	RequestTimeout time.Duration
	RateLimitRPS   int
	RateLimitBurst int

	WarmInterval    time.Duration
	ShutdownTimeout time.Duration

	HomeAddress      string
	WeatherLocations []models.Location
	Destinations     []models.Destination
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Cache struct {
		Backend     string `yaml:"backend"`
		CurrencyTTL string `yaml:"currency_ttl"`
		WeatherTTL  string `yaml:"weather_ttl"`
		FuelTTL     string `yaml:"fuel_ttl"`
		Memcached   struct {
			Addrs        string `yaml:"addrs"`
			Timeout      string `yaml:"timeout"`
			MaxIdleConns int    `yaml:"max_idle_conns"`
		} `yaml:"memcached"`
	} `yaml:"cache"`

	Feeds struct {
		CurrencyURL     string `yaml:"currency_url"`
		CurrencyTimeout string `yaml:"currency_timeout"`
		WeatherURL      string `yaml:"weather_url"`
		WeatherTimeout  string `yaml:"weather_timeout"`
		FuelURL         string `yaml:"fuel_url"`
		FuelTimeout     string `yaml:"fuel_timeout"`
	} `yaml:"feeds"`

	Routing struct {
		URL      string `yaml:"url"`
		Timeout  string `yaml:"timeout"`
		Language string `yaml:"language"`
	} `yaml:"routing"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Reliability struct {
		RateLimitRPS   int `yaml:"rate_limit_rps"`
		RateLimitBurst int `yaml:"rate_limit_burst"`
	} `yaml:"reliability"`

	Warm struct {
		Interval string `yaml:"interval"`
	} `yaml:"warm"`

	Shutdown struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"shutdown"`

	HomeAddress      string               `yaml:"home_address"`
	WeatherLocations []models.Location    `yaml:"weather_locations"`
	Destinations     []models.Destination `yaml:"destinations"`
}

type secretsFile struct {
	RoutingAPIKey string `yaml:"routing_api_key"`
}

// The deployment this service replaces carried its locations and
// destinations inline; they stay here as defaults so an empty config file
// still renders the family's dashboard.
var defaultLocations = []models.Location{
	{Name: "苗栗", Lat: 24.51, Lon: 120.82},
	{Name: "新竹", Lat: 24.80, Lon: 120.99},
	{Name: "芎林", Lat: 24.77, Lon: 121.07},
	{Name: "木柵", Lat: 24.99, Lon: 121.57},
	{Name: "內湖", Lat: 25.08, Lon: 121.56},
	{Name: "波士頓", Lat: 42.36, Lon: -71.06},
	{Name: "德國", Lat: 51.05, Lon: 13.74},
}

var defaultDestinations = []models.Destination{
	{Name: "月華家", Address: "文山區木柵路二段109巷137號", ReturnLabel: "反木柵", BaselineOutbound: 76, BaselineReturn: 76},
	{Name: "秋華家", Address: "新竹的名人大矽谷", ReturnLabel: "反芎林", BaselineOutbound: 34, BaselineReturn: 36},
	{Name: "孟竹家", Address: "新竹市東區太原路128號", ReturnLabel: "反新竹", BaselineOutbound: 31, BaselineReturn: 33},
	{Name: "小凱家", Address: "台北市內湖區文湖街21巷", ReturnLabel: "反內湖", BaselineOutbound: 77, BaselineReturn: 79},
}

const defaultHomeAddress = "苗栗縣公館鄉鶴山村11鄰鶴山146號"

// Load reads configuration from config/{ENV_NAME}.yaml (default dev). A
// missing config file is not an error; the baked-in deployment defaults
// apply. The routing API key comes from GOOGLE_MAPS_API_KEY env (a .env
// file is honored) or config/secrets.yaml; its absence is not fatal either,
// the commute block then renders "API not configured".
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg := &Config{}

	cfg.ServerPort = fc.Server.Port
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	cfg.CacheBackend = strings.TrimSpace(strings.ToLower(os.Getenv("CACHE_BACKEND")))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = strings.TrimSpace(strings.ToLower(fc.Cache.Backend))
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "in_memory"
	}
	cfg.MemcachedAddrs = strings.TrimSpace(os.Getenv("MEMCACHED_ADDRS"))
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = strings.TrimSpace(fc.Cache.Memcached.Addrs)
	}
	if cfg.MemcachedAddrs == "" {
		cfg.MemcachedAddrs = "localhost:11211"
	}
	cfg.MemcachedTimeout = parseDuration(fc.Cache.Memcached.Timeout, 500*time.Millisecond)
	cfg.MemcachedMaxIdleConns = fc.Cache.Memcached.MaxIdleConns
	if cfg.MemcachedMaxIdleConns <= 0 {
		cfg.MemcachedMaxIdleConns = 2
	}

	cfg.CurrencyTTL = parseDuration(fc.Cache.CurrencyTTL, 10*time.Minute)
	cfg.WeatherTTL = parseDuration(fc.Cache.WeatherTTL, 10*time.Minute)
	cfg.FuelTTL = parseDuration(fc.Cache.FuelTTL, time.Hour)

	cfg.CurrencyFeedURL = fc.Feeds.CurrencyURL
	cfg.CurrencyTimeout = parseDuration(fc.Feeds.CurrencyTimeout, 10*time.Second)
	cfg.WeatherAPIURL = fc.Feeds.WeatherURL
	cfg.WeatherTimeout = parseDuration(fc.Feeds.WeatherTimeout, 5*time.Second)
	cfg.FuelPageURL = fc.Feeds.FuelURL
	cfg.FuelTimeout = parseDuration(fc.Feeds.FuelTimeout, 10*time.Second)

	cfg.RoutingAPIURL = fc.Routing.URL
	cfg.RoutingTimeout = parseDuration(fc.Routing.Timeout, 10*time.Second)
	cfg.RoutingLanguage = fc.Routing.Language
	if cfg.RoutingLanguage == "" {
		cfg.RoutingLanguage = "zh-TW"
	}

	cfg.RoutingAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	if cfg.RoutingAPIKey == "" {
		secretsPath := filepath.Join(cwd, "config", "secrets.yaml")
		secretsData, err := os.ReadFile(secretsPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read secrets file: %w", err)
			}
		} else {
			var sec secretsFile
			if err := yaml.Unmarshal(secretsData, &sec); err != nil {
				return nil, fmt.Errorf("parse secrets file: %w", err)
			}
			cfg.RoutingAPIKey = sec.RoutingAPIKey
		}
	}

	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 30*time.Second)
	cfg.RateLimitRPS = fc.Reliability.RateLimitRPS
	cfg.RateLimitBurst = fc.Reliability.RateLimitBurst
	if cfg.RateLimitRPS > 0 && cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = cfg.RateLimitRPS * 2
	}

	cfg.WarmInterval = parseDurationOrZero(fc.Warm.Interval, 10*time.Minute)
	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 30*time.Second)

	cfg.HomeAddress = strings.TrimSpace(fc.HomeAddress)
	if cfg.HomeAddress == "" {
		cfg.HomeAddress = defaultHomeAddress
	}
	cfg.WeatherLocations = fc.WeatherLocations
	if len(cfg.WeatherLocations) == 0 {
		cfg.WeatherLocations = defaultLocations
	}
	cfg.Destinations = fc.Destinations
	if len(cfg.Destinations) == 0 {
		cfg.Destinations = defaultDestinations
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing
// fails or the result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	d := parseDurationOrZero(s, defaultVal)
	if d <= 0 {
		return defaultVal
	}
	return d
}

// parseDurationOrZero parses a duration string, returning defaultVal on
// empty string or parse error. Zero and negative values pass through so the
// caller can treat them as "disabled".
func parseDurationOrZero(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return defaultVal
	}
	return d
}

// validate performs post-load validation of configuration values.
func validate(cfg *Config) error {
	switch cfg.CacheBackend {
	case "in_memory", "memcached":
		// valid
	default:
		return fmt.Errorf("cache.backend must be in_memory or memcached, got %q", cfg.CacheBackend)
	}
	for _, d := range cfg.Destinations {
		if d.Address == "" {
			return fmt.Errorf("destination %q has no address", d.Name)
		}
		if d.BaselineOutbound <= 0 || d.BaselineReturn <= 0 {
			return fmt.Errorf("destination %q needs positive baseline minutes", d.Name)
		}
	}
	for _, loc := range cfg.WeatherLocations {
		if loc.Name == "" {
			return fmt.Errorf("weather location with empty name")
		}
	}
	return nil
}
