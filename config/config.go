// Package config loads runtime configuration from an optional YAML
// file plus environment variables, using a file-then-env-then-fallback
// layering: YAML supplies defaults, environment variables override
// them, and a final hardcoded fallback covers a fresh checkout with
// neither.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"dexrouter/internal/types"
)

// CacheBackend selects the pool cache's storage layer.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendRedis  CacheBackend = "redis"
)

// Config holds every environment-tunable runtime setting. It is
// assembled once at startup via Load and then passed explicitly to
// collaborators rather than consulted through a package-level global.
type Config struct {
	RPCURL             string        `yaml:"rpc_url"`
	ChainID            int64         `yaml:"chain_id"`
	UniswapV2Factory   types.Address `yaml:"-"`
	SushiswapFactory   types.Address `yaml:"-"`
	CacheEnabled       bool          `yaml:"cache_enabled"`
	CacheTTLSeconds    int           `yaml:"cache_ttl_seconds"`
	CachePath          string        `yaml:"cache_path"`
	DefaultSlippageBps int           `yaml:"default_slippage_bps"`
	MaxHops            int           `yaml:"max_hops"`
	GasPriceGwei       uint64        `yaml:"gas_price_gwei"`
	CacheBackend       CacheBackend  `yaml:"cache_backend"`
	RedisAddr          string        `yaml:"redis_addr"`
	RedisPassword      string        `yaml:"redis_password"`
}

const (
	defaultUniswapV2Factory = "0x5C69bEe701ef814a2B6a3EDD4B1652CB9cc5aA6f"
	defaultSushiswapFactory = "0xC0AEe478e3658e2610c5F7A4A2E1777cE9e4f2Ac"
)

// yamlShadow mirrors the string-typed fields that need post-parse
// address validation, since types.Address doesn't unmarshal straight
// from YAML the way ConfigError-producing ParseAddress requires.
type yamlShadow struct {
	UniswapV2Factory string `yaml:"uniswap_v2_factory"`
	SushiswapFactory string `yaml:"sushiswap_factory"`
}

// loadConfigFromFile loads optional YAML defaults. A missing file is
// not an error, only a logged note.
func loadConfigFromFile(path string, shadow *yamlShadow, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("config: no YAML file at %s, using env vars and defaults only", path)
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, shadow); err != nil {
		return err
	}
	log.Printf("config: loaded defaults from %s", path)
	return nil
}

// Load assembles a Config from config/config.yaml (if present), a
// .env file (if present), then environment variables, falling back to
// spec-mandated defaults at the bottom of the stack. RPC_URL has no
// fallback: its absence is a ConfigError, since nothing in this module
// can talk to a chain without it.
func Load() (*Config, error) {
	cfg := &Config{}
	shadow := &yamlShadow{}

	if err := loadConfigFromFile("config/config.yaml", shadow, cfg); err != nil {
		log.Printf("config: failed to load config.yaml: %v. Using defaults.", err)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file found, using environment variables")
	}

	cfg.RPCURL = getEnv("RPC_URL", cfg.RPCURL, "")
	if cfg.RPCURL == "" {
		return nil, &types.ConfigError{Field: "RPC_URL", Reason: "required, no default"}
	}

	cfg.ChainID = getEnvAsInt64("CHAIN_ID", cfg.ChainID, 1)

	factoryRaw := getEnv("UNISWAP_V2_FACTORY", shadow.UniswapV2Factory, defaultUniswapV2Factory)
	factory, err := types.ParseAddress(factoryRaw)
	if err != nil {
		return nil, &types.ConfigError{Field: "UNISWAP_V2_FACTORY", Reason: err.Error()}
	}
	cfg.UniswapV2Factory = factory

	sushiRaw := getEnv("SUSHISWAP_FACTORY", shadow.SushiswapFactory, defaultSushiswapFactory)
	sushi, err := types.ParseAddress(sushiRaw)
	if err != nil {
		return nil, &types.ConfigError{Field: "SUSHISWAP_FACTORY", Reason: err.Error()}
	}
	cfg.SushiswapFactory = sushi

	cfg.CacheEnabled = getEnvAsBool("CACHE_ENABLED", cfg.CacheEnabled, true)
	cfg.CacheTTLSeconds = getEnvAsInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds, 300)
	cfg.CachePath = getEnv("CACHE_PATH", cfg.CachePath, "./cache/pools.json")
	cfg.DefaultSlippageBps = getEnvAsInt("DEFAULT_SLIPPAGE_BPS", cfg.DefaultSlippageBps, 50)
	cfg.MaxHops = getEnvAsInt("MAX_HOPS", cfg.MaxHops, 3)
	cfg.GasPriceGwei = uint64(getEnvAsInt64("GAS_PRICE_GWEI", int64(cfg.GasPriceGwei), 30))

	backend := getEnv("CACHE_BACKEND", string(cfg.CacheBackend), string(CacheBackendMemory))
	cfg.CacheBackend = CacheBackend(backend)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr, "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword, "")

	return cfg, nil
}

func getEnv(key, yamlValue, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if yamlValue != "" {
		return yamlValue
	}
	return fallback
}

func getEnvAsInt(key string, yamlValue, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	if yamlValue != 0 {
		return yamlValue
	}
	return fallback
}

func getEnvAsInt64(key string, yamlValue, fallback int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil {
		return v
	}
	if yamlValue != 0 {
		return yamlValue
	}
	return fallback
}

func getEnvAsBool(key string, yamlValue bool, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return firstNonZeroBool(yamlValue, fallback)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return firstNonZeroBool(yamlValue, fallback)
	}
	return v
}

func firstNonZeroBool(yamlValue, fallback bool) bool {
	if yamlValue {
		return true
	}
	return fallback
}
