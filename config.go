package raffle

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config 完整配置结构
type Config struct {
	// 抽奖配置
	Raffle *RaffleConfig `mapstructure:"raffle"`

	// 日志配置
	Log *LogConfig `mapstructure:"log"`

	// 抽奖锁配置
	Lock *LockConfig `mapstructure:"lock"`

	// Redis 配置
	Redis *RedisConfig `mapstructure:"redis"`

	// 熔断器配置
	CircuitBreaker *CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Raffle == nil {
		return ErrConfigInvalid.New().WithDetails("raffle section is missing")
	}
	if err := c.Raffle.Validate(); err != nil {
		return err
	}

	if c.Log != nil {
		if _, err := ParseLogLevel(c.Log.Level); err != nil {
			return ErrConfigInvalid.New().WithDetails("log.level").WithCause(err)
		}
	}

	if c.Lock != nil && c.Lock.Enabled {
		if err := c.Lock.Validate(); err != nil {
			return err
		}
		if c.Redis == nil || c.Redis.Addr == "" {
			return ErrConfigInvalid.New().WithDetails("redis address is required when the draw lock is enabled")
		}
	}
	return nil
}

// RaffleConfig 抽奖参数
type RaffleConfig struct {
	Name             string `mapstructure:"name"`
	BaseSeed         string `mapstructure:"base_seed"`
	Winners          int    `mapstructure:"winners"`
	ParticipantsFile string `mapstructure:"participants_file"`
	Algorithm        string `mapstructure:"algorithm"`
	NonceBytes       int    `mapstructure:"nonce_bytes"`
	GuardSource      bool   `mapstructure:"guard_source"`
}

// DefaultRaffleConfig returns the built-in raffle parameters
func DefaultRaffleConfig() *RaffleConfig {
	return &RaffleConfig{
		Name:             DefaultRaffleName,
		BaseSeed:         DefaultBaseSeed,
		Winners:          DefaultWinnerCount,
		ParticipantsFile: DefaultParticipantsFile,
		Algorithm:        string(DefaultAlgorithm),
		NonceBytes:       DefaultNonceBytes,
	}
}

// Validate 验证抽奖参数
func (c *RaffleConfig) Validate() error {
	switch {
	case c.Name == "":
		return ErrConfigInvalid.New().WithDetails("raffle name is required")
	case c.BaseSeed == "":
		return ErrConfigInvalid.New().WithDetails("base seed is required")
	case !utf8.ValidString(c.BaseSeed):
		return ErrConfigInvalid.New().WithDetails("base seed is not valid UTF-8")
	case c.Winners <= 0:
		return ErrConfigInvalid.New().WithDetails("winner count must be positive, got %d", c.Winners)
	case c.ParticipantsFile == "":
		return ErrConfigInvalid.New().WithDetails("participants file is required")
	case c.NonceBytes < MinNonceBytes || c.NonceBytes > MaxNonceBytes:
		return ErrConfigInvalid.New().WithDetails("nonce bytes must be between %d and %d, got %d",
			MinNonceBytes, MaxNonceBytes, c.NonceBytes)
	}
	if _, err := ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	return nil
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LockConfig 抽奖锁配置
type LockConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	TTL           time.Duration `mapstructure:"ttl"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

// DefaultLockConfig returns the lock defaults (disabled)
func DefaultLockConfig() *LockConfig {
	return &LockConfig{
		TTL:           DefaultLockTTL,
		RetryAttempts: DefaultRetryAttempts,
		RetryInterval: DefaultRetryInterval,
	}
}

// Validate 验证锁配置
func (c *LockConfig) Validate() error {
	if c.TTL < MinLockTTL || c.TTL > MaxLockTTL {
		return ErrConfigInvalid.New().WithDetails("lock ttl must be between %v and %v", MinLockTTL, MaxLockTTL)
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > MaxRetryAttempts {
		return ErrConfigInvalid.New().WithDetails("lock retry attempts must be between 0 and %d", MaxRetryAttempts)
	}
	if c.RetryInterval < 0 {
		return ErrConfigInvalid.New().WithDetails("lock retry interval cannot be negative")
	}
	return nil
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize   int `mapstructure:"pool_size"`
	MaxRetries int `mapstructure:"max_retries"`

	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultRedisConfig 返回默认的Redis配置
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:         DefaultRedisAddr,
		Password:     DefaultRedisPassword,
		DB:           DefaultRedisDB,
		PoolSize:     DefaultRedisPoolSize,
		MaxRetries:   DefaultRedisMaxRetries,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
	}
}

// NewRedisClientFromConfig 从配置创建Redis客户端
func NewRedisClientFromConfig(config *RedisConfig) *redis.Client {
	if config == nil {
		config = DefaultRedisConfig()
	}

	return redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MaxRetries:   config.MaxRetries,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Name          string        `mapstructure:"name"`
	MaxRequests   uint32        `mapstructure:"max_requests"`
	Interval      time.Duration `mapstructure:"interval"`
	Timeout       time.Duration `mapstructure:"timeout"`
	FailureRatio  float64       `mapstructure:"failure_ratio"`
	MinRequests   uint32        `mapstructure:"min_requests"`
	OnStateChange bool          `mapstructure:"on_state_change"`
}

// DefaultCircuitBreakerConfig 返回默认熔断器配置
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:       true,
		Name:          DefaultCircuitBreakerName,
		MaxRequests:   DefaultCircuitBreakerMaxRequests,
		Interval:      DefaultCircuitBreakerInterval,
		Timeout:       DefaultCircuitBreakerTimeout,
		FailureRatio:  DefaultCircuitBreakerFailureRatio,
		MinRequests:   DefaultCircuitBreakerMinRequests,
		OnStateChange: true,
	}
}

// DefaultConfig returns the complete default configuration
func DefaultConfig() *Config {
	return &Config{
		Raffle:         DefaultRaffleConfig(),
		Log:            &LogConfig{Level: "info"},
		Lock:           DefaultLockConfig(),
		Redis:          DefaultRedisConfig(),
		CircuitBreaker: DefaultCircuitBreakerConfig(),
	}
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"participants": "raffle.participants_file",
	"base-seed":    "raffle.base_seed",
	"winners":      "raffle.winners",
	"algorithm":    "raffle.algorithm",
	"name":         "raffle.name",
	"nonce-bytes":  "raffle.nonce_bytes",
	"guard-source": "raffle.guard_source",
	"log-level":    "log.level",
	"lock":         "lock.enabled",
	"redis-addr":   "redis.addr",
}

// ConfigManager 配置管理器
type ConfigManager struct {
	viper  *viper.Viper
	config *Config
}

// NewConfigManager 创建配置管理器
func NewConfigManager() *ConfigManager {
	v := viper.New()

	// 设置配置文件名和路径
	v.SetConfigName("raffle")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/raffle")
	v.AddConfigPath("$HOME/.raffle")

	// 设置环境变量前缀
	v.SetEnvPrefix("RAFFLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &ConfigManager{viper: v}
}

// SetConfigFile uses path instead of searching for raffle.yaml
func (cm *ConfigManager) SetConfigFile(path string) {
	if path != "" {
		cm.viper.SetConfigFile(path)
	}
}

// BindFlags binds the known flags of fs; flags that were not set on the
// command line keep the lower-priority value (env, file, default)
func (cm *ConfigManager) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := cm.viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// LoadConfig 加载配置
func (cm *ConfigManager) LoadConfig() (*Config, error) {
	// 设置默认值
	cm.setDefaults()

	// 读取配置文件
	if err := cm.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, ErrConfigInvalid.New().WithDetails("failed to read config file").WithCause(err)
		}
		// 配置文件不存在时使用默认配置
	}

	// 解析配置
	config := &Config{}
	if err := cm.viper.Unmarshal(config); err != nil {
		return nil, ErrConfigInvalid.New().WithDetails("failed to unmarshal config").WithCause(err)
	}

	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cm.config = config
	return config, nil
}

// ConfigFileUsed returns the config file read by LoadConfig, if any
func (cm *ConfigManager) ConfigFileUsed() string { return cm.viper.ConfigFileUsed() }

// GetConfig 获取当前配置
func (cm *ConfigManager) GetConfig() *Config { return cm.config }

// setDefaults 设置默认配置值
func (cm *ConfigManager) setDefaults() {
	// 抽奖默认配置
	cm.viper.SetDefault("raffle.name", DefaultRaffleName)
	cm.viper.SetDefault("raffle.base_seed", DefaultBaseSeed)
	cm.viper.SetDefault("raffle.winners", DefaultWinnerCount)
	cm.viper.SetDefault("raffle.participants_file", DefaultParticipantsFile)
	cm.viper.SetDefault("raffle.algorithm", string(DefaultAlgorithm))
	cm.viper.SetDefault("raffle.nonce_bytes", DefaultNonceBytes)
	cm.viper.SetDefault("raffle.guard_source", false)

	cm.viper.SetDefault("log.level", "info")

	// 抽奖锁默认配置
	cm.viper.SetDefault("lock.enabled", false)
	cm.viper.SetDefault("lock.ttl", "30s")
	cm.viper.SetDefault("lock.retry_attempts", DefaultRetryAttempts)
	cm.viper.SetDefault("lock.retry_interval", "100ms")

	// Redis 默认配置
	cm.viper.SetDefault("redis.addr", DefaultRedisAddr)
	cm.viper.SetDefault("redis.password", DefaultRedisPassword)
	cm.viper.SetDefault("redis.db", DefaultRedisDB)
	cm.viper.SetDefault("redis.pool_size", DefaultRedisPoolSize)
	cm.viper.SetDefault("redis.max_retries", DefaultRedisMaxRetries)
	cm.viper.SetDefault("redis.dial_timeout", "5s")
	cm.viper.SetDefault("redis.read_timeout", "3s")
	cm.viper.SetDefault("redis.write_timeout", "3s")

	// 熔断器默认配置
	cm.viper.SetDefault("circuit_breaker.enabled", true)
	cm.viper.SetDefault("circuit_breaker.name", DefaultCircuitBreakerName)
	cm.viper.SetDefault("circuit_breaker.max_requests", DefaultCircuitBreakerMaxRequests)
	cm.viper.SetDefault("circuit_breaker.interval", "60s")
	cm.viper.SetDefault("circuit_breaker.timeout", "30s")
	cm.viper.SetDefault("circuit_breaker.failure_ratio", DefaultCircuitBreakerFailureRatio)
	cm.viper.SetDefault("circuit_breaker.min_requests", DefaultCircuitBreakerMinRequests)
	cm.viper.SetDefault("circuit_breaker.on_state_change", true)
}
