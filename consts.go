package raffle

import "time"

const (
	// DefaultRaffleName is the name used for lock keys when none is configured
	DefaultRaffleName = "default"

	// DefaultBaseSeed is the base seed used when none is configured
	DefaultBaseSeed = "CorvusEliteRaffle_April142025_WeightedEntries"

	// DefaultWinnerCount is the number of winners drawn when none is configured
	DefaultWinnerCount = 3

	// DefaultParticipantsFile is the participants source read when none is configured
	DefaultParticipantsFile = "participants.json"

	// DefaultNonceBytes is the number of random bytes in a draw nonce (32 hex characters)
	DefaultNonceBytes = 16

	// MinNonceBytes is the smallest nonce accepted by the configuration
	MinNonceBytes = 8

	// MaxNonceBytes is the largest nonce accepted by the configuration
	MaxNonceBytes = 64

	// SeedSeparator joins the base seed and the nonce before hashing
	SeedSeparator = "-"

	// MaxPoolEntries bounds the expanded entry pool
	MaxPoolEntries = 1 << 26

	// DefaultSimulationTrials is the number of trials run by Simulate when none is given
	DefaultSimulationTrials = 1000

	// MaxSimulationTrials bounds the number of trials run by Simulate
	MaxSimulationTrials = 1_000_000
)

const (
	// LockKeyPrefix is the prefix for Redis draw lock keys
	LockKeyPrefix = "raffle:lock:"

	// DefaultLockTTL is the default expiration of a draw lock
	DefaultLockTTL = 30 * time.Second

	// DefaultRetryAttempts is the default number of lock retry attempts
	DefaultRetryAttempts = 3

	// DefaultRetryInterval is the default interval between lock retry attempts
	DefaultRetryInterval = 100 * time.Millisecond

	// MaxRetryAttempts is the maximum number of retry attempts allowed
	MaxRetryAttempts = 10

	// MinLockTTL is the minimum lock TTL allowed
	MinLockTTL = 1 * time.Second

	// MaxLockTTL is the maximum lock TTL allowed
	MaxLockTTL = 5 * time.Minute
)

const (
	// DefaultCircuitBreakerName is the default name for Circuit Breaker
	DefaultCircuitBreakerName = "raffle-lock"

	// DefaultCircuitBreakerMaxRequests is the default max requests
	DefaultCircuitBreakerMaxRequests = 3

	// DefaultCircuitBreakerInterval is the default interval
	DefaultCircuitBreakerInterval = 60 * time.Second

	// DefaultCircuitBreakerTimeout is the default timeout
	DefaultCircuitBreakerTimeout = 30 * time.Second

	// DefaultCircuitBreakerFailureRatio is the default failure ratio
	DefaultCircuitBreakerFailureRatio = 0.6

	// DefaultCircuitBreakerMinRequests is the default min requests
	DefaultCircuitBreakerMinRequests = 3
)

const (
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPassword     = ""
	DefaultRedisDB           = 0
	DefaultRedisPoolSize     = 4
	DefaultRedisMaxRetries   = 1
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
)
