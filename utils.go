package raffle

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// ValidateWinnerCount validates a requested number of winners
func ValidateWinnerCount(count int) error {
	if count <= 0 {
		return ErrInvalidWinnerCount.New().WithDetails("got %d", count)
	}
	return nil
}

// ValidateTrials validates the number of simulation trials
func ValidateTrials(trials int) error {
	if trials <= 0 || trials > MaxSimulationTrials {
		return ErrInvalidInput.New().WithDetails("trials must be between 1 and %d, got %d", MaxSimulationTrials, trials)
	}
	return nil
}

// generateLockValue generates a unique lock value using crypto/rand
func generateLockValue() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based value if crypto/rand fails
		return fmt.Sprintf("lock_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
