package raffle

import "fmt"

// WarningCode identifies a non-fatal validation problem
type WarningCode string

const (
	WarnInvalidWeight         WarningCode = "WARN_INVALID_WEIGHT"
	WarnEmptyParticipant      WarningCode = "WARN_EMPTY_PARTICIPANT"
	WarnDuplicateParticipant  WarningCode = "WARN_DUPLICATE_PARTICIPANT"
	WarnWinnerCountClamped    WarningCode = "WARN_WINNER_COUNT_CLAMPED"
	WarnBaseSeedNotNormalized WarningCode = "WARN_BASE_SEED_NOT_NFC"
)

// Warning is a skipped entry or an adjusted parameter. Warnings never stop a run
// but every one of them is reported.
type Warning struct {
	Code        WarningCode `json:"code"`
	Participant string      `json:"participant,omitempty"`
	Message     string      `json:"message"`
}

func (w Warning) String() string { return w.Message }

// warningSet collects warnings and mirrors each one to the diagnostic logger
type warningSet struct {
	logger   Logger
	warnings []Warning
}

func (s *warningSet) add(code WarningCode, participant, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, Warning{Code: code, Participant: participant, Message: msg})
	if s.logger != nil {
		s.logger.Warn("%s", msg)
	}
}

func (s *warningSet) list() []Warning { return s.warnings }
