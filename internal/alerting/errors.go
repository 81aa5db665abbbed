package alerting

import "errors"

var (
	ErrUnknownRiskLevel     = errors.New("unknown risk level")
	ErrConfidenceOutOfRange = errors.New("confidence must be within [0, 1]")
)
