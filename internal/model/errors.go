package model

import "errors"

// Construction-time errors. They are wrapped with detail, so compare with
// errors.Is.
var (
	ErrInvalidSchedule    = errors.New("invalid backup schedule")
	ErrInvalidStorageTier = errors.New("invalid storage tier")
	ErrInvalidPlan        = errors.New("invalid backup plan")
)
