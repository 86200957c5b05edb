package domain

import "errors"

var (
	ErrInvalidCountry    = errors.New("invalid_country")
	ErrInvalidKind       = errors.New("invalid_kind")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrInvalidPeriod     = errors.New("invalid_period")
	ErrAlreadyExists     = errors.New("already_exists")
)
