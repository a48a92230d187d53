package rigtune

import "errors"

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrSettingNotFound = errors.New("setting not found")
	ErrInvalidSeed     = errors.New("invalid seed catalog")
	ErrNilStore        = errors.New("catalog store is nil")
)
