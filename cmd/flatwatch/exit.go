package main

import (
	"errors"

	"flatwatch/internal/domain"
)

const (
	exitOK           = 0
	exitOther        = 1
	exitConfig       = 2
	exitResolution   = 3
	exitNetwork      = 4
	exitPersistence  = 5
	exitNotification = 6
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, domain.ErrConfig):
		return exitConfig
	case errors.Is(err, domain.ErrResolution):
		return exitResolution
	case errors.Is(err, domain.ErrNetwork):
		return exitNetwork
	case errors.Is(err, domain.ErrPersistence):
		return exitPersistence
	case errors.Is(err, domain.ErrNotification):
		return exitNotification
	default:
		return exitOther
	}
}
