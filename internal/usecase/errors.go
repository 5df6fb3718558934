package usecase

import (
	"errors"
	"fmt"

	"talent-bridge/internal/domain/matching"
)

var (
	ErrProjectNotFound = errors.New("Project not found")
	ErrUserNotFound    = errors.New("User not found")
	ErrMatchNotFound   = errors.New("Match not found")
	ErrNoRequirements  = errors.New("Project has no skill requirements")

	// ErrInvalidInput is matched by errors.Is for every scoring engine
	// validation failure as well.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreFailure marks a failing collaborator store. The cause stays
	// reachable through errors.Is/As.
	ErrStoreFailure = errors.New("store failure")
)

// IsNotFound reports whether err belongs to the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrNoRequirements)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}

func invalidInput(err error) error {
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// classify keeps engine validation errors apart from store errors.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, matching.ErrInvalidInput), errors.Is(err, ErrInvalidInput):
		return invalidInput(err)
	case errors.Is(err, ErrStoreFailure):
		return err
	default:
		return storeFailure(op, err)
	}
}
