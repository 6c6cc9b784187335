package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/akosenkov/fleetdesk/internal/common"
)

var (
	phoneRe = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)
	plateRe = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 -]{1,9}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", common.ErrorValidation, name)
	}
	return nil
}

func validatePhone(value string) error {
	if !phoneRe.MatchString(value) {
		return fmt.Errorf("%w: invalid phone number", common.ErrorValidation)
	}
	return nil
}

func validatePlate(value string) error {
	if !plateRe.MatchString(value) {
		return fmt.Errorf("%w: invalid license plate", common.ErrorValidation)
	}
	return nil
}

func validateEmail(value string) error {
	if !emailRe.MatchString(value) {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

func requirePositive(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive", common.ErrorValidation, name)
	}
	return nil
}
