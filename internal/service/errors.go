package service

import (
	"github.com/dukerupert/numlookup/internal/domain"
	"github.com/dukerupert/numlookup/internal/presenter"
)

const opValidate = "validation.submit"

// ErrEmptyPhone is returned for a blank submission. No lookup is made.
var ErrEmptyPhone = domain.Errorf(domain.EINVALID, opValidate, presenter.EmptyPhoneHint)

// ErrValidationInProgress is returned when the session already has a
// validation in flight.
var ErrValidationInProgress = domain.ErrValidationInProgress
