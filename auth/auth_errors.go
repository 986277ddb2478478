package auth

import "github.com/jrsteele09/monitor-dashboard/internal/errors"

var (
	UserNotFoundErr           = errors.Wrapf(errors.ErrInvalidCredentials, "user not found")
	UserPasswordsDontMatchErr = errors.Wrapf(errors.ErrInvalidCredentials, "user passwords not matched")
	UserSuspendedErr          = errors.Wrapf(errors.ErrForbidden, "user suspended")
	EmailTakenErr             = errors.Wrapf(errors.ErrConflict, "email already registered")
	WeakPasswordErr           = errors.Wrapf(errors.ErrValidation, "weak password")
)
