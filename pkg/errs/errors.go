package errs

import "errors"

var (
	ErrValidateBadRequest error = errors.New("struct validation error")

	ErrCADirReset         error = errors.New("could not reset CA working directory")
	ErrUnknownIssuerCA    error = errors.New("issuer CA not initialized")
	ErrToolkitExec        error = errors.New("toolkit invocation failed")
	ErrValidityVariant    error = errors.New("exactly one validity mode must be set")
	ErrCRLValidityVariant error = errors.New("CRL validity must set either days or hours")
)
