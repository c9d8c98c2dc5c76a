package domain

import "errors"

// asValidation is a small helper so tests read like the assertions they make.
func asValidation(err error, target **ValidationError) bool {
	return errors.As(err, target)
}
