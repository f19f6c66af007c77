package coingecko

import "github.com/cockroachdb/errors"

// ErrInvalidConfig marks every construction failure. Use errors.Is to test for it.
var ErrInvalidConfig = errors.New("coingecko: invalid configuration")

// ErrMissingAPIKey is returned, marked with ErrInvalidConfig, when no API key was supplied.
var ErrMissingAPIKey = errors.New("coingecko: api key is not configured")

func configError(err error, format string, args ...any) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrInvalidConfig)
}
