package godsync

import "errors"

var (
	// ErrInputRequired reports a required source/target path that was not
	// specified. No function in this package returns it.
	ErrInputRequired = errors.New("godsync: input path is required")

	// ErrInvalidParams is returned when chunker parameters fail validation
	// (min <= avg <= max).
	ErrInvalidParams = errors.New("godsync: invalid chunk size parameters")

	// ErrSignatureMismatch names a rebuilt signature that does not match
	// the one on record for a file. Verify does not return it: Verify
	// reports a mismatch through VerifyResult.Matches with a nil error.
	ErrSignatureMismatch = errors.New("godsync: signature mismatch")
)
