package domain

import "errors"

var (
	ErrSendingReplyFailed = errors.New("failed to send reply")

	ErrNotACommand       = errors.New("not a command")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrMalformedInterval = errors.New("malformed interval")
	ErrUsage             = errors.New("not enough arguments")
	ErrMissingDelimiter  = errors.New("missing '|' delimiter")
	ErrMissingParts      = errors.New("missing '|' separated parts")
	ErrMissingTargets    = errors.New("no targets given")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrEmptyMessage      = errors.New("empty message")
	ErrEmptyTarget       = errors.New("empty target")

	ErrJobNotFound  = errors.New("job not found")
	ErrAmbiguousJob = errors.New("job id prefix matches more than one job")
)

const Prefix = "/"
