package sonde

import "errors"

var (
	// ErrNotPrepared is returned by ProcessBlock before Prepare or after Release.
	ErrNotPrepared = errors.New("engine is not prepared")
	// ErrBlockTooLarge is returned by ProcessBlock for blocks longer than the prepared maximum.
	ErrBlockTooLarge = errors.New("block exceeds the prepared maximum size")
	// ErrChannelMismatch is returned by ProcessBlock when left and right differ in length.
	ErrChannelMismatch = errors.New("left and right blocks differ in length")

	ErrInvalidOptions    = errors.New("invalid engine options")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidBlockSize  = errors.New("invalid maximum block size")
)
