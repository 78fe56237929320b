package protocol

import "errors"

var (
	ErrFraming            = errors.New("protocol: length is not a multiple of 4")
	ErrTruncated          = errors.New("protocol: truncated payload")
	ErrTrailingData       = errors.New("protocol: trailing data after payload")
	ErrMalformedChain     = errors.New("protocol: chain length does not match declared step count")
	ErrUnsupportedVersion = errors.New("protocol: unsupported version")
	ErrUnknownOperation   = errors.New("protocol: unknown operation")
	ErrUnknownStatus      = errors.New("protocol: unknown result status")
	ErrPayloadTooLarge    = errors.New("protocol: payload too large")
	ErrInvalidLength      = errors.New("protocol: invalid length")
)
