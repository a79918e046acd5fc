package videostream

import "errors"

var (
	ErrorMissingDecoder        = errors.New("no decoder given")
	ErrorMissingSupply         = errors.New("no packet supply given")
	ErrorMissingClock          = errors.New("no playback clock given")
	ErrorMissingSurface        = errors.New("no presentation surface given")
	ErrorMissingScaler         = errors.New("no scaler factory given")
	ErrorAllocateFrame         = errors.New("error allocating decoded frame")
	ErrorAllocatePicture       = errors.New("error allocating converted picture")
	ErrorAllocateScaler        = errors.New("error creating pixel converter")
	ErrorDecodeFailed          = errors.New("decode failed")
	ErrorPublishFailed         = errors.New("publish failed")
	ErrorConfigurationMismatch = errors.New("decoded frame does not match the stream configuration")
	ErrorStreamFailed          = errors.New("video stream failed")
	ErrorStreamClosed          = errors.New("video stream closed")
	ErrorInvalidParameters     = errors.New("invalid stream parameters")
)
