package codec

import "errors"

var (
	ErrorPacketReleased         = errors.New("packet already released")
	ErrorPacketOverrun          = errors.New("consumed more bytes than the packet holds")
	ErrorInvalidDimensions      = errors.New("invalid picture dimensions")
	ErrorUnsupportedPixelFormat = errors.New("unsupported pixel format")
	ErrorFormatMismatch         = errors.New("frame does not match the scaler configuration")
	ErrorInterfaceMismatch      = errors.New("interface mismatch")
	ErrorUnsupportedMedia       = errors.New("unsupported media type")
	ErrorNoCodecFound           = errors.New("no codec found")
	ErrorAllocateCodecContext   = errors.New("error allocating codec context")
	ErrorAllocateFrame          = errors.New("error allocating frame")
	ErrorAllocatePacket         = errors.New("error allocating packet")
	ErrorAllocateScaleContext   = errors.New("error allocating software scale context")
	ErrorGeneralAllocate        = errors.New("error allocating")
	ErrorEncoderClosed          = errors.New("encoder closed")
	ErrorMissingCodecParameters = errors.New("stream has no codec parameters")
	ErrorInvalidThreadCount     = errors.New("invalid thread count")
	ErrorInvalidCodecFlag       = errors.New("codec flag needs a key")
)

