//go:build cgo_enabled

package videostream

import (
	"github.com/harshabose/simple_webrtc_comm/videostream/pkg/codec"
)

func init() {
	defaultScalerFactory = codec.CreateSoftwareScaler
}
