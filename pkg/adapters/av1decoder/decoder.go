// Package av1decoder decodes AV1 pictures from an MP4 sample table using libaom.
package av1decoder

/*
#cgo pkg-config: aom
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>
#include <stdlib.h>
#include <string.h>

static aom_codec_iface_t* get_av1_decoder_interface() {
    return aom_codec_av1_dx();
}

static aom_codec_err_t init_decoder(aom_codec_ctx_t *ctx, aom_codec_iface_t *iface) {
    return aom_codec_dec_init(ctx, iface, NULL, 0);
}

static unsigned char* get_plane(aom_image_t *img, int plane) {
    return img->planes[plane];
}

static int get_stride(aom_image_t *img, int plane) {
    return img->stride[plane];
}

static unsigned int get_width(aom_image_t *img) {
    return img->d_w;
}

static unsigned int get_height(aom_image_t *img) {
    return img->d_h;
}

static int is_i420(aom_image_t *img) {
    return img->fmt == AOM_IMG_FMT_I420;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/user/framesnap/pkg/adapters/mp4reader"
)

var (
	// ErrNotInitialized is returned when decoder methods are called before initialization.
	ErrNotInitialized = errors.New("av1decoder: decoder not initialized")

	// ErrNoFrame is returned when a run produced no displayable picture.
	ErrNoFrame = errors.New("av1decoder: no frame available")

	// ErrUnsupportedFormat is returned for pictures that are not 8-bit 4:2:0.
	ErrUnsupportedFormat = errors.New("av1decoder: unsupported picture format")
)

// Decoder implements AV1 video decoding using libaom.
type Decoder struct {
	codec *C.aom_codec_ctx_t
}

// New creates a new AV1 decoder.
func New() *Decoder {
	return &Decoder{}
}

// Init initializes the decoder. Calling it again resets the decoding state.
func (d *Decoder) Init() error {
	d.Close()

	d.codec = (*C.aom_codec_ctx_t)(C.malloc(C.sizeof_aom_codec_ctx_t))
	if d.codec == nil {
		return fmt.Errorf("failed to allocate decoder context")
	}
	C.memset(unsafe.Pointer(d.codec), 0, C.sizeof_aom_codec_ctx_t)

	iface := C.get_av1_decoder_interface()
	if res := C.init_decoder(d.codec, iface); res != C.AOM_CODEC_OK {
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
		return fmt.Errorf("failed to initialize decoder: %d", res)
	}
	return nil
}

// DecodeFrame decodes one temporal unit and returns the last picture it
// shows, or nil when it shows none.
func (d *Decoder) DecodeFrame(data []byte) (image.Image, error) {
	if d.codec == nil {
		return nil, ErrNotInitialized
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty frame data")
	}

	res := C.aom_codec_decode(
		d.codec,
		(*C.uint8_t)(unsafe.Pointer(&data[0])),
		C.size_t(len(data)),
		nil,
	)
	if res != C.AOM_CODEC_OK {
		return nil, fmt.Errorf("decode failed: %d", res)
	}

	var last image.Image
	var iter C.aom_codec_iter_t
	for {
		img := C.aom_codec_get_frame(d.codec, &iter)
		if img == nil {
			break
		}
		converted, err := toYCbCr(img)
		if err != nil {
			return nil, err
		}
		last = converted
	}
	return last, nil
}

// DecodeRun decodes samples first..target of track in decode order, starting
// from a fresh decoder state, and returns the picture shown last. first
// should be a sync sample.
func (d *Decoder) DecodeRun(track *mp4reader.Track, first, target int) (image.Image, error) {
	if first < 0 || target < first || target >= len(track.Samples) {
		return nil, fmt.Errorf("av1decoder: invalid run %d..%d of %d samples", first, target, len(track.Samples))
	}
	if err := d.Init(); err != nil {
		return nil, err
	}

	var shown image.Image
	for i := first; i <= target; i++ {
		data := track.Samples[i].Data
		if i == first {
			data = withConfigOBUs(track.ParameterSets, data)
		}
		img, err := d.DecodeFrame(data)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if img != nil {
			shown = img
		}
	}
	if shown == nil {
		return nil, ErrNoFrame
	}
	return shown, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.codec != nil {
		C.aom_codec_destroy(d.codec)
		C.free(unsafe.Pointer(d.codec))
		d.codec = nil
	}
}

// withConfigOBUs prefixes a temporal unit with the sequence header OBUs of the
// sample entry so a run can start at any sync sample.
func withConfigOBUs(configs [][]byte, data []byte) []byte {
	if len(configs) == 0 {
		return data
	}
	var out []byte
	for _, c := range configs {
		out = append(out, c...)
	}
	return append(out, data...)
}

// toYCbCr copies an 8-bit 4:2:0 libaom picture into Go memory.
func toYCbCr(img *C.aom_image_t) (*image.YCbCr, error) {
	if C.is_i420(img) == 0 {
		return nil, ErrUnsupportedFormat
	}

	width := int(C.get_width(img))
	height := int(C.get_height(img))
	out := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio420)

	copyPlane(out.Y, out.YStride, C.get_plane(img, 0), int(C.get_stride(img, 0)), width, height)
	cw, ch := (width+1)/2, (height+1)/2
	copyPlane(out.Cb, out.CStride, C.get_plane(img, 1), int(C.get_stride(img, 1)), cw, ch)
	copyPlane(out.Cr, out.CStride, C.get_plane(img, 2), int(C.get_stride(img, 2)), cw, ch)

	return out, nil
}

func copyPlane(dst []byte, dstStride int, src *C.uchar, srcStride, width, rows int) {
	plane := unsafe.Slice((*byte)(unsafe.Pointer(src)), srcStride*(rows-1)+width)
	for y := 0; y < rows; y++ {
		copy(dst[y*dstStride:y*dstStride+width], plane[y*srcStride:y*srcStride+width])
	}
}
