package imgdecode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/tiff"
)

// Frame identifies the pixel layout of decoded lines.
type Frame int

const (
	// FrameGray is 8 bit grayscale, 1 byte per pixel
	FrameGray Frame = iota
	// FrameRGB is 8 bit RGB, 3 bytes per pixel
	FrameRGB
)

func (f Frame) String() string {
	switch f {
	case FrameGray:
		return "Gray"
	case FrameRGB:
		return "RGB"
	default:
		return fmt.Sprintf("Frame(%d)", int(f))
	}
}

// Params describes a decoded image.
type Params struct {
	PixelsPerLine int
	Lines         int
	BytesPerLine  int
	Depth         int
	Frame         Frame
	LastFrame     bool
}

// Decoder decodes one scan payload line by line.
type Decoder interface {
	// Begin starts decoding of the payload data.
	Begin(data []byte) error

	// Params returns the image parameters.  Valid after a
	// successful Begin.
	Params() (Params, error)

	// ReadLine writes the next image line into buf, which must
	// hold at least BytesPerLine bytes.  Once every line has been
	// read, ReadLine returns ErrEndOfImage.
	ReadLine(buf []byte) error

	// Reset discards the current image, returning the decoder to
	// its pre-Begin state.
	Reset()

	// Close releases the decoder.
	Close()
}

// ErrEndOfImage is returned by ReadLine after the last image line.
var ErrEndOfImage = errors.New("end of image")

// NewJPEG returns a Decoder for image/jpeg payloads.
func NewJPEG() Decoder { return &decoder{mime: "image/jpeg", decode: jpeg.Decode} }

// NewPNG returns a Decoder for image/png payloads.
func NewPNG() Decoder { return &decoder{mime: "image/png", decode: png.Decode} }

// NewTIFF returns a Decoder for image/tiff payloads.
func NewTIFF() Decoder { return &decoder{mime: "image/tiff", decode: tiff.Decode} }

// ForMIME returns a Decoder for the given content type, compared
// case-insensitively.
func ForMIME(contentType string) (Decoder, error) {
	switch {
	case strings.EqualFold(contentType, "image/jpeg"):
		return NewJPEG(), nil
	case strings.EqualFold(contentType, "image/png"):
		return NewPNG(), nil
	case strings.EqualFold(contentType, "image/tiff"):
		return NewTIFF(), nil
	default:
		return nil, errors.Errorf("unsupported content type %q", contentType)
	}
}

type decoder struct {
	mime   string
	decode func(io.Reader) (image.Image, error)

	img    image.Image
	gray   *image.Gray
	params Params
	line   int
}

func (d *decoder) Begin(data []byte) error {
	img, err := d.decode(bytes.NewReader(data))
	if err != nil {
		d.Reset()
		return errors.Wrap(err, d.mime)
	}

	d.img = img
	d.gray, _ = img.(*image.Gray)
	d.line = 0

	bounds := img.Bounds()
	d.params = Params{
		PixelsPerLine: bounds.Dx(),
		Lines:         bounds.Dy(),
		Depth:         8,
		LastFrame:     true,
	}
	if d.gray != nil {
		d.params.Frame = FrameGray
		d.params.BytesPerLine = bounds.Dx()
	} else {
		d.params.Frame = FrameRGB
		d.params.BytesPerLine = bounds.Dx() * 3
	}
	return nil
}

func (d *decoder) Params() (Params, error) {
	if d.img == nil {
		return Params{}, errors.Errorf("%s: decoding not started", d.mime)
	}
	return d.params, nil
}

func (d *decoder) ReadLine(buf []byte) error {
	if d.img == nil {
		return errors.Errorf("%s: decoding not started", d.mime)
	}
	if d.line >= d.params.Lines {
		return errors.WithStack(ErrEndOfImage)
	}
	if len(buf) < d.params.BytesPerLine {
		return errors.Errorf("%s: line buffer too short: %d < %d",
			d.mime, len(buf), d.params.BytesPerLine)
	}

	bounds := d.img.Bounds()
	y := bounds.Min.Y + d.line
	if d.gray != nil {
		off := d.gray.PixOffset(bounds.Min.X, y)
		copy(buf, d.gray.Pix[off:off+d.params.BytesPerLine])
	} else {
		for i, x := 0, bounds.Min.X; x < bounds.Max.X; i, x = i+3, x+1 {
			r, g, b, _ := d.img.At(x, y).RGBA()
			buf[i] = uint8(r >> 8)
			buf[i+1] = uint8(g >> 8)
			buf[i+2] = uint8(b >> 8)
		}
	}

	d.line++
	return nil
}

func (d *decoder) Reset() {
	d.img = nil
	d.gray = nil
	d.params = Params{}
	d.line = 0
}

func (d *decoder) Close() { d.Reset() }
