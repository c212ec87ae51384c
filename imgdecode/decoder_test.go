package imgdecode

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

// testRGB is a 4x3 opaque image with per-pixel distinct channels.
func testRGB() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 50),
				G: uint8(y * 80),
				B: uint8(x + y),
				A: 255,
			})
		}
	}
	return img
}

func testGray(value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 5, 2))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func readAllLines(t *testing.T, d Decoder) [][]byte {
	t.Helper()
	params, err := d.Params()
	require.NoError(t, err)

	var lines [][]byte
	for {
		buf := make([]byte, params.BytesPerLine)
		err := d.ReadLine(buf)
		if err != nil {
			require.ErrorIs(t, err, ErrEndOfImage)
			break
		}
		lines = append(lines, buf)
	}
	require.Len(t, lines, params.Lines)
	return lines
}

func TestDecoderPNG(t *testing.T) {
	a := assert.New(t)
	src := testRGB()
	var payload bytes.Buffer
	require.NoError(t, png.Encode(&payload, src))

	d := NewPNG()
	defer d.Close()
	require.NoError(t, d.Begin(payload.Bytes()))

	params, err := d.Params()
	require.NoError(t, err)
	a.Equal(Params{
		PixelsPerLine: 4,
		Lines:         3,
		BytesPerLine:  12,
		Depth:         8,
		Frame:         FrameRGB,
		LastFrame:     true,
	}, params)

	lines := readAllLines(t, d)
	for y, line := range lines {
		for x := 0; x < 4; x++ {
			px := src.NRGBAAt(x, y)
			a.Equal(px.R, line[3*x])
			a.Equal(px.G, line[3*x+1])
			a.Equal(px.B, line[3*x+2])
		}
	}
}

func TestDecoderPNGGray(t *testing.T) {
	a := assert.New(t)
	var payload bytes.Buffer
	require.NoError(t, png.Encode(&payload, testGray(0x55)))

	d := NewPNG()
	defer d.Close()
	require.NoError(t, d.Begin(payload.Bytes()))

	params, err := d.Params()
	require.NoError(t, err)
	a.Equal(FrameGray, params.Frame)
	a.Equal(5, params.BytesPerLine)
	a.Equal(8, params.Depth)

	for _, line := range readAllLines(t, d) {
		for _, v := range line {
			a.Equal(uint8(0x55), v)
		}
	}
}

func TestDecoderJPEG(t *testing.T) {
	a := assert.New(t)
	var payload bytes.Buffer
	require.NoError(t, jpeg.Encode(&payload, testGray(128), nil))

	d := NewJPEG()
	defer d.Close()
	require.NoError(t, d.Begin(payload.Bytes()))

	params, err := d.Params()
	require.NoError(t, err)
	a.Equal(FrameGray, params.Frame)
	a.Equal(2, params.Lines)

	for _, line := range readAllLines(t, d) {
		for _, v := range line {
			a.InDelta(128, float64(v), 3)
		}
	}
}

func TestDecoderTIFF(t *testing.T) {
	a := assert.New(t)
	var payload bytes.Buffer
	require.NoError(t, tiff.Encode(&payload, testRGB(), nil))

	d := NewTIFF()
	defer d.Close()
	require.NoError(t, d.Begin(payload.Bytes()))

	params, err := d.Params()
	require.NoError(t, err)
	a.Equal(FrameRGB, params.Frame)
	a.Equal(4, params.PixelsPerLine)
	a.Equal(3, len(readAllLines(t, d)))
}

func TestDecoderReset(t *testing.T) {
	a := assert.New(t)
	var payload bytes.Buffer
	require.NoError(t, png.Encode(&payload, testGray(1)))

	d := NewPNG()
	defer d.Close()

	_, err := d.Params()
	a.Error(err)
	a.Error(d.ReadLine(make([]byte, 16)))

	require.NoError(t, d.Begin(payload.Bytes()))
	require.NoError(t, d.ReadLine(make([]byte, 16)))

	d.Reset()
	_, err = d.Params()
	a.Error(err)

	// A reset decoder accepts a new payload from the start.
	require.NoError(t, d.Begin(payload.Bytes()))
	a.Len(readAllLines(t, d), 2)
}

func TestDecoderErrors(t *testing.T) {
	a := assert.New(t)

	d := NewJPEG()
	defer d.Close()
	a.Error(d.Begin([]byte("not a jpeg payload")))

	var payload bytes.Buffer
	require.NoError(t, png.Encode(&payload, testGray(7)))
	p := NewPNG()
	defer p.Close()
	require.NoError(t, p.Begin(payload.Bytes()))
	err := p.ReadLine(make([]byte, 1))
	if a.Error(err) {
		a.Contains(err.Error(), "too short")
	}
}

func TestForMIME(t *testing.T) {
	for _, tc := range []struct {
		contentType string
		ok          bool
	}{
		{contentType: "image/jpeg", ok: true},
		{contentType: "IMAGE/JPEG", ok: true},
		{contentType: "image/png", ok: true},
		{contentType: "image/tiff", ok: true},
		{contentType: "application/pdf"},
		{contentType: ""},
	} {
		t.Run(tc.contentType, func(t *testing.T) {
			d, err := ForMIME(tc.contentType)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, d)
			d.Close()
		})
	}
}
