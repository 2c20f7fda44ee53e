package texture

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	TGATypeUncompressed = 2  // true-color
	TGATypeRLE          = 10 // run-length encoded true-color
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes an uncompressed or RLE true-color TGA with 24 or 32
// bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	switch {
	case colorMapType != 0:
		return nil, fmt.Errorf("tga: color-mapped images are not supported")
	case imageType != TGATypeUncompressed && imageType != TGATypeRLE:
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	case bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	case width == 0 || height == 0:
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		bytesPP:     bpp / 8,
		width:       width,
		height:      height,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img           *image.RGBA
	src           []byte
	pos           int
	bytesPP       int
	width, height int
	topToBottom   bool
	written       int
}

// pixel reads one BGR(A) pixel from the source.
func (d *tgaDecoder) pixel() ([4]byte, error) {
	if d.pos+d.bytesPP > len(d.src) {
		return [4]byte{}, errTGATruncated
	}
	p := d.src[d.pos : d.pos+d.bytesPP]
	d.pos += d.bytesPP
	a := byte(255)
	if d.bytesPP == 4 {
		a = p[3]
	}
	return [4]byte{p[2], p[1], p[0], a}, nil
}

// put stores the next pixel in file order. Bottom-up files are flipped.
func (d *tgaDecoder) put(c [4]byte) {
	x := d.written % d.width
	y := d.written / d.width
	if !d.topToBottom {
		y = d.height - 1 - y
	}
	copy(d.img.Pix[d.img.PixOffset(x, y):], c[:])
	d.written++
}

func (d *tgaDecoder) total() int { return d.width * d.height }

func (d *tgaDecoder) raw() error {
	for d.written < d.total() {
		c, err := d.pixel()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle() error {
	for d.written < d.total() {
		if d.pos >= len(d.src) {
			return errTGATruncated
		}
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			for i := 0; i < count && d.written < d.total(); i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < count && d.written < d.total(); i++ {
			c, err := d.pixel()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}
