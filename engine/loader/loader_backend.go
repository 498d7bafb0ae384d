package loader

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/transform"
	"github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when the bytes of an image source match no known decoder.
var ErrUnsupportedFormat = errors.New("loader: unsupported image format")

// sniffLen is the header length filetype needs to recognize every image kind it knows.
const sniffLen = 262

// loaderBackend decodes image bytes into an image.Image.
type loaderBackend interface {
	// Decode sniffs the content of r and decodes it with the matching decoder.
	// The name is only used as a hint for formats without a magic number (TGA).
	//
	// Parameters:
	//   - name: the source name, typically a path or URL
	//   - r: the encoded image bytes
	//
	// Returns:
	//   - image.Image: the decoded image
	//   - error: ErrUnsupportedFormat or a decode error
	Decode(name string, r io.Reader) (image.Image, error)
}

// imageLoaderBackend is the default loaderBackend. It decodes JPEG, PNG, GIF, WebP, BMP and TGA
// and downsizes anything larger than maxSize on its longest side.
type imageLoaderBackend struct {
	maxSize int
}

var _ loaderBackend = &imageLoaderBackend{}

func newImageLoaderBackend(maxSize int) loaderBackend {
	return &imageLoaderBackend{maxSize: maxSize}
}

func (b *imageLoaderBackend) Decode(name string, r io.Reader) (image.Image, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrUnsupportedFormat, name)
	}

	var img image.Image
	kind, _ := filetype.Match(head)
	switch {
	case kind.Extension == "jpg":
		img, err = jpeg.Decode(br)
	case kind.Extension == "png":
		img, err = png.Decode(br)
	case kind.Extension == "gif":
		img, err = gif.Decode(br)
	case kind.Extension == "webp":
		img, err = nativewebp.Decode(br)
	case kind.Extension == "bmp":
		img, err = bmp.Decode(br)
	case !filetype.IsImage(head) && strings.EqualFold(path.Ext(stripQuery(name)), ".tga"):
		img, err = tga.Decode(br)
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, name, kind.MIME.Value)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return b.fit(img), nil
}

// fit scales img down so its longest side is at most maxSize, keeping the aspect ratio.
func (b *imageLoaderBackend) fit(img image.Image) image.Image {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if b.maxSize <= 0 || (w <= b.maxSize && h <= b.maxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*b.maxSize/w)
		w = b.maxSize
	} else {
		w = max(1, w*b.maxSize/h)
		h = b.maxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}

func stripQuery(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		return name[:i]
	}
	return name
}
