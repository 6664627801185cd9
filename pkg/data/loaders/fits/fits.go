// Package fits implements the `fits_file` data loader: the primary HDU of a
// FITS file decoded with astrogo/fitsio, with transparent gzip decompression
// for `.fits.gz`. It registers itself in the global loader registry at init.
package fits

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/astrogo/fitsio"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/astrokit/astrosource/pkg/data"
	"github.com/astrokit/astrosource/pkg/errors"
	"github.com/astrokit/astrosource/pkg/logger"
)

// Kind is the data kind served by this loader.
const Kind = "fits_file"

// blockSize is the FITS unit block length.
const blockSize = 2880

func init() {
	data.MustRegister(Kind, load)
}

func load(params data.Params) (data.Payload, error) {
	path, err := params.File()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Card is a single header card: keyword, decoded value and comment.
type Card struct {
	Keyword string
	Value   interface{}
	Comment string
}

// Header is the ordered card list of a primary HDU.
type Header struct {
	cards []Card
	index map[string]int // first occurrence per keyword
}

func newHeader(hdr *fitsio.Header) *Header {
	h := &Header{index: make(map[string]int)}
	for _, key := range hdr.Keys() {
		c := hdr.Get(key)
		if c == nil {
			continue
		}
		if _, seen := h.index[key]; !seen {
			h.index[key] = len(h.cards)
		}
		h.cards = append(h.cards, Card{Keyword: c.Name, Value: c.Value, Comment: c.Comment})
	}
	return h
}

// Get returns the value of a keyword rendered as a string.
func (h *Header) Get(key string) (string, bool) {
	i, ok := h.index[key]
	if !ok {
		return "", false
	}
	switch v := h.cards[i].Value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

// Int returns a keyword value as an integer.
func (h *Header) Int(key string) (int64, error) {
	i, ok := h.index[key]
	if !ok {
		return 0, errors.New(errors.ErrorTypeLoad, "missing header keyword").WithDetail("keyword", key)
	}
	switch v := h.cards[i].Value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, errors.New(errors.ErrorTypeLoad, "non-integer header keyword").
			WithDetail("keyword", key).
			WithDetail("value", fmt.Sprint(v))
	}
}

// Float returns a keyword value as a float.
func (h *Header) Float(key string) (float64, error) {
	i, ok := h.index[key]
	if !ok {
		return 0, errors.New(errors.ErrorTypeLoad, "missing header keyword").WithDetail("keyword", key)
	}
	switch v := h.cards[i].Value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	default:
		return 0, errors.New(errors.ErrorTypeLoad, "non-numeric header keyword").
			WithDetail("keyword", key).
			WithDetail("value", fmt.Sprint(v))
	}
}

// Cards returns the header cards in file order.
func (h *Header) Cards() []Card {
	return h.cards
}

// File is a loaded primary HDU: the parsed header plus the pixel data,
// converted to float64 regardless of the on-disk BITPIX. Data is empty for
// header-only files.
type File struct {
	Path   string
	Header *Header
	Data   []float64
}

// Naxis returns the axis lengths NAXIS1..NAXISn.
func (f *File) Naxis() ([]int64, error) {
	n, err := f.Header.Int("NAXIS")
	if err != nil {
		return nil, err
	}
	axes := make([]int64, n)
	for i := int64(1); i <= n; i++ {
		axes[i-1], err = f.Header.Int("NAXIS" + strconv.FormatInt(i, 10))
		if err != nil {
			return nil, err
		}
	}
	return axes, nil
}

// Open reads the primary HDU of a FITS file. Files ending in .gz are
// decompressed on the fly.
func Open(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeLoad, "cannot open FITS file").WithDetail("file", path)
	}
	defer fh.Close()

	var r io.Reader = fh
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeLoad, "cannot decompress FITS file").WithDetail("file", path)
		}
		defer gz.Close()
		r = gz
	}

	f, err := Read(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeLoad, "cannot read FITS file").WithDetail("file", path)
	}
	f.Path = path

	logger.Get().Debug("FITS file loaded",
		zap.String("file", path),
		zap.Int("cards", len(f.Header.cards)),
		zap.Int("pixels", len(f.Data)))
	return f, nil
}

// Read parses the primary HDU from r. The stream is buffered in full so
// compressed input can be handed to the fitsio decoder, which needs to seek.
func Read(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeLoad, "cannot read FITS stream")
	}

	ff, err := fitsio.Open(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeLoad, "malformed FITS stream")
	}
	defer ff.Close()

	hdu := ff.HDU(0)
	hdr := hdu.Header()
	f := &File{Header: newHeader(hdr)}

	if len(hdr.Axes()) == 0 {
		return f, nil
	}
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return nil, errors.New(errors.ErrorTypeLoad, "primary HDU carries no image data")
	}
	f.Data, err = readPixels(img, hdr.Bitpix())
	if err != nil {
		return nil, err
	}
	return f, nil
}

func readPixels(img fitsio.Image, bitpix int) ([]float64, error) {
	switch bitpix {
	case 8:
		return pixels[int8](img)
	case 16:
		return pixels[int16](img)
	case 32:
		return pixels[int32](img)
	case 64:
		return pixels[int64](img)
	case -32:
		return pixels[float32](img)
	case -64:
		return pixels[float64](img)
	}
	return nil, errors.New(errors.ErrorTypeLoad, "unsupported BITPIX").WithDetail("bitpix", bitpix)
}

func pixels[T int8 | int16 | int32 | int64 | float32 | float64](img fitsio.Image) ([]float64, error) {
	var raw []T
	if err := img.Read(&raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeLoad, "cannot read image data")
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v)
	}
	return out, nil
}
