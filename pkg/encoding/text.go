// Package encoding provides text encoding utilities for paths and asset text
// crossing the loader boundary.
package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ErrInvalidUTF8 is returned when bytes are not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// ErrInteriorNul is returned when a string cannot be NUL-terminated because
// it already contains a NUL byte.
var ErrInteriorNul = errors.New("interior nul byte")

// StrictUTF8 returns data as a string, failing on the first invalid byte.
// Unlike a decoder it never substitutes U+FFFD.
func StrictUTF8(data []byte) (string, error) {
	result, _, err := transform.Bytes(encoding.UTF8Validator, data)
	if err != nil {
		return "", ErrInvalidUTF8
	}
	return string(result), nil
}

// CheckNulTerminable reports whether s can be stored as a NUL-terminated
// string, returning the offset of the offending byte otherwise.
func CheckNulTerminable(s string) (int, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return i, ErrInteriorNul
	}
	return -1, nil
}

// utf8BOM is the UTF-8 encoding of U+FEFF.
var utf8BOM = []byte("\ufeff")

// NewTextReader wraps r so a leading UTF-8 byte order mark is dropped and
// any byte sequence that is not valid UTF-8 fails the read with
// ErrInvalidUTF8. Text is never rewritten. Exporters on Windows commonly
// write a BOM in front of OBJ and MTL files.
func NewTextReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &validatingReader{r: transform.NewReader(br, encoding.UTF8Validator)}
}

// validatingReader reports the validator's failure as ErrInvalidUTF8.
type validatingReader struct {
	r io.Reader
}

func (v *validatingReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		err = ErrInvalidUTF8
	}
	return n, err
}

// NormalizeAssetPath converts backslash separators found in files written on
// Windows to forward slashes.
func NormalizeAssetPath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
