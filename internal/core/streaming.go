package core

// streaming.go decodes uploaded bytes into UTF-8 text for the CSV reader.
//
// Exports from the platform's back office are often Windows-1252 rather than
// UTF-8, so the decode strategy is selectable:
//
//   - auto: keep valid UTF-8 as is, otherwise decode as Windows-1252
//   - utf-8: invalid sequences become U+FFFD
//   - iso-8859-1 / windows-1252: decoded with golang.org/x/text
//
// A UTF-8 byte order mark is always dropped.

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a decode strategy for uploaded files.
type Encoding string

const (
	EncodingAuto        Encoding = "auto"
	EncodingUTF8        Encoding = "utf-8"
	EncodingLatin1      Encoding = "iso-8859-1"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ErrUnknownEncoding is returned for an encoding name outside the supported set.
var ErrUnknownEncoding = errors.New("encoding error: unsupported encoding")

// ErrFileTooLarge is returned once an upload exceeds the configured size.
var ErrFileTooLarge = errors.New("file too large")

// ParseEncoding maps a user-supplied name to an Encoding. Blank means auto.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "iso-8859-1", "latin1", "latin-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownEncoding, name)
	}
}

// DecodeReader wraps r so it yields UTF-8 text. It returns the strategy that
// was applied, which differs from enc only for EncodingAuto. Auto reads the
// whole input to inspect it, so r must already be size-limited.
func DecodeReader(r io.Reader, enc Encoding) (io.Reader, Encoding, error) {
	switch enc {
	case EncodingUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), EncodingUTF8, nil
	case EncodingLatin1:
		return transform.NewReader(SkipBOM(r), charmap.ISO8859_1.NewDecoder()), EncodingLatin1, nil
	case EncodingWindows1252:
		return transform.NewReader(SkipBOM(r), charmap.Windows1252.NewDecoder()), EncodingWindows1252, nil
	case EncodingAuto, "":
		data, err := io.ReadAll(SkipBOM(r))
		if err != nil {
			return nil, "", err
		}
		if utf8.Valid(data) {
			return bytes.NewReader(data), EncodingUTF8, nil
		}
		return transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()), EncodingWindows1252, nil
	default:
		return nil, "", fmt.Errorf("%w %q", ErrUnknownEncoding, string(enc))
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM drops a leading UTF-8 byte order mark from r.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// SizeLimitReader counts bytes read and fails with ErrFileTooLarge once
// more than Limit bytes have passed. A Limit of 0 disables the check.
type SizeLimitReader struct {
	r         io.Reader
	BytesRead int64
	Limit     int64
}

func NewSizeLimitReader(r io.Reader, limit int64) *SizeLimitReader {
	return &SizeLimitReader{r: r, Limit: limit}
}

func (l *SizeLimitReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.BytesRead += int64(n)
	if l.Limit > 0 && l.BytesRead > l.Limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, l.Limit)
	}
	return n, err
}
