// Package encoding decodes uploaded statement bytes to UTF-8 text.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// sniffSize is how much of the input charset detection looks at.
const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Charset names the decoding chosen for an input.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

var decoders = map[Charset]encoding.Encoding{
	CharsetUTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	CharsetUTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	CharsetWindows1252: charmap.Windows1252,
	CharsetISO88599:    charmap.ISO8859_9,
}

// Detect picks the charset of a sample taken from the start of the input.
//
// A BOM wins, then valid UTF-8, then the chardet guess for the legacy
// charsets banks still export, and Windows-1252 otherwise.
func Detect(sample []byte) Charset {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return CharsetUTF8
	case bytes.HasPrefix(sample, bomUTF16LE):
		return CharsetUTF16LE
	case bytes.HasPrefix(sample, bomUTF16BE):
		return CharsetUTF16BE
	case utf8.Valid(sample):
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return CharsetUTF8
		case "ISO-8859-1", "windows-1252":
			return CharsetWindows1252
		case "ISO-8859-9":
			return CharsetISO88599
		}
	}

	return CharsetWindows1252
}

// NewUTF8Reader returns a reader that decodes r to UTF-8. A UTF-8 BOM is
// dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	charset := Detect(sample)
	if charset != CharsetUTF8 {
		slog.Debug("decoding input", "charset", charset)
	}

	if charset == CharsetUTF8 {
		if bytes.HasPrefix(sample, bomUTF8) {
			_, _ = br.Discard(len(bomUTF8))
		}

		return br, nil
	}

	return transform.NewReader(br, decoders[charset].NewDecoder()), nil
}
