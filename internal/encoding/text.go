package encoding

import (
	"fmt"
	"io"
	"strings"
)

var breakNormalizer = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\f", "\n")

// NormalizeBreaks turns CRLF, lone CR and form feeds (page breaks) into
// plain newlines.
func NormalizeBreaks(s string) string {
	return breakNormalizer.Replace(s)
}

// ReadText decodes all of r to UTF-8 with normalised line breaks.
func ReadText(r io.Reader) (string, error) {
	utf8r, err := NewUTF8Reader(r)
	if err != nil {
		return "", err
	}

	b, err := io.ReadAll(utf8r)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	return NormalizeBreaks(string(b)), nil
}
