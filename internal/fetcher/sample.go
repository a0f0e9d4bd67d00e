package fetcher

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeSample reads r to completion, transparently handling UTF-8 and
// UTF-16 byte order marks. Log exports from Windows hosts are routinely
// UTF-16; without this they scan as alternating NUL bytes.
func decodeSample(r io.Reader) (string, error) {
	decoder := unicode.UTF8.NewDecoder()
	bomAware := unicode.BOMOverride(decoder)

	data, err := io.ReadAll(transform.NewReader(r, bomAware))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
