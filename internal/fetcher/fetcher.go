// Package fetcher loads log samples from local files, stdin, HTTP, or FTP
// sources and normalizes their text encoding. Samples are size-bounded; this
// tool analyzes excerpts, not whole log archives.
package fetcher

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// MaxSampleBytes bounds how much of a source is read. Anything past the
// limit is ignored.
const MaxSampleBytes = 1 << 20

// StdinSource selects standard input.
const StdinSource = "-"

// DefaultTimeout bounds remote fetches.
const DefaultTimeout = 30 * time.Second

// Fetcher loads a log sample from a source reference.
type Fetcher struct {
	http *HTTPFetcher
	ftp  *FTPFetcher
}

// New builds a Fetcher with default remote timeouts.
func New() *Fetcher {
	return &Fetcher{
		http: NewHTTPFetcher(HTTPOptions{Timeout: DefaultTimeout}),
		ftp:  NewFTPFetcher(FTPOptions{Timeout: DefaultTimeout}),
	}
}

// Fetch reads the sample at source: "-" for stdin, http:// and https:// and
// ftp:// for remote sources, anything else as a local file path. The result
// is decoded to UTF-8 and truncated to MaxSampleBytes.
func (f *Fetcher) Fetch(ctx context.Context, source string) (string, error) {
	switch {
	case source == StdinSource:
		return readSample(os.Stdin)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		rc, err := f.http.Get(ctx, source)
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return readSample(rc)
	case strings.HasPrefix(source, "ftp://"):
		rc, err := f.ftp.Retrieve(ctx, source)
		if err != nil {
			return "", err
		}
		defer rc.Close()
		return readSample(rc)
	default:
		return readFile(source)
	}
}

func readFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer file.Close()

	zap.L().Debug("fetcher: reading local sample", zap.String("path", path))
	return readSample(file)
}

func readSample(r io.Reader) (string, error) {
	text, err := decodeSample(io.LimitReader(r, MaxSampleBytes))
	if err != nil {
		return "", eris.Wrap(err, "fetcher: read sample")
	}
	return text, nil
}
