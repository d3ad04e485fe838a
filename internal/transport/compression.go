package transport

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

const acceptEncoding = "gzip, br, zstd"

// decoders maps a Content-Encoding token to a function wrapping the raw body.
var decoders = map[string]func(io.Reader) (io.ReadCloser, error){
	"gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// decompressingTransport advertises gzip, brotli and zstd support and
// transparently decodes the response body.
type decompressingTransport struct {
	next http.RoundTripper
}

func newDecompressingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &decompressingTransport{next: next}
}

func (t *decompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	decode, ok := decoders[outermostEncoding(resp.Header.Get("Content-Encoding"))]
	if !ok {
		return resp, nil
	}

	decoded, err := decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	resp.Body = &decodedBody{ReadCloser: decoded, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// decodedBody closes the decoder and then the underlying network body.
type decodedBody struct {
	io.ReadCloser
	raw io.ReadCloser
}

func (b *decodedBody) Close() error {
	decErr := b.ReadCloser.Close()
	if err := b.raw.Close(); err != nil {
		return err
	}
	return decErr
}

// outermostEncoding returns the last coding of a Content-Encoding list, which
// is the one applied last and therefore the first to undo.
func outermostEncoding(header string) string {
	codings := strings.Split(header, ",")
	return strings.ToLower(strings.TrimSpace(codings[len(codings)-1]))
}
