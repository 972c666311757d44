package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipWriters = sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gw
	}}
	zstdWriters = sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(io.Discard,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}}
)

// encoder is what gzip.Writer and zstd.Encoder have in common.
type encoder interface {
	io.WriteCloser
	Reset(io.Writer)
	Flush() error
}

type compressWriter struct {
	http.ResponseWriter
	enc      encoder
	disabled bool
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	// 1xx, 204 and 304 carry no body, so no encoder frame either
	if (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Flush() {
	if !cw.disabled {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Compression encodes responses with zstd or gzip, whichever the client
// accepts first in that order. HEAD requests, upgrades and event streams
// pass through untouched.
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead ||
			r.Header.Get("Upgrade") != "" ||
			strings.Contains(r.Header.Get("Accept"), "text/event-stream") ||
			w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}

		accept := r.Header.Get("Accept-Encoding")
		var (
			enc     encoder
			name    string
			release func()
		)
		switch {
		case strings.Contains(accept, "zstd"):
			zw := zstdWriters.Get().(*zstd.Encoder)
			enc, name, release = zw, "zstd", func() { zstdWriters.Put(zw) }
		case strings.Contains(accept, "gzip"):
			gw := gzipWriters.Get().(*gzip.Writer)
			enc, name, release = gw, "gzip", func() { gzipWriters.Put(gw) }
		default:
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", name)
		w.Header().Add("Vary", "Accept-Encoding")
		enc.Reset(w)
		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer func() {
			if cw.disabled {
				enc.Reset(io.Discard)
			}
			_ = enc.Close()
			release()
		}()

		next.ServeHTTP(cw, r)
	})
}
