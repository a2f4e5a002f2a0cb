// Package gzippedhttp transparently compresses responses and decompresses
// request bodies for clients speaking gzip.
package gzippedhttp

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return w
	},
}

// CompressedReader wraps an io.ReadCloser and decompresses its input.
type CompressedReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

// NewCompressedReader returns a reader that yields the decompressed content
// of the gzip-encoded requestBody.
func NewCompressedReader(requestBody io.ReadCloser) (*CompressedReader, error) {
	zr, err := gzip.NewReader(requestBody)
	if err != nil {
		return nil, err
	}

	return &CompressedReader{r: requestBody, zr: zr}, nil
}

// Read reads decompressed data from the underlying gzip stream.
func (c CompressedReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

// Close closes both the gzip reader and the underlying body.
func (c *CompressedReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	return c.zr.Close()
}

// CompressedResponseWriter wraps http.ResponseWriter and gzips the body.
type CompressedResponseWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer
}

// NewCompressedResponseWriter returns a writer that gzips everything written
// through it. Close must be called to flush the stream and recycle the
// pooled gzip writer.
func NewCompressedResponseWriter(w http.ResponseWriter) *CompressedResponseWriter {
	zw := gzipWriterPool.Get().(*gzip.Writer)
	zw.Reset(w)

	return &CompressedResponseWriter{w: w, zw: zw}
}

// Header returns the headers of the wrapped response.
func (c *CompressedResponseWriter) Header() http.Header {
	return c.w.Header()
}

// WriteHeader writes the status code, marking successful responses as
// gzip-encoded.
func (c *CompressedResponseWriter) WriteHeader(statusCode int) {
	if statusCode < 300 {
		c.w.Header().Set("Content-Encoding", "gzip")
	}
	c.w.WriteHeader(statusCode)
}

// Write writes gzip-compressed data to the response body.
func (c *CompressedResponseWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

// Close flushes the gzip stream and returns the writer to the pool.
func (c *CompressedResponseWriter) Close() error {
	if err := c.zw.Close(); err != nil {
		return err
	}
	gzipWriterPool.Put(c.zw)

	return nil
}

// GzipResponse compresses the response when the client accepts gzip.
func GzipResponse(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		finalResponse := response

		if strings.Contains(request.Header.Get("Accept-Encoding"), "gzip") {
			compressed := NewCompressedResponseWriter(response)
			finalResponse = compressed
			defer compressed.Close()
		}

		h.ServeHTTP(finalResponse, request)
	}

	return http.HandlerFunc(middleware)
}

// UngzipRequest replaces a gzip-encoded request body with a decompressing
// reader before the handlers see it.
func UngzipRequest(h http.Handler) http.Handler {
	middleware := func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), "gzip") {
			decompressed, err := NewCompressedReader(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusInternalServerError)
				return
			}
			request.Body = decompressed
			defer decompressed.Close()
		}

		h.ServeHTTP(response, request)
	}

	return http.HandlerFunc(middleware)
}
