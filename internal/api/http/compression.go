package http

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Summary and curve responses are the only ones that routinely pass the
// minimum size; small conversions go out uncompressed.
const (
	gzipMinSize = 1024
	gzipLevel   = 6
)

func compress(next http.Handler) http.Handler {
	wrapper, err := gzhttp.NewWrapper(
		gzhttp.MinSize(gzipMinSize),
		gzhttp.CompressionLevel(gzipLevel),
	)
	if err != nil {
		return gzhttp.GzipHandler(next)
	}
	return wrapper(next)
}
