package web

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhiramraj725/file-to-link-bot/internal/common"
)

// byteRange is a negotiated inclusive byte interval of a resource.
type byteRange struct {
	start   int64
	end     int64
	partial bool
}

func (r byteRange) length() int64 {
	return r.end - r.start + 1
}

func (r byteRange) contentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.start, r.end, size)
}

// negotiateRange resolves a Range request header against the declared
// resource size.
//
//   - no header, a non-bytes unit, or a multi-range request: the full
//     resource, status 200;
//   - "bytes=<start>-<end>" with either bound optional: that interval,
//     status 206;
//   - anything malformed or out of bounds: common.ErrorInvalidRange, which
//     the handler turns into 416 (the old behavior of silently clamping bad
//     ranges misreported Content-Range and is deliberately not kept).
func negotiateRange(header string, size int64) (byteRange, error) {
	full := byteRange{start: 0, end: size - 1}

	if header == "" {
		return full, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		// Unknown range unit: serve the full representation.
		return full, nil
	}

	if strings.Contains(spec, ",") {
		// Multi-range is unsupported; fall back to full content.
		return full, nil
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return byteRange{}, fmt.Errorf("%w: %q", common.ErrorInvalidRange, header)
	}

	r := byteRange{start: 0, end: size - 1, partial: true}

	if startStr != "" {
		v, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || v < 0 {
			return byteRange{}, fmt.Errorf("%w: %q", common.ErrorInvalidRange, header)
		}
		r.start = v
	}

	if endStr != "" {
		v, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || v < 0 {
			return byteRange{}, fmt.Errorf("%w: %q", common.ErrorInvalidRange, header)
		}
		r.end = v
	}

	if r.start > r.end || r.end >= size {
		return byteRange{}, fmt.Errorf("%w: %q outside 0-%d", common.ErrorInvalidRange, header, size-1)
	}

	return r, nil
}
