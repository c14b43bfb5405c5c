// Package wire implements the unescaped-name wire format: a byte buffer of
// concatenated segments, each NUL-terminated, the first segment being the
// namespace token. It is the sort key every key-set orders by, so Encode and
// Decode are the only place that format is produced or consumed.
package wire

import "bytes"

// Encode concatenates segs into the wire form, one NUL terminator per segment.
func Encode(segs []string) []byte {
	n := 0
	for _, s := range segs {
		n += len(s) + 1
	}
	buf := make([]byte, 0, n)
	for _, s := range segs {
		buf = append(buf, s...)
		buf = append(buf, 0)
	}
	return buf
}

// Decode splits a wire-form buffer back into its NUL-delimited segments. A
// trailing byte sequence with no terminating NUL is still returned as a
// final segment, so Decode never silently drops data.
func Decode(buf []byte) []string {
	if len(buf) == 0 {
		return nil
	}
	var segs []string
	start := 0
	for i, b := range buf {
		if b == 0 {
			segs = append(segs, string(buf[start:i]))
			start = i + 1
		}
	}
	if start < len(buf) {
		segs = append(segs, string(buf[start:]))
	}
	return segs
}

// Compare orders two wire-form buffers by plain byte comparison. Because
// NUL (0x00) sorts before every other byte, this yields hierarchical
// grouping: a parent's encoded segments are always a byte-prefix of its
// descendants' encodings up to the parent's own terminating NUL.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// HasPrefixSegments reports whether prefix is a segment-aligned prefix of
// full — i.e. prefix matches the first len(prefix) bytes of full and that
// point falls exactly on a segment boundary (the byte at that offset in
// full, if any, follows a NUL or prefix consumes full exactly).
func HasPrefixSegments(prefix, full []byte) bool {
	if len(prefix) > len(full) {
		return false
	}
	if !bytes.Equal(full[:len(prefix)], prefix) {
		return false
	}
	if len(prefix) == len(full) {
		return true
	}
	if len(prefix) == 0 {
		return false
	}
	return prefix[len(prefix)-1] == 0
}
