package fetchtripper

import "fmt"

// byteRange computes the half-open byte range [offset, offsetTo) covering
// part index of parts when a file of length bytes is split as evenly as
// possible; any remainder is distributed one byte at a time to the
// lowest-indexed parts, so offsets are always contiguous and exhaustive.
func byteRange(length, parts, index uint64) (offset, offsetTo uint64, err error) {
	if parts == 0 || index >= parts {
		return 0, 0, &Error{Kind: ErrInvalidRange}
	}

	base := length / parts
	rem := length % parts

	offset = index*base + min(index, rem)
	offsetTo = (index+1)*base + min(index+1, rem)
	return offset, offsetTo, nil
}

// rangeHeader serializes an inclusive RFC 7233 Range header value for the
// half-open range [offset, offsetTo).
func rangeHeader(offset, offsetTo uint64) string {
	return fmt.Sprintf("bytes=%d-%d", offset, offsetTo-1)
}
