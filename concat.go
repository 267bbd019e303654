package fetchtripper

import (
	"io"
	"os"
)

// concatenate streams partPath's entire contents onto the end of the
// already-open final file, then best-effort removes the part file; a
// failed removal is logged but not treated as a fetch failure, since the
// data has already landed correctly in final.
func (f *Fetcher) concatenate(final *os.File, partPath string) error {
	part, err := os.Open(partPath)
	if err != nil {
		return &Error{Kind: ErrOpenPart, Path: partPath, Err: err}
	}

	_, err = io.Copy(final, part)
	part.Close()
	if err != nil {
		return &Error{Kind: ErrConcatenate, Path: partPath, Err: err}
	}

	if rerr := os.Remove(partPath); rerr != nil {
		f.DebugOut.Printf("unable to remove part file %q: %v\n", partPath, rerr)
	}
	return nil
}
