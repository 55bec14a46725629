package domain

import "github.com/samber/lo"

// Partition splits files into at most n contiguous chunks of size
// ceil(len(files)/n); the last chunk may be shorter. Windows that would be
// empty (len(files) < n) are never produced, so concatenating the chunks in
// order always reproduces files.
func Partition(files []string, n int) [][]string {
	if len(files) == 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	size := (len(files) + n - 1) / n
	return lo.Chunk(files, size)
}
