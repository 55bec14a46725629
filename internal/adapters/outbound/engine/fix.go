package engine

import (
	"bytes"
	"fmt"
	"go/token"
	"sort"

	"golang.org/x/tools/go/analysis"
)

type edit struct {
	start, end int
	text       []byte
}

// applyEdits applies text edits to src. Edits are sorted by position and
// any edit overlapping an earlier one is dropped; it will be offered
// again on the next pass.
func applyEdits(fset *token.FileSet, src []byte, edits []analysis.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	converted := make([]edit, 0, len(edits))
	for _, e := range edits {
		tf := fset.File(e.Pos)
		if tf == nil {
			return nil, fmt.Errorf("edit position %d outside any file", e.Pos)
		}
		end := e.End
		if !end.IsValid() {
			end = e.Pos
		}
		converted = append(converted, edit{start: tf.Offset(e.Pos), end: tf.Offset(end), text: e.NewText})
	}
	sort.SliceStable(converted, func(i, j int) bool { return converted[i].start < converted[j].start })

	var out bytes.Buffer
	last := 0
	for _, e := range converted {
		if e.start < last || e.end > len(src) || e.end < e.start {
			continue
		}
		out.Write(src[last:e.start])
		out.Write(e.text)
		last = e.end
	}
	out.Write(src[last:])
	return out.Bytes(), nil
}
