package frame

// Block is a contiguous run of columns sharing one top-level label.
// Start and End are inclusive column positions.
type Block struct {
	Label string
	Start int
	End   int
}

// Blocks scans the columns left to right and starts a new block whenever
// the top-level label changes from the previous column. Columns labelled
// [A A B B B C] yield blocks [(A,0,1) (B,2,4) (C,5,5)]. Groups that are not
// contiguous produce one block per run.
func (f *Frame) Blocks() []Block {
	var blocks []Block
	for i, col := range f.cols {
		if i == 0 || col.Top != f.cols[i-1].Top {
			blocks = append(blocks, Block{Label: col.Top, Start: i, End: i})
			continue
		}
		blocks[len(blocks)-1].End = i
	}
	return blocks
}

// TopLabels returns the distinct top-level labels in first-seen order.
func (f *Frame) TopLabels() []string {
	seen := make(map[string]bool)
	var labels []string
	for _, col := range f.cols {
		if !seen[col.Top] {
			seen[col.Top] = true
			labels = append(labels, col.Top)
		}
	}
	return labels
}

// SliceTop returns the column block belonging to one top-level label as a
// flat frame: sub-names become the column names and the row index is kept.
// A label matching no column yields an empty frame.
func (f *Frame) SliceTop(label string) *Frame {
	var cols []Column
	var data [][]any
	for i, col := range f.cols {
		if col.Top == label {
			cols = append(cols, Column{Name: col.Name})
			data = append(data, f.data[i])
		}
	}
	return &Frame{index: f.index, cols: cols, data: data}
}

// ConcatScenarios concatenates per-scenario fragments side by side into one
// frame with a two-level column index. labels[i] becomes the top-level
// label of every column of parts[i]. The row index is the union of the
// parts' row labels in first-seen order; cells absent from a part are nil.
func ConcatScenarios(labels []string, parts []*Frame) *Frame {
	return concat(labels, parts, true)
}

// ConcatSeries concatenates single-column fragments side by side into one
// flat frame, relabelling each part's column to labels[i].
func ConcatSeries(labels []string, parts []*Frame) *Frame {
	return concat(labels, parts, false)
}

func concat(labels []string, parts []*Frame, hierarchical bool) *Frame {
	var index []string
	seen := make(map[string]int)
	for _, p := range parts {
		if p == nil {
			continue
		}
		for _, label := range p.index {
			if _, ok := seen[label]; !ok {
				seen[label] = len(index)
				index = append(index, label)
			}
		}
	}

	var cols []Column
	var data [][]any
	for i, p := range parts {
		if p == nil {
			continue
		}
		for c, col := range p.cols {
			name := col.Name
			outCol := Column{Top: labels[i], Name: name}
			if !hierarchical {
				outCol = Column{Name: labels[i]}
			}
			values := make([]any, len(index))
			for r, rowLabel := range p.index {
				values[seen[rowLabel]] = p.data[c][r]
			}
			cols = append(cols, outCol)
			data = append(data, values)
		}
	}
	return &Frame{index: index, cols: cols, data: data}
}
