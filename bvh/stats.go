package bvh

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Build statistics.
type Stats struct {
	Triangles int
	Nodes     int
	Leafs     int
	MaxDepth  int

	// The largest number of triangles referenced by a single leaf.
	MaxLeafSize int

	// Leafs created because the depth limit was reached.
	DepthLimitedLeafs int

	// Leafs created because no axis produced a non-empty split.
	UnsplittableLeafs int

	BuildTime time.Duration
}

// Get the average number of triangles per leaf.
func (s Stats) AvgLeafSize() float32 {
	if s.Leafs == 0 {
		return 0
	}
	return float32(s.Triangles) / float32(s.Leafs)
}

// Build a tabular representation of the BVH build statistics and memory use.
func (b *BVH) Describe() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Section", "Item", "Value"})
	table.Append([]string{"Options", "---", " "})
	table.Append([]string{"", "Leaf size", fmt.Sprintf("%d", b.opts.LeafSize)})
	table.Append([]string{"", "Max depth", fmt.Sprintf("%d", b.opts.MaxDepth)})
	table.Append([]string{"", "Split", b.opts.Split.String()})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Tree", "---", " "})
	table.Append([]string{"", "Triangles", fmt.Sprintf("%d", b.stats.Triangles)})
	table.Append([]string{"", "Nodes", fmt.Sprintf("%d", b.stats.Nodes)})
	table.Append([]string{"", "Leafs", fmt.Sprintf("%d", b.stats.Leafs)})
	table.Append([]string{"", "Max depth", fmt.Sprintf("%d", b.stats.MaxDepth)})
	table.Append([]string{"", "Avg leaf size", fmt.Sprintf("%.2f", b.stats.AvgLeafSize())})
	table.Append([]string{"", "Max leaf size", fmt.Sprintf("%d", b.stats.MaxLeafSize)})
	table.Append([]string{"", "Depth limited leafs", fmt.Sprintf("%d", b.stats.DepthLimitedLeafs)})
	table.Append([]string{"", "Unsplittable leafs", fmt.Sprintf("%d", b.stats.UnsplittableLeafs)})
	table.Append([]string{"", "Build time", b.stats.BuildTime.String()})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Memory", "---", fmtSize(b.tris, b.nodes, b.indices)})
	table.Append([]string{"", "Triangles", fmtSize(b.tris)})
	table.Append([]string{"", "Nodes", fmtSize(b.nodes)})
	table.Append([]string{"", "Indices", fmtSize(b.indices)})
	table.SetFooter([]string{"Total", " ", strings.TrimLeft(fmtSize(b.tris, b.nodes, b.indices), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
