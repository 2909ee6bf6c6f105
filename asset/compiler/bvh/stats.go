package bvh

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Stats describe the shape of a built tree.
type Stats struct {
	Strategy   string
	Primitives int
	Nodes      int
	Leaves     int

	// Depth of the deepest leaf (the root is at depth 0).
	MaxDepth     int
	AvgLeafDepth float64

	BuildTime time.Duration
}

// StatsTable renders the tree statistics as a text table.
func (t *Tree) StatsTable() string {
	stats := t.stats
	bounds := t.Bounds()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Split strategy", stats.Strategy})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", stats.Primitives)})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", stats.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Avg. leaf depth", fmt.Sprintf("%.2f", stats.AvgLeafDepth)})
	table.Append([]string{"Root area", fmt.Sprintf("%.3f", bounds.SurfaceArea())})
	table.Append([]string{"Bounds", bounds.String()})
	table.SetFooter([]string{"Build time", stats.BuildTime.String()})

	table.Render()
	return buf.String()
}
