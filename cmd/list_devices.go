package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/prism/renderer"
	"github.com/urfave/cli"
)

// List the host cpu and the number of tracers the renderer attaches by
// default.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	var storage []byte
	buf := bytes.NewBuffer(storage)

	host := renderer.DetectHost()
	buf.WriteString("\nSystem provides 1 cpu device:\n\n")
	buf.WriteString(fmt.Sprintf("[Device 00]\n  Name    %s\n  Cores   %d\n  Clock   %.2f GHz\n  RAM     %d GB\n  Tracers %d\n\n",
		host.CPUModel, host.LogicalCores, host.ClockGHz, host.TotalRAMGB, renderer.DefaultTracerCount()))

	logger.Notice(buf.String())
	return nil
}
