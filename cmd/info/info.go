package info

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/tags"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	File       string `pos:"true" required:"true" help:"Audio file to inspect"`
	ExtractArt bool   `long:"extract-art" optional:"true" help:"Write embedded cover art to a temp file and print its path"`
	JSON       bool   `long:"json" help:"Output as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "info <file>",
		Short:       "Show metadata and stream properties of an audio file",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			exitCode := Run(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout, stderr io.Writer) int {
	meta, err := tags.Probe(params.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading '%s': %v\n", params.File, err)
		return 1
	}

	if params.JSON {
		data, err := json.MarshalIndent(meta, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error marshaling JSON: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
	} else {
		renderMeta(stdout, params.File, meta)
	}

	if params.ExtractArt {
		artPath, err := tags.ExtractArt(params.File)
		if err != nil {
			fmt.Fprintf(stderr, "Error extracting art: %v\n", err)
			return 1
		}
		if artPath == "" {
			fmt.Fprintln(stdout, "No embedded art")
		} else {
			fmt.Fprintf(stdout, "Art written to %s\n", artPath)
		}
	}
	return 0
}

func renderMeta(stdout io.Writer, path string, meta tags.Meta) {
	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendRow(table.Row{"File", filepath.Base(path)})
	t.AppendRow(table.Row{"Title", meta.Title})
	t.AppendRow(table.Row{"Artist", meta.Artist})
	t.AppendRow(table.Row{"Album", meta.Album})
	if meta.Genre != "" {
		t.AppendRow(table.Row{"Genre", meta.Genre})
	}
	if meta.Year != 0 {
		t.AppendRow(table.Row{"Year", meta.Year})
	}
	t.AppendRow(table.Row{"Duration", common.FormatDuration(meta.Duration)})
	if meta.Bitrate > 0 {
		t.AppendRow(table.Row{"Bitrate", fmt.Sprintf("%d kbps", meta.Bitrate)})
	}
	if meta.SampleRate > 0 {
		t.AppendRow(table.Row{"Sample rate", fmt.Sprintf("%.1f kHz", float64(meta.SampleRate)/1000)})
	}
	if meta.Channels > 0 {
		t.AppendRow(table.Row{"Channels", meta.Channels})
	}
	art := "no"
	if meta.HasArt {
		art = "yes"
	}
	t.AppendRow(table.Row{"Embedded art", art})
	t.Render()
}
