package scan

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	Dir   string `pos:"true" optional:"true" help:"Directory to scan (defaults to the configured music directory)"`
	Quiet bool   `short:"q" optional:"true" help:"Only print the summary line"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "scan [dir]",
		Short:       "Scan a directory for audio files and add them to the library",
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
	store, err := library.Open(common.DataDir(), common.MusicDir())
	if err != nil {
		fmt.Fprintf(stderr, "Error opening library: %v\n", err)
		return 1
	}

	dir := params.Dir
	if dir == "" {
		dir = store.MusicDir()
	}
	if _, err := os.Stat(dir); err != nil {
		fmt.Fprintf(stderr, "Cannot scan '%s': %v\n", dir, err)
		return 1
	}

	found := store.Scan(dir)

	if !params.Quiet && len(found) > 0 {
		renderFound(stdout, store, found)
	}
	fmt.Fprintf(stdout, "Found %d audio files (%d tracks in library)\n", len(found), store.Count())
	return 0
}

func renderFound(stdout io.Writer, store *library.Store, found []string) {
	tracks := make([]library.Track, 0, len(found))
	for _, path := range found {
		if track, ok := store.Track(path); ok {
			tracks = append(tracks, track)
		}
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Artist != tracks[j].Artist {
			return tracks[i].Artist < tracks[j].Artist
		}
		return tracks[i].Title < tracks[j].Title
	})

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TermWidth())
	t.AppendHeader(table.Row{"Title", "Artist", "Album", "Length"})
	for _, track := range tracks {
		t.AppendRow(table.Row{track.Title, track.Artist, track.Album, track.FormattedDuration()})
	}
	t.Render()
}
