// Package tracks holds the library browsing commands: tracks, artists and
// albums.
package tracks

import (
	"encoding/json"
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
	Artist string `optional:"true" help:"Only tracks by this artist"`
	Album  string `optional:"true" help:"Only tracks from this album"`
	Search string `short:"s" optional:"true" help:"Free text search over title, artist and album"`
	Paths  bool   `short:"p" optional:"true" help:"Include file paths in the output"`
	JSON   bool   `long:"json" help:"Output as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tracks",
		Short:       "List tracks in the library",
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

	var tracks []library.Track
	switch {
	case params.Search != "":
		tracks = store.Search(params.Search)
	case params.Artist != "":
		tracks = store.TracksByArtist(params.Artist)
	case params.Album != "":
		tracks = store.TracksByAlbum(params.Album)
	default:
		tracks = store.Tracks()
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Artist != tracks[j].Artist {
			return tracks[i].Artist < tracks[j].Artist
		}
		return tracks[i].Title < tracks[j].Title
	})

	if params.JSON {
		data, err := json.MarshalIndent(tracks, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error marshaling JSON: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(data))
		return 0
	}

	if len(tracks) == 0 {
		fmt.Fprintln(stdout, "No tracks found")
		return 0
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TermWidth())
	header := table.Row{"Title", "Artist", "Album", "Length"}
	if params.Paths {
		header = append(header, "Path")
	}
	t.AppendHeader(header)
	for _, track := range tracks {
		row := table.Row{track.Title, track.Artist, track.Album, track.FormattedDuration()}
		if params.Paths {
			row = append(row, track.Path)
		}
		t.AppendRow(row)
	}
	t.Render()
	fmt.Fprintf(stdout, "%d tracks\n", len(tracks))
	return 0
}

func ArtistsCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "artists",
		Short: "List all artists in the library",
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			exitCode := runNames(os.Stdout, os.Stderr, func(store *library.Store) []string {
				return store.Artists()
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func AlbumsCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "albums",
		Short: "List all albums in the library",
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			exitCode := runNames(os.Stdout, os.Stderr, func(store *library.Store) []string {
				return store.Albums()
			})
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func runNames(stdout, stderr io.Writer, pick func(*library.Store) []string) int {
	store, err := library.Open(common.DataDir(), common.MusicDir())
	if err != nil {
		fmt.Fprintf(stderr, "Error opening library: %v\n", err)
		return 1
	}
	for _, name := range pick(store) {
		fmt.Fprintln(stdout, name)
	}
	return 0
}
