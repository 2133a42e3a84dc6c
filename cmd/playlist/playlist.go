// Package playlist holds the playlist management subcommands.
package playlist

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func Cmd() *cobra.Command {
	cmd := boa.CmdT[boa.NoParams]{
		Use:   "playlist",
		Short: "Manage playlists",
		SubCmds: []*cobra.Command{
			ListCmd(),
			ShowCmd(),
			CreateCmd(),
			DeleteCmd(),
			AddCmd(),
			RemoveCmd(),
		},
	}.ToCobra()
	cmd.Aliases = []string{"playlists", "pl"}
	return cmd
}

func openStore(stderr io.Writer) (*library.Store, int) {
	store, err := library.Open(common.DataDir(), common.MusicDir())
	if err != nil {
		fmt.Fprintf(stderr, "Error opening library: %v\n", err)
		return nil, 1
	}
	return store, 0
}

func ListCmd() *cobra.Command {
	return boa.CmdT[boa.NoParams]{
		Use:   "list",
		Short: "List all playlists",
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			exitCode := RunList(os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func RunList(stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}

	names := store.PlaylistNames()
	if len(names) == 0 {
		fmt.Fprintln(stdout, "No playlists")
		return 0
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Name", "Tracks"})
	for _, name := range names {
		t.AppendRow(table.Row{name, len(store.PlaylistTracks(name))})
	}
	t.Render()
	return 0
}

type ShowParams struct {
	Name string `pos:"true" required:"true" help:"Playlist name"`
}

func ShowCmd() *cobra.Command {
	return boa.CmdT[ShowParams]{
		Use:         "show <name>",
		Short:       "Show the tracks of a playlist",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *ShowParams, cmd *cobra.Command, args []string) {
			exitCode := RunShow(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func RunShow(params *ShowParams, stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}

	if !lo.Contains(store.PlaylistNames(), params.Name) {
		fmt.Fprintf(stderr, "Playlist '%s' not found\n", params.Name)
		return 1
	}

	tracks := store.PlaylistTracks(params.Name)
	if len(tracks) == 0 {
		fmt.Fprintf(stdout, "Playlist '%s' is empty\n", params.Name)
		return 0
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(common.TermWidth())
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Length"})
	for i, track := range tracks {
		t.AppendRow(table.Row{i + 1, track.Title, track.Artist, track.FormattedDuration()})
	}
	t.Render()
	return 0
}
