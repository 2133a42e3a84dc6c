package playlist

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/spf13/cobra"
)

type CreateParams struct {
	Name string `pos:"true" required:"true" help:"Playlist name"`
}

func CreateCmd() *cobra.Command {
	return boa.CmdT[CreateParams]{
		Use:         "create <name>",
		Short:       "Create a new empty playlist",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *CreateParams, cmd *cobra.Command, args []string) {
			exitCode := RunCreate(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func RunCreate(params *CreateParams, stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}
	if !store.CreatePlaylist(params.Name) {
		fmt.Fprintf(stderr, "Playlist '%s' already exists\n", params.Name)
		return 1
	}
	fmt.Fprintf(stdout, "Created playlist '%s'\n", params.Name)
	return 0
}

type DeleteParams struct {
	Name string `pos:"true" required:"true" help:"Playlist name"`
}

func DeleteCmd() *cobra.Command {
	cmd := boa.CmdT[DeleteParams]{
		Use:         "delete <name>",
		Short:       "Delete a playlist",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *DeleteParams, cmd *cobra.Command, args []string) {
			exitCode := RunDelete(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
	cmd.Aliases = []string{"rm"}
	return cmd
}

func RunDelete(params *DeleteParams, stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}
	if !store.DeletePlaylist(params.Name) {
		fmt.Fprintf(stderr, "Playlist '%s' not found\n", params.Name)
		return 1
	}
	fmt.Fprintf(stdout, "Deleted playlist '%s'\n", params.Name)
	return 0
}

type AddParams struct {
	Name  string   `pos:"true" required:"true" help:"Playlist name"`
	Paths []string `pos:"true" required:"true" help:"Track paths to add"`
}

func AddCmd() *cobra.Command {
	return boa.CmdT[AddParams]{
		Use:         "add <name> <track>...",
		Short:       "Add library tracks to a playlist",
		Long:        "Add tracks to a playlist. Tracks must already be in the library; scan first.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *AddParams, cmd *cobra.Command, args []string) {
			exitCode := RunAdd(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func RunAdd(params *AddParams, stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}
	if !store.AddToPlaylist(params.Name, params.Paths) {
		fmt.Fprintf(stderr, "Playlist '%s' not found\n", params.Name)
		return 1
	}
	fmt.Fprintf(stdout, "Playlist '%s' now has %d tracks\n", params.Name, len(store.PlaylistTracks(params.Name)))
	return 0
}

type RemoveParams struct {
	Name  string `pos:"true" required:"true" help:"Playlist name"`
	Track string `pos:"true" required:"true" help:"Track path to remove"`
}

func RemoveCmd() *cobra.Command {
	return boa.CmdT[RemoveParams]{
		Use:         "remove <name> <track>",
		Short:       "Remove a track from a playlist",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *RemoveParams, cmd *cobra.Command, args []string) {
			exitCode := RunRemove(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

func RunRemove(params *RemoveParams, stdout, stderr io.Writer) int {
	store, code := openStore(stderr)
	if store == nil {
		return code
	}
	if !store.RemoveFromPlaylist(params.Name, params.Track) {
		fmt.Fprintf(stderr, "Track not found in playlist '%s'\n", params.Name)
		return 1
	}
	fmt.Fprintf(stdout, "Removed track from '%s'\n", params.Name)
	return 0
}
