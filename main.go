package main

import (
	"os"
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/info"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/play"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/playlist"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/scan"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/tracks"
	"github.com/spf13/cobra"
)

func main() {
	common.LoadDotEnv()

	boa.CmdT[boa.NoParams]{
		Use:     "t3r",
		Short:   "Terminal music player",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			scan.Cmd(),
			tracks.Cmd(),
			tracks.ArtistsCmd(),
			tracks.AlbumsCmd(),
			playlist.Cmd(),
			info.Cmd(),
		},
		// Bare t3r opens the player.
		RunFunc: func(params *boa.NoParams, cmd *cobra.Command, args []string) {
			exitCode := play.RunDefault()
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "0.1.0"
	}

	versionString := bi.Main.Version
	if versionString == "" || versionString == "(devel)" {
		versionString = "0.1.0"
	}

	return versionString
}
