// Package play runs the interactive terminal player: a three panel
// browser over the track library with playback controls, fed by the
// playback session and kept fresh by filesystem watches on the music
// directory.
package play

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/player"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

type Params struct {
	MusicDir string  `long:"music-dir" help:"Directory to scan for audio files (defaults to <data dir>/music)"`
	Playlist string  `short:"p" help:"Start playing the named playlist"`
	Volume   float64 `default:"-1" help:"Initial volume 0.0-1.0 (defaults to T3R_VOLUME or 0.7)"`
	Notify   bool    `help:"Send a desktop notification when a new track starts"`
	Simulate bool    `help:"Use the silent simulated audio backend"`
	NoSplash bool    `long:"no-splash" help:"Skip the startup splash screen"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "play",
		Short:       "Open the interactive player",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			exitCode := Run(params, os.Stdout, os.Stderr)
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		},
	}.ToCobra()
}

// RunDefault opens the player the way a bare t3r invocation does.
func RunDefault() int {
	return Run(&Params{Volume: -1}, os.Stdout, os.Stderr)
}

func Run(params *Params, stdout io.Writer, stderr io.Writer) int {
	logFile := setupLogging()
	if logFile != nil {
		defer func() { _ = logFile.Close() }()
	}

	musicDir := params.MusicDir
	if musicDir == "" {
		musicDir = common.MusicDir()
	}

	store, err := library.Open(common.DataDir(), musicDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening library: %v\n", err)
		return 1
	}

	var backend player.Backend
	if params.Simulate || !player.AudioAvailable {
		backend = player.NewSimulatedBackend()
	} else {
		backend = player.NewDeviceBackend()
	}

	session := player.New(backend)
	defer session.Close()

	volume := params.Volume
	if volume < 0 || volume > 1 {
		volume = common.InitialVolume()
	}
	session.SetVolume(volume)

	if params.NoSplash {
		store.Scan(musicDir)
	} else {
		runSplash(store, musicDir)
	}

	m := newModel(store, session, musicDir, params.Notify)

	if params.Playlist != "" {
		tracks := store.PlaylistTracks(params.Playlist)
		if tracks == nil {
			fmt.Fprintf(stderr, "Playlist '%s' not found\n", params.Playlist)
			return 1
		}
		paths := lo.Map(tracks, func(t library.Track, _ int) string {
			return t.Path
		})
		if session.SetQueue(paths) && session.Next() {
			m.status = "Playing playlist: " + params.Playlist
			m = m.refreshSnapshot()
		} else {
			m.status = "Playlist is empty: " + params.Playlist
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(stderr, "Error running player: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "Thank you for using t3rm1n4l music player!")
	return 0
}

// setupLogging routes slog to a file so log lines cannot corrupt the
// alt screen. Returns nil when the file cannot be opened, with logs
// discarded in that case.
func setupLogging() *os.File {
	f, err := os.OpenFile(common.LogFile(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, nil)))
	return f
}
