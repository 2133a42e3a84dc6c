package play

import (
	_ "embed"
	"strings"
	"time"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

//go:embed assets/logo.txt
var splashLogo string

var splashFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	splashFrameInterval = 100 * time.Millisecond
	splashMinTicks      = 30 // keep the logo up for at least 3 seconds
)

var (
	splashPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("42")).
				Padding(1, 2)
	splashLogoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	splashTextStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	splashDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type splashTickMsg time.Time

// splashModel animates the startup logo while the library scan runs in the
// background. It quits once the scan is done and the minimum display time
// has passed.
type splashModel struct {
	store    *library.Store
	musicDir string

	width    int
	height   int
	frame    int
	ticks    int
	scanDone bool
	found    int
}

func newSplashModel(store *library.Store, musicDir string) splashModel {
	return splashModel{store: store, musicDir: musicDir}
}

func (m splashModel) Init() tea.Cmd {
	return tea.Batch(splashTickCmd(), scanLibraryCmd(m.store, m.musicDir), tea.EnterAltScreen)
}

func splashTickCmd() tea.Cmd {
	return tea.Tick(splashFrameInterval, func(t time.Time) tea.Msg {
		return splashTickMsg(t)
	})
}

func (m splashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case splashTickMsg:
		m.frame = (m.frame + 1) % len(splashFrames)
		m.ticks++
		if m.done() {
			return m, tea.Quit
		}
		return m, splashTickCmd()

	case scanDoneMsg:
		m.scanDone = true
		m.found = msg.found
		if m.done() {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m splashModel) done() bool {
	return m.scanDone && m.ticks >= splashMinTicks
}

func (m splashModel) View() string {
	if m.width == 0 {
		return ""
	}

	status := splashFrames[m.frame] + " Loading modules..."
	if m.scanDone {
		status = splashFrames[m.frame] + " Starting player..."
	}

	var b strings.Builder
	b.WriteString(splashLogoStyle.Render(strings.TrimRight(splashLogo, "\n")))
	b.WriteString("\n\n")
	b.WriteString(splashTextStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(splashDimStyle.Render("t3rm1n4l Music Player v" + appVersion))

	panel := splashPanelStyle.Render(lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

// runSplash shows the animated splash while scanning the library. Falls
// back to a plain scan when the terminal cannot run the animation.
// Returns the number of files the scan discovered.
func runSplash(store *library.Store, musicDir string) int {
	p := tea.NewProgram(newSplashModel(store, musicDir), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return len(store.Scan(musicDir))
	}
	if m, ok := final.(splashModel); ok && m.scanDone {
		return m.found
	}
	return len(store.Scan(musicDir))
}
