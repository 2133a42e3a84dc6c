package play

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Im-Gonzo/t3rm1n4l/cmd/common"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/library"
	"github.com/Im-Gonzo/t3rm1n4l/cmd/player"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gen2brain/beeep"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
)

const (
	uiTickInterval = 250 * time.Millisecond
	allArtists     = "All Artists"
)

var (
	uiTitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	uiStatusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	uiHeaderStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("42"))
	uiPanelStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	uiActivePanelStyle = uiPanelStyle.BorderForeground(lipgloss.Color("42"))
	uiPanelTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250"))
	uiSelectedStyle    = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("238")) // Dark gray background, preserves row foreground color
	uiPlayingStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	uiHelpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	uiSearchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	uiDimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type uiTickMsg time.Time

type uiPanel int

const (
	panelArtists uiPanel = iota
	panelSongs
)

type model struct {
	store    *library.Store
	session  *player.Session
	musicDir string
	notify   bool

	width  int
	height int

	artists   []string // "All Artists" plus every artist in the library
	artistIdx int
	artistOff int

	songs   []library.Track
	songIdx int
	songOff int

	active uiPanel

	searchInput   string
	searchFocused bool

	status string

	snap    player.Snapshot
	now     player.NowPlaying
	nowOK   bool
	nowPath string
}

func newModel(store *library.Store, session *player.Session, musicDir string, notify bool) model {
	m := model{
		store:    store,
		session:  session,
		musicDir: musicDir,
		notify:   notify,
		active:   panelSongs,
		status:   "Welcome to t3rm1n4l music player",
	}
	m = m.refreshLibrary()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(uiTickCmd(), watchMusicDirCmd(m.musicDir), tea.EnterAltScreen)
}

func uiTickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(t time.Time) tea.Msg {
		return uiTickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.ensureArtistVisible()
		m = m.ensureSongVisible()
		return m, nil

	case uiTickMsg:
		m = m.drainSessionEvents()
		m = m.refreshSnapshot()
		return m, uiTickCmd()

	case scanDoneMsg:
		m = m.refreshLibrary()
		m.status = fmt.Sprintf("Library: %d tracks", m.store.Count())
		return m, nil

	case musicDirChangedMsg:
		m.status = "Music directory changed, rescanning..."
		return m, tea.Batch(scanLibraryCmd(m.store, m.musicDir), watchMusicDirCmd(m.musicDir))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		switch msg.String() {
		case "esc":
			if m.searchInput != "" {
				m.searchInput = ""
				m = m.applyFilter()
			} else {
				m.searchFocused = false
			}
		case "enter":
			m.searchFocused = false
		case "up":
			m.searchFocused = false
			m = m.moveCursor(-1)
		case "down":
			m.searchFocused = false
			m = m.moveCursor(1)
		case "backspace":
			if len(m.searchInput) > 0 {
				m.searchInput = m.searchInput[:len(m.searchInput)-1]
				m = m.applyFilter()
			}
		case "ctrl+u":
			m.searchInput = ""
			m = m.applyFilter()
		default:
			// Add printable characters to search
			if len(msg.String()) == 1 && msg.String()[0] >= 32 && msg.String()[0] < 127 {
				m.searchInput += msg.String()
				m = m.applyFilter()
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searchFocused = true
		m.active = panelSongs

	case "esc":
		if m.searchInput != "" {
			m.searchInput = ""
			m = m.applyFilter()
		}

	case "tab":
		if m.active == panelArtists {
			m.active = panelSongs
		} else {
			m.active = panelArtists
		}

	case "up", "k":
		m = m.moveCursor(-1)

	case "down", "j":
		m = m.moveCursor(1)

	case "enter":
		if m.active == panelArtists {
			m.active = panelSongs
			break
		}
		m = m.playSelected()

	case " ":
		m = m.togglePlayback()

	case "<", "left":
		if m.session.Previous() {
			m = m.refreshSnapshot()
		} else {
			m.status = "No more tracks"
		}

	case ">", "right":
		if m.session.Next() {
			m = m.refreshSnapshot()
		} else {
			m.status = "No more tracks"
		}

	case "+":
		m.session.SetVolume(m.session.Volume() + 0.1)
		m.status = fmt.Sprintf("Volume: %d%%", volumePercent(m.session.Volume()))

	case "-":
		m.session.SetVolume(m.session.Volume() - 0.1)
		m.status = fmt.Sprintf("Volume: %d%%", volumePercent(m.session.Volume()))

	case "[":
		m.session.Seek(m.session.Snapshot().Position - 10)
		m = m.refreshSnapshot()

	case "]":
		m.session.Seek(m.session.Snapshot().Position + 10)
		m = m.refreshSnapshot()

	case "y":
		if snap := m.session.Snapshot(); snap.Current != "" {
			if err := clipboard.WriteAll(snap.Current); err != nil {
				m.status = "Clipboard unavailable"
			} else {
				m.status = "Copied track path"
			}
		}

	case "r":
		m.status = "Rescanning music library..."
		return m, scanLibraryCmd(m.store, m.musicDir)
	}
	return m, nil
}

func (m model) togglePlayback() model {
	snap := m.session.Snapshot()
	if snap.Current == "" {
		// Nothing loaded yet: queue up what is on screen and start.
		if snap.QueueLength == 0 {
			if len(m.songs) == 0 {
				m.status = "No tracks to play"
				return m
			}
			m.seedQueue()
		}
		if !m.session.Next() {
			m.status = "No tracks to play"
			return m
		}
		m.status = "Playing"
		return m.refreshSnapshot()
	}

	if m.session.TogglePlayPause() {
		m.status = "Playing"
	} else {
		m.status = "Paused"
	}
	return m.refreshSnapshot()
}

func (m model) playSelected() model {
	if len(m.songs) == 0 || m.songIdx >= len(m.songs) {
		return m
	}
	track := m.songs[m.songIdx]
	m.seedQueue()
	if m.session.PlayAt(m.songIdx) {
		m.status = "Playing: " + track.Title
	} else {
		m.status = "Failed to load: " + track.Title
	}
	return m.refreshSnapshot()
}

// seedQueue replaces the play queue with the songs currently shown.
func (m model) seedQueue() {
	paths := lo.Map(m.songs, func(t library.Track, _ int) string {
		return t.Path
	})
	m.session.SetQueue(paths)
}

func (m model) moveCursor(delta int) model {
	if m.active == panelArtists {
		if len(m.artists) == 0 {
			return m
		}
		m.artistIdx += delta
		if m.artistIdx < 0 {
			m.artistIdx = 0
		} else if m.artistIdx >= len(m.artists) {
			m.artistIdx = len(m.artists) - 1
		}
		m = m.ensureArtistVisible()
		m.searchInput = ""
		m = m.applyFilter()
		if m.artistIdx == 0 {
			m.status = "Showing all artists"
		} else {
			m.status = "Selected artist: " + m.artists[m.artistIdx]
		}
		return m
	}

	if len(m.songs) == 0 {
		return m
	}
	m.songIdx += delta
	if m.songIdx < 0 {
		m.songIdx = 0
	} else if m.songIdx >= len(m.songs) {
		m.songIdx = len(m.songs) - 1
	}
	return m.ensureSongVisible()
}

func (m model) drainSessionEvents() model {
	for {
		select {
		case ev := <-m.session.Events():
			switch ev.Type {
			case player.EventTrackStarted:
				title := m.titleFor(ev.Path)
				m.status = "Playing: " + title
				if m.notify {
					go notifyTrack(title)
				}
			case player.EventTrackEnded:
				// The follow-up start event overwrites the status.
			case player.EventPlaybackError:
				m.status = "No more tracks"
			}
		default:
			return m
		}
	}
}

func (m model) refreshSnapshot() model {
	m.snap = m.session.Snapshot()
	if m.snap.Current != m.nowPath {
		m.nowPath = m.snap.Current
		m.now, m.nowOK = m.session.NowPlaying()
	}
	return m
}

func (m model) refreshLibrary() model {
	selected := ""
	if m.artistIdx > 0 && m.artistIdx < len(m.artists) {
		selected = m.artists[m.artistIdx]
	}
	m.artists = append([]string{allArtists}, m.store.Artists()...)
	m.artistIdx = 0
	if selected != "" {
		for i, artist := range m.artists {
			if artist == selected {
				m.artistIdx = i
				break
			}
		}
	}
	m = m.ensureArtistVisible()
	return m.applyFilter()
}

func (m model) applyFilter() model {
	var tracks []library.Track
	switch {
	case m.searchInput != "":
		tracks = m.store.Search(m.searchInput)
	case m.artistIdx > 0 && m.artistIdx < len(m.artists):
		tracks = m.store.TracksByArtist(m.artists[m.artistIdx])
	default:
		tracks = m.store.Tracks()
	}
	sort.Slice(tracks, func(i, j int) bool {
		if tracks[i].Title != tracks[j].Title {
			return tracks[i].Title < tracks[j].Title
		}
		return tracks[i].Path < tracks[j].Path
	})
	m.songs = tracks
	if m.songIdx >= len(m.songs) {
		m.songIdx = 0
		m.songOff = 0
	}
	return m.ensureSongVisible()
}

func (m model) ensureArtistVisible() model {
	if m.artistIdx < m.artistOff {
		m.artistOff = m.artistIdx
	}
	if m.artistIdx >= m.artistOff+m.listHeight() {
		m.artistOff = m.artistIdx - m.listHeight() + 1
	}
	return m
}

func (m model) ensureSongVisible() model {
	if m.songIdx < m.songOff {
		m.songOff = m.songIdx
	}
	if m.songIdx >= m.songOff+m.listHeight() {
		m.songOff = m.songIdx - m.listHeight() + 1
	}
	return m
}

// listHeight is the number of rows available inside each panel below the
// panel title.
func (m model) listHeight() int {
	h := m.height - 8
	if h < 3 {
		h = 3
	}
	return h
}

func (m model) titleFor(path string) string {
	if track, ok := m.store.Track(path); ok {
		return track.Title
	}
	return filepath.Base(path)
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderArtistsPanel(),
		m.renderSongsPanel(),
		m.renderDetailsPanel(),
	))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderHeader() string {
	inner := lipgloss.NewStyle().Width(m.width - 2).Align(lipgloss.Center).Render(
		uiTitleStyle.Render("t3rm1n4l") + "\n" + uiStatusStyle.Render(m.status),
	)
	return uiHeaderStyle.Render(inner)
}

func (m model) renderFooter() string {
	help := "space play/pause • </> prev/next • +/- volume • [/] seek • tab panel • enter play • / search • y copy path • r rescan • q quit"
	return uiHelpStyle.Render(runewidth.Truncate(help, m.width, "…"))
}

func (m model) artistsWidth() int { return m.width / 4 }
func (m model) detailsWidth() int { return m.width / 3 }
func (m model) songsWidth() int   { return m.width - m.artistsWidth() - m.detailsWidth() }

func (m model) panelBox(title, content string, outerWidth int, active bool) string {
	style := uiPanelStyle
	if active {
		style = uiActivePanelStyle
	}
	return style.
		Width(outerWidth - 2).
		Height(m.listHeight() + 1).
		Render(uiPanelTitleStyle.Render(title) + "\n" + content)
}

// renderList renders a scrolling window over items, highlighting the
// cursor row when the panel is active.
func (m model) renderList(items []string, cursor, offset, width int, active bool) string {
	var b strings.Builder
	end := offset + m.listHeight()
	if end > len(items) {
		end = len(items)
	}
	for i := offset; i < end; i++ {
		text := runewidth.Truncate(items[i], width-2, "…")
		switch {
		case i == cursor && active:
			b.WriteString(uiSelectedStyle.Render("> " + text))
		case i == cursor:
			b.WriteString("> " + text)
		default:
			b.WriteString("  " + text)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m model) renderArtistsPanel() string {
	width := m.artistsWidth()
	content := m.renderList(m.artists, m.artistIdx, m.artistOff, width-4, m.active == panelArtists)
	return m.panelBox("Artists", content, width, m.active == panelArtists)
}

func (m model) renderSongsPanel() string {
	width := m.songsWidth()

	title := "Songs"
	if m.searchFocused {
		title += "  " + uiSearchStyle.Render("Search: ["+m.searchInput+"_]")
	} else if m.searchInput != "" {
		title += "  " + uiSearchStyle.Render("Search: ["+m.searchInput+"]")
	}

	items := make([]string, len(m.songs))
	for i, track := range m.songs {
		marker := ""
		if track.Path == m.snap.Current {
			marker = "♪ "
		}
		items[i] = marker + track.Title
	}

	var content string
	if len(items) == 0 {
		if m.searchInput != "" {
			content = uiDimStyle.Render("No matches for \"" + m.searchInput + "\"")
		} else {
			content = uiDimStyle.Render("No tracks. Press r to scan " + m.musicDir)
		}
	} else {
		content = m.renderList(items, m.songIdx, m.songOff, width-4, m.active == panelSongs)
	}
	return m.panelBox(title, content, width, m.active == panelSongs)
}

func (m model) renderDetailsPanel() string {
	width := m.detailsWidth()
	inner := width - 4

	var lines []string
	if m.snap.Current == "" {
		lines = append(lines,
			uiDimStyle.Render("Nothing playing"),
			"",
			uiDimStyle.Render("enter  play selected song"),
			uiDimStyle.Render("space  play everything"),
		)
	} else {
		title := m.now.Title
		if title == "" {
			title = filepath.Base(m.snap.Current)
		}
		lines = append(lines,
			uiPlayingStyle.Render(runewidth.Truncate(title, inner, "…")),
			runewidth.Truncate(m.now.Artist, inner, "…"),
			uiDimStyle.Render(runewidth.Truncate(m.now.Album, inner, "…")),
			"",
			stateLabel(m.snap.State),
			common.FormatPosition(m.snap.Position, m.snap.Duration),
			renderProgressBar(inner, m.snap.Position, m.snap.Duration),
			fmt.Sprintf("Volume: %d%%", volumePercent(m.snap.Volume)),
		)
		if m.snap.QueueLength > 0 && m.snap.QueueIndex >= 0 {
			lines = append(lines, "", uiDimStyle.Render(
				fmt.Sprintf("Track %d of %d", m.snap.QueueIndex+1, m.snap.QueueLength)))
		}
		if m.nowOK && m.now.SampleRate > 0 {
			format := fmt.Sprintf("%d kbps · %.1f kHz · %dch",
				m.now.Bitrate, float64(m.now.SampleRate)/1000, m.now.Channels)
			lines = append(lines, "", uiDimStyle.Render(runewidth.Truncate(format, inner, "…")))
		}
		if m.nowOK && m.now.HasArt {
			lines = append(lines, uiDimStyle.Render("embedded cover art"))
		}
	}

	return m.panelBox("Track Details", strings.Join(lines, "\n"), width, false)
}

func stateLabel(state player.State) string {
	switch state {
	case player.StatePlaying:
		return uiPlayingStyle.Render("Playing")
	case player.StatePaused:
		return uiStatusStyle.Render("Paused")
	default:
		return uiDimStyle.Render("Stopped")
	}
}

func renderProgressBar(width int, position float64, duration int) string {
	if width < 4 {
		return ""
	}
	ratio := 0.0
	if duration > 0 {
		ratio = position / float64(duration)
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	filled := int(math.Round(ratio * float64(width)))
	return uiPlayingStyle.Render(strings.Repeat("█", filled)) +
		uiDimStyle.Render(strings.Repeat("░", width-filled))
}

func volumePercent(v float64) int {
	return int(math.Round(v * 100))
}

func notifyTrack(title string) {
	if err := beeep.Notify("t3rm1n4l", "Now playing: "+title, ""); err != nil {
		slog.Debug("failed to send desktop notification", "error", err)
	}
}
