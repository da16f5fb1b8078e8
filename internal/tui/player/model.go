// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/leakplayer/internal/player"
	"github.com/hazadus/leakplayer/internal/remote"
	"github.com/hazadus/leakplayer/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	coverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("170")).
			Align(lipgloss.Center, lipgloss.Center)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

const (
	refreshInterval = 250 * time.Millisecond
	seekStep        = 5 * time.Second

	// Размеры обложки: на паузе она уменьшается
	coverWidth       = 30
	coverHeight      = 9
	coverPausedShift = 4
)

// GoBackMsg отправляется для возврата к списку песен
type GoBackMsg struct{}

// refreshMsg адресован экрану с тем же id: тики закрытого экрана не должны продлевать цикл нового
type refreshMsg struct {
	id int64
}

var lastModelID atomic.Int64

// Model представляет модель экрана воспроизведения
type Model struct {
	id          int64
	session     *player.Session
	snapshot    player.Snapshot
	progressBar progress.Model
	width       int
	height      int
	closed      bool
}

// NewModel создает экран для сессии. Сессия запускается в Init и закрывается при выходе с экрана.
func NewModel(session *player.Session) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		id:          lastModelID.Add(1),
		session:     session,
		snapshot:    session.Snapshot(),
		progressBar: prog,
	}
}

// Init запускает воспроизведение и обновление экрана
func (m *Model) Init() tea.Cmd {
	m.session.Start()
	m.snapshot = m.session.Snapshot()
	return refresh(m.id)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			m.Close()
			return m, func() tea.Msg {
				return GoBackMsg{}
			}
		case " ":
			m.session.TogglePlayPause()
		case "n":
			m.session.Next()
		case "p":
			m.session.Previous()
		case "right", "l":
			m.session.SeekBy(seekStep)
		case "left", "h":
			m.session.SeekBy(-seekStep)
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			// Перемотка на долю длительности, как перетаскивание ползунка
			tenth := int(msg.String()[0] - '0')
			m.session.Seek(m.snapshot.Duration * time.Duration(tenth) / 10)
		case "ctrl+z":
			// Приостановка процесса считается прерыванием звука
			m.session.Interrupt(remote.Event{Command: remote.InterruptBegin})
			return m, tea.Suspend
		}
		m.snapshot = m.session.Snapshot()
		return m, nil

	case tea.ResumeMsg:
		m.session.Interrupt(remote.Event{Command: remote.InterruptEnd, ShouldResume: true})
		m.snapshot = m.session.Snapshot()
		return m, nil

	case refreshMsg:
		if m.closed || msg.id != m.id {
			return m, nil
		}
		m.snapshot = m.session.Snapshot()
		return m, refresh(m.id)
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	snap := m.snapshot
	song := snap.Song

	title := titleStyle.Render(fmt.Sprintf("🎵 %d / %d", snap.Position+1, snap.Count))

	width, height := coverWidth, coverHeight
	if !snap.Playing() {
		width -= coverPausedShift
		height -= coverPausedShift / 2
	}
	cover := coverStyle.Width(width).Height(height).Render("💿\n" + song.ImageName)

	trackInfo := trackInfoStyle.Render(fmt.Sprintf(
		"🎵 %s\n💿 %s\n🎤 %s",
		song.Name,
		song.AlbumName,
		song.ArtistName,
	))

	var statusIcon string
	if snap.Playing() {
		statusIcon = "▶️"
	} else {
		statusIcon = "⏸️"
	}
	statusText := statusStyle.Render(fmt.Sprintf("%s %s", statusIcon, formatStatus(snap.State)))

	var percent float64
	if snap.Duration > 0 {
		percent = float64(snap.Elapsed) / float64(snap.Duration)
	}
	progressView := m.progressBar.ViewAs(percent)

	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatTime(snap.Elapsed),
		utils.FormatTime(snap.Duration),
	)

	controls := controlsStyle.Render(
		"Пробел: пауза • n/p: следующий/предыдущий • ←/→: перемотка • 0-9: позиция • q/esc: назад",
	)

	return fmt.Sprintf(
		"%s\n%s\n%s\n%s\n%s\n%s\n%s",
		title,
		cover,
		trackInfo,
		statusText,
		progressView,
		timeText,
		controls,
	)
}

// Close закрывает сессию. Повторные вызовы ничего не делают.
func (m *Model) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	return m.session.Close()
}

func refresh(id int64) tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{id: id}
	})
}

func formatStatus(state player.State) string {
	switch state {
	case player.StatePlaying:
		return "Воспроизведение"
	case player.StatePaused:
		return "Пауза"
	case player.StateLoaded:
		return "Загрузка"
	default:
		return "Нет трека"
	}
}
