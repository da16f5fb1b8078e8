// Package editor содержит форму ввода названия, альбома и исполнителя песни
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/metadata"
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(15)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

// Mode режим формы
type Mode int

const (
	// ModeNew новая песня после импорта
	ModeNew Mode = iota
	// ModeEdit редактирование существующей песни
	ModeEdit
)

// SubmitMsg отправляется при сохранении формы
type SubmitMsg struct {
	Mode      Mode
	Index     int    // Строка отображаемого списка для ModeEdit
	TrackName string // Имя импортированного файла для ModeNew
	Name      string
	Album     string
	Artist    string
}

// CancelMsg отправляется при отмене формы
type CancelMsg struct {
	Mode      Mode
	TrackName string
}

// fieldType определяет тип поля для редактирования
type fieldType int

const (
	nameField fieldType = iota
	albumField
	artistField
	numFields
)

// Model представляет модель формы
type Model struct {
	mode       Mode
	index      int
	trackName  string
	inputs     []textinput.Model
	focusIndex int
}

// NewAddModel создает форму для новой песни. Подсказки из тегов файла выводятся как placeholder.
func NewAddModel(trackName string, hints metadata.TrackMetadata) *Model {
	m := newModel(ModeNew)
	m.trackName = trackName

	m.inputs[nameField].Placeholder = orDefault(hints.Title, data.UnknownSong)
	m.inputs[albumField].Placeholder = orDefault(hints.Album, data.UnknownAlbum)
	m.inputs[artistField].Placeholder = orDefault(hints.Artist, data.UnknownArtist)
	return m
}

// NewEditModel создает форму, заполненную текущими значениями песни
func NewEditModel(index int, song data.Song) *Model {
	m := newModel(ModeEdit)
	m.index = index
	m.trackName = song.TrackName

	m.inputs[nameField].SetValue(song.Name)
	m.inputs[albumField].SetValue(song.AlbumName)
	m.inputs[artistField].SetValue(song.ArtistName)
	return m
}

func newModel(mode Mode) *Model {
	inputs := make([]textinput.Model, numFields)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].PromptStyle = blurredStyle
		inputs[i].TextStyle = blurredStyle
	}
	inputs[nameField].Focus()
	inputs[nameField].PromptStyle = focusedStyle
	inputs[nameField].TextStyle = focusedStyle

	return &Model{
		mode:   mode,
		inputs: inputs,
	}
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			mode, trackName := m.mode, m.trackName
			return m, func() tea.Msg {
				return CancelMsg{Mode: mode, TrackName: trackName}
			}

		case "ctrl+s":
			return m, m.submit()

		case "tab", "shift+tab", "enter", "up", "down":
			s := msg.String()

			if s == "enter" && m.focusIndex == len(m.inputs) {
				return m, m.submit()
			}

			if s == "up" || s == "shift+tab" {
				m.focusIndex--
			} else {
				m.focusIndex++
			}

			if m.focusIndex > len(m.inputs) {
				m.focusIndex = 0
			} else if m.focusIndex < 0 {
				m.focusIndex = len(m.inputs)
			}

			cmds := make([]tea.Cmd, len(m.inputs))
			for i := 0; i < len(m.inputs); i++ {
				if i == m.focusIndex {
					cmds[i] = m.inputs[i].Focus()
					m.inputs[i].PromptStyle = focusedStyle
					m.inputs[i].TextStyle = focusedStyle
				} else {
					m.inputs[i].Blur()
					m.inputs[i].PromptStyle = blurredStyle
					m.inputs[i].TextStyle = blurredStyle
				}
			}

			return m, tea.Batch(cmds...)
		}

	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = msg.Width - 20
		}
		return m, nil
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}

	return m, nil
}

// submit отдает введенные значения. Пустые поля новой песни заменяются при создании записи.
func (m *Model) submit() tea.Cmd {
	result := SubmitMsg{
		Mode:      m.mode,
		Index:     m.index,
		TrackName: m.trackName,
		Name:      m.inputs[nameField].Value(),
		Album:     m.inputs[albumField].Value(),
		Artist:    m.inputs[artistField].Value(),
	}
	return func() tea.Msg {
		return result
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	if m.mode == ModeNew {
		b.WriteString(titleStyle.Render("Новая песня: " + m.trackName))
	} else {
		b.WriteString(titleStyle.Render("Редактирование песни"))
	}
	b.WriteString("\n\n")

	labels := []string{"Название:", "Альбом:", "Исполнитель:"}
	for i, input := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(" ")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	button := "[ Добавить ]"
	if m.mode == ModeEdit {
		button = "[ Сохранить ]"
	}
	if m.focusIndex == len(m.inputs) {
		b.WriteString(focusedStyle.Render(button))
	} else {
		b.WriteString(blurredStyle.Render(button))
	}
	b.WriteString("\n\n")

	b.WriteString(helpStyle.Render("Tab/Enter: следующее поле • Shift+Tab: предыдущее поле"))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Ctrl+S: сохранить • Esc: отмена"))

	return b.String()
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
