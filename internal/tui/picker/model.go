// Package picker содержит экран выбора аудиофайла для импорта
package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/leakplayer/internal/audio"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// FileSelectedMsg отправляется при выборе файла
type FileSelectedMsg struct {
	Path string
}

// CancelMsg отправляется при закрытии экрана без выбора
type CancelMsg struct{}

// Model экран выбора файла
type Model struct {
	filepicker filepicker.Model
	rejected   string
}

// NewModel создает экран выбора с началом в каталоге dir. Доступны только аудиофайлы.
func NewModel(dir string) *Model {
	fp := filepicker.New()
	fp.CurrentDirectory = dir
	fp.AllowedTypes = append([]string(nil), audio.SupportedExtensions...)
	fp.ShowPermissions = false

	return &Model{filepicker: fp}
}

// Init читает начальный каталог
func (m *Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "q":
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.filepicker, cmd = m.filepicker.Update(msg)

	if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
		return m, func() tea.Msg {
			return FileSelectedMsg{Path: path}
		}
	}
	if didSelect, path := m.filepicker.DidSelectDisabledFile(msg); didSelect {
		m.rejected = path
	}

	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Импорт: " + m.filepicker.CurrentDirectory))
	b.WriteString("\n")
	b.WriteString(m.filepicker.View())
	b.WriteString("\n")
	if m.rejected != "" {
		b.WriteString(warnStyle.Render("Не аудиофайл: " + m.rejected))
		b.WriteString("\n")
	}
	b.WriteString(hintStyle.Render("Enter: выбрать • ←/h: вверх • Esc/q: отмена"))
	return b.String()
}
