// Package library содержит модель экрана библиотеки для TUI
package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/library"
	"github.com/hazadus/leakplayer/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	detailStyle       = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("241"))
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170")).Bold(true)
	searchStyle       = lipgloss.NewStyle().MarginLeft(2).Foreground(lipgloss.Color("214"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	quitTextStyle     = lipgloss.NewStyle().Margin(1, 0, 2, 4)
)

// PlayMsg отправляется при выборе песни: копия отображаемого списка и позиция
type PlayMsg struct {
	Songs    []data.Song
	Position int
}

// EditMsg отправляется при выборе песни для редактирования
type EditMsg struct {
	Index int
	Song  data.Song
}

// ImportMsg отправляется при запросе импорта файла
type ImportMsg struct{}

// songItem реализует интерфейс list.Item для песни
type songItem struct {
	song data.Song
}

func (i songItem) FilterValue() string {
	return i.song.Name
}

// songItemDelegate отображает название и альбом в две строки
type songItemDelegate struct{}

func (d songItemDelegate) Height() int                             { return 2 }
func (d songItemDelegate) Spacing() int                            { return 1 }
func (d songItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d songItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(songItem)
	if !ok {
		return
	}

	width := m.Width() - 8
	if width < 10 {
		width = 40
	}
	name := utils.TruncateString(i.song.Name, width)
	album := utils.TruncateString(fmt.Sprintf("%s • %s", i.song.AlbumName, i.song.ImageName), width)

	if index == m.Index() {
		fmt.Fprint(w, selectedItemStyle.Render("> "+name)+"\n"+detailStyle.Render(album))
		return
	}
	fmt.Fprint(w, itemStyle.Render(name)+"\n"+detailStyle.Render(album))
}

// Model представляет модель экрана библиотеки
type Model struct {
	list      list.Model
	search    textinput.Model
	library   *library.Library
	logger    *slog.Logger
	searching bool
	quitting  bool
}

// NewModel создает новую модель экрана библиотеки
func NewModel(lib *library.Library, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	// Встроенный нечеткий поиск списка отключен: фильтрацией управляет библиотека
	l := list.New(nil, songItemDelegate{}, 0, 0)
	l.Title = "LeakPlayer"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	search := textinput.New()
	search.Prompt = "🔍 "
	search.Placeholder = "Поиск по названию"

	m := &Model{
		list:    l,
		search:  search,
		library: lib,
		logger:  logger,
	}
	m.search.SetValue(lib.Query())
	m.RefreshData()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// RefreshData перечитывает отображаемый список из библиотеки
func (m *Model) RefreshData() {
	songs := m.library.Visible()

	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}

	index := m.list.Index()
	m.list.SetItems(items)
	if index >= len(items) {
		index = len(items) - 1
	}
	if index >= 0 {
		m.list.Select(index)
	}
}

// Searching сообщает, активна ли строка поиска
func (m *Model) Searching() bool {
	return m.searching
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 6) // Оставляем место для поиска и справки
		m.search.Width = msg.Width - 10
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit

		case "/":
			m.searching = true
			return m, m.search.Focus()

		case "esc":
			if m.library.Filtering() {
				m.applyQuery("")
			}
			return m, nil

		case "enter":
			index := m.list.Index()
			if m.list.SelectedItem() == nil {
				return m, nil
			}
			songs := m.library.Visible()
			return m, func() tea.Msg {
				return PlayMsg{Songs: songs, Position: index}
			}

		case "e":
			if item, ok := m.list.SelectedItem().(songItem); ok {
				index := m.list.Index()
				return m, func() tea.Msg {
					return EditMsg{Index: index, Song: item.song}
				}
			}
			return m, nil

		case "d":
			if m.list.SelectedItem() != nil {
				if _, err := m.library.DeleteAt(context.Background(), m.list.Index()); err != nil {
					m.logger.Warn("не удалось удалить песню", "error", err)
				}
				m.RefreshData()
			}
			return m, nil

		case "a":
			return m, func() tea.Msg {
				return ImportMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearch обрабатывает ввод в строке поиска; список пересчитывается на каждое изменение
func (m *Model) updateSearch(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.applyQuery("")
		return m, nil
	case "enter", "down", "tab":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.library.Query() {
		m.library.Search(m.search.Value())
		m.list.Select(0)
		m.RefreshData()
	}
	return m, cmd
}

func (m *Model) applyQuery(query string) {
	m.search.SetValue(query)
	m.library.Search(query)
	m.list.Select(0)
	m.RefreshData()
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return quitTextStyle.Render("До свидания!")
	}

	var b strings.Builder
	if m.searching || m.library.Filtering() {
		b.WriteString(searchStyle.Render(m.search.View()))
	} else {
		b.WriteString(helpStyle.Render("/: поиск"))
	}
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: воспроизвести • a: импорт • e: редактировать • d: удалить • q: выход"))
	return b.String()
}
