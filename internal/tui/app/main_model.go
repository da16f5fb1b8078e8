// Package app содержит основную логику TUI приложения
package app

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/importer"
	"github.com/hazadus/leakplayer/internal/library"
	"github.com/hazadus/leakplayer/internal/player"
	"github.com/hazadus/leakplayer/internal/tui/editor"
	tuiLibrary "github.com/hazadus/leakplayer/internal/tui/library"
	"github.com/hazadus/leakplayer/internal/tui/picker"
	tuiPlayer "github.com/hazadus/leakplayer/internal/tui/player"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// LibraryScreen - экран библиотеки
	LibraryScreen ScreenType = iota
	// PlayerScreen - экран плеера
	PlayerScreen
	// EditorScreen - форма ввода данных песни
	EditorScreen
	// PickerScreen - выбор файла для импорта
	PickerScreen
)

// SessionFactory создает сессию воспроизведения для копии списка и позиции
type SessionFactory func(songs []data.Song, position int) (*player.Session, error)

// ImportDoneMsg результат импорта файла
type ImportDoneMsg struct {
	Result *importer.Result
	Err    error
}

// Deps зависимости главной модели
type Deps struct {
	Library    *library.Library
	Importer   *importer.Service
	NewSession SessionFactory
	ImportDir  string
	Logger     *slog.Logger
}

// MainModel представляет главную модель TUI
type MainModel struct {
	deps          Deps
	currentScreen ScreenType
	libraryModel  *tuiLibrary.Model
	playerModel   *tuiPlayer.Model
	editorModel   *editor.Model
	pickerModel   *picker.Model
	width         int
	height        int
}

// NewMainModel создает новую главную модель
func NewMainModel(deps Deps) *MainModel {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &MainModel{
		deps:          deps,
		currentScreen: LibraryScreen,
		libraryModel:  tuiLibrary.NewModel(deps.Library, deps.Logger),
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return m.libraryModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Close()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tuiLibrary.PlayMsg:
		session, err := m.deps.NewSession(msg.Songs, msg.Position)
		if err != nil {
			m.deps.Logger.Error("не удалось открыть плеер", "error", err)
			return m, nil
		}
		m.playerModel = tuiPlayer.NewModel(session)
		m.currentScreen = PlayerScreen
		return m, tea.Batch(m.playerModel.Init(), m.resize())

	case tuiPlayer.GoBackMsg:
		m.closePlayer()
		m.currentScreen = LibraryScreen
		return m, nil

	case tuiLibrary.EditMsg:
		m.editorModel = editor.NewEditModel(msg.Index, msg.Song)
		m.currentScreen = EditorScreen
		return m, tea.Batch(m.editorModel.Init(), m.resize())

	case tuiLibrary.ImportMsg:
		m.pickerModel = picker.NewModel(m.deps.ImportDir)
		m.currentScreen = PickerScreen
		return m, tea.Batch(m.pickerModel.Init(), m.resize())

	case picker.CancelMsg:
		m.pickerModel = nil
		m.currentScreen = LibraryScreen
		return m, nil

	case picker.FileSelectedMsg:
		m.pickerModel = nil
		m.currentScreen = LibraryScreen
		return m, m.importFile(msg.Path)

	case ImportDoneMsg:
		if msg.Err != nil {
			m.deps.Logger.Warn("импорт не выполнен", "error", msg.Err)
			return m, nil
		}
		m.editorModel = editor.NewAddModel(msg.Result.TrackName, msg.Result.Hints)
		m.currentScreen = EditorScreen
		return m, tea.Batch(m.editorModel.Init(), m.resize())

	case editor.SubmitMsg:
		m.applyEditor(msg)
		m.editorModel = nil
		m.currentScreen = LibraryScreen
		m.libraryModel.RefreshData()
		return m, nil

	case editor.CancelMsg:
		if msg.Mode == editor.ModeNew {
			if err := m.deps.Importer.Discard(msg.TrackName); err != nil {
				m.deps.Logger.Warn("не удалось удалить отмененный импорт", "error", err)
			}
		}
		m.editorModel = nil
		m.currentScreen = LibraryScreen
		return m, nil
	}

	return m, m.updateActive(msg)
}

// updateActive передает сообщение активному экрану
func (m *MainModel) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentScreen {
	case LibraryScreen:
		m.libraryModel, cmd = m.libraryModel.Update(msg)
	case PlayerScreen:
		if m.playerModel != nil {
			m.playerModel, cmd = m.playerModel.Update(msg)
		}
	case EditorScreen:
		if m.editorModel != nil {
			m.editorModel, cmd = m.editorModel.Update(msg)
		}
	case PickerScreen:
		if m.pickerModel != nil {
			m.pickerModel, cmd = m.pickerModel.Update(msg)
		}
	}
	return cmd
}

// resize передает новому экрану последний известный размер окна
func (m *MainModel) resize() tea.Cmd {
	if m.width == 0 && m.height == 0 {
		return nil
	}
	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
	return func() tea.Msg {
		return size
	}
}

func (m *MainModel) importFile(path string) tea.Cmd {
	service := m.deps.Importer
	return func() tea.Msg {
		result, err := service.Import(context.Background(), path, nil)
		return ImportDoneMsg{Result: result, Err: err}
	}
}

func (m *MainModel) applyEditor(msg editor.SubmitMsg) {
	ctx := context.Background()
	switch msg.Mode {
	case editor.ModeNew:
		m.deps.Library.Add(ctx, data.NewImportedSong(msg.TrackName, msg.Name, msg.Album, msg.Artist))
	case editor.ModeEdit:
		if _, err := m.deps.Library.EditAt(ctx, msg.Index, msg.Name, msg.Album, msg.Artist); err != nil {
			m.deps.Logger.Warn("не удалось изменить песню", "error", err)
		}
	}
}

func (m *MainModel) closePlayer() {
	if m.playerModel == nil {
		return
	}
	if err := m.playerModel.Close(); err != nil {
		m.deps.Logger.Warn("ошибка закрытия плеера", "error", err)
	}
	m.playerModel = nil
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case LibraryScreen:
		return m.libraryModel.View()

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	case EditorScreen:
		if m.editorModel != nil {
			return m.editorModel.View()
		}
		return "Ошибка: модель редактора не инициализирована"

	case PickerScreen:
		if m.pickerModel != nil {
			return m.pickerModel.View()
		}
		return "Ошибка: модель выбора файла не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// CurrentScreen возвращает активный экран
func (m *MainModel) CurrentScreen() ScreenType {
	return m.currentScreen
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	m.closePlayer()
}
