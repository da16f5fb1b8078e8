package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/metadata"
)

func typeText(m *Model, text string) *Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestAddModelPlaceholders(t *testing.T) {
	model := NewAddModel("track.mp3", metadata.TrackMetadata{Title: "Tagged", Artist: ""})

	if model.inputs[nameField].Placeholder != "Tagged" {
		t.Errorf("Ожидалась подсказка Tagged, получено %s", model.inputs[nameField].Placeholder)
	}
	if model.inputs[artistField].Placeholder != data.UnknownArtist {
		t.Errorf("Ожидалась подсказка %s, получено %s", data.UnknownArtist, model.inputs[artistField].Placeholder)
	}
	if model.inputs[nameField].Value() != "" {
		t.Error("Поля новой песни должны быть пустыми")
	}
}

func TestSubmitNewSong(t *testing.T) {
	model := NewAddModel("track.mp3", metadata.TrackMetadata{})
	model = typeText(model, "My Song")
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = typeText(model, "My Album")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("Ожидалось SubmitMsg, получено %T", cmd())
	}
	if msg.Mode != ModeNew || msg.TrackName != "track.mp3" {
		t.Errorf("Неверный режим или файл: %+v", msg)
	}
	if msg.Name != "My Song" || msg.Album != "My Album" || msg.Artist != "" {
		t.Errorf("Неверные значения: %+v", msg)
	}
}

func TestEditModelPrefilledAndSubmitButton(t *testing.T) {
	song := data.SeedSongs()[1]
	model := NewEditModel(1, song)

	if model.inputs[nameField].Value() != "FAYC" || model.inputs[artistField].Value() != "Lil Uzi Vert" {
		t.Error("Поля должны быть заполнены текущими значениями")
	}

	// Переходим на кнопку и нажимаем Enter
	for i := 0; i < int(numFields); i++ {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg, ok := cmd().(SubmitMsg)
	if !ok {
		t.Fatalf("Ожидалось SubmitMsg, получено %T", cmd())
	}
	if msg.Mode != ModeEdit || msg.Index != 1 || msg.Name != "FAYC" {
		t.Errorf("Неверные значения: %+v", msg)
	}
}

func TestCancel(t *testing.T) {
	model := NewAddModel("cancelled.mp3", metadata.TrackMetadata{})

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msg, ok := cmd().(CancelMsg)
	if !ok || msg.Mode != ModeNew || msg.TrackName != "cancelled.mp3" {
		t.Errorf("Неверное сообщение отмены: %+v", msg)
	}
}
