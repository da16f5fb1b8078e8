package library

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hazadus/leakplayer/internal/assets"
	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/prefs"
)

// failingStore хранилище, которое не может ни читать, ни писать
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("диск недоступен")
}

func (failingStore) Set(context.Context, string, []byte) error {
	return errors.New("диск недоступен")
}

func newTestLibrary(t *testing.T, store prefs.Store) (*Library, string) {
	t.Helper()
	docs := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, assets.NewLocator(docs, ""), logger), docs
}

func songNames(songs []data.Song) []string {
	names := make([]string, len(songs))
	for i, s := range songs {
		names[i] = s.Name
	}
	return names
}

func TestLoadFallsBackToSeed(t *testing.T) {
	ctx := context.Background()

	for name, store := range map[string]prefs.Store{
		"empty":   prefs.NewMemoryStore(),
		"failing": failingStore{},
	} {
		lib, _ := newTestLibrary(t, store)
		lib.Load(ctx)
		if got := songNames(lib.Songs()); !reflect.DeepEqual(got, songNames(data.SeedSongs())) {
			t.Errorf("%s: ожидался стартовый список, получено %v", name, got)
		}
	}

	corrupt := prefs.NewMemoryStore()
	_ = corrupt.Set(ctx, SongsKey, []byte("{broken"))
	lib, _ := newTestLibrary(t, corrupt)
	lib.Load(ctx)
	if len(lib.Songs()) != 4 {
		t.Errorf("При поврежденных данных ожидался стартовый список, получено %d песен", len(lib.Songs()))
	}
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()

	lib, _ := newTestLibrary(t, store)
	lib.Load(ctx)
	lib.Add(ctx, data.NewImportedSong("extra.mp3", "Extra", "Album", "Artist"))

	reloaded, _ := newTestLibrary(t, store)
	reloaded.Load(ctx)

	if !reflect.DeepEqual(lib.Songs(), reloaded.Songs()) {
		t.Errorf("Список после перезагрузки отличается:\n%+v\n%+v", lib.Songs(), reloaded.Songs())
	}
	if len(reloaded.Songs()) != 5 {
		t.Errorf("Ожидалось 5 песен, получено %d", len(reloaded.Songs()))
	}
}

func TestSearchIsCaseInsensitiveSubsequence(t *testing.T) {
	lib, _ := newTestLibrary(t, prefs.NewMemoryStore())
	lib.Load(context.Background())

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"Believe Me", "FAYC", "Thought Back", "Watch This"}},
		{"e", []string{"Believe Me"}},
		{"T", []string{"Thought Back", "Watch This"}},
		{"fAyC", []string{"FAYC"}},
		{"zzz", []string{}},
	}

	for _, test := range tests {
		lib.Search(test.query)
		got := songNames(lib.Visible())
		if len(got) == 0 && len(test.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("Search(%q) = %v, ожидалось %v", test.query, got, test.expected)
		}
	}
}

func TestFilterMatchesDefinition(t *testing.T) {
	songs := []data.Song{
		{ID: "1", Name: "Alpha"}, {ID: "2", Name: "beta"}, {ID: "3", Name: "ALPHABET"}, {ID: "4", Name: "Gamma"},
	}

	for _, query := range []string{"a", "AL", "bet", "mm", "x", "Alpha"} {
		var expected []data.Song
		for _, s := range songs {
			if strings.Contains(strings.ToLower(s.Name), strings.ToLower(query)) {
				expected = append(expected, s)
			}
		}
		got := Filter(songs, query)
		if len(got) != len(expected) {
			t.Errorf("Filter(%q): ожидалось %d песен, получено %d", query, len(expected), len(got))
			continue
		}
		for i := range got {
			if got[i].ID != expected[i].ID {
				t.Errorf("Filter(%q): нарушен порядок: %v", query, songNames(got))
			}
		}
	}
}

func TestEditAtChangesOnlyDisplayFields(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	lib, _ := newTestLibrary(t, store)
	lib.Load(ctx)

	before := lib.Songs()[1]
	edited, err := lib.EditAt(ctx, 1, "New Name", "New Album", "New Artist")
	if err != nil {
		t.Fatalf("Ошибка редактирования: %v", err)
	}

	if edited.Name != "New Name" || edited.AlbumName != "New Album" || edited.ArtistName != "New Artist" {
		t.Errorf("Поля не обновлены: %+v", edited)
	}
	if edited.ID != before.ID || edited.ImageName != before.ImageName || edited.TrackName != before.TrackName {
		t.Errorf("Изменены поля, которые не должны меняться: было %+v, стало %+v", before, edited)
	}

	reloaded, _ := newTestLibrary(t, store)
	reloaded.Load(ctx)
	if reloaded.Songs()[1].Name != "New Name" {
		t.Error("Изменение должно быть сохранено")
	}
}

func TestEditAtUsesFilteredIndex(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t, prefs.NewMemoryStore())
	lib.Load(ctx)

	lib.Search("watch")
	if _, err := lib.EditAt(ctx, 0, "Watch That", "A", "B"); err != nil {
		t.Fatalf("Ошибка редактирования: %v", err)
	}

	if lib.Songs()[3].Name != "Watch That" {
		t.Errorf("Должна измениться строка отфильтрованного списка, получено %v", songNames(lib.Songs()))
	}
	if lib.Songs()[0].Name != "Believe Me" {
		t.Error("Первая песня не должна меняться")
	}
}

func TestEditAtOutOfRange(t *testing.T) {
	lib, _ := newTestLibrary(t, prefs.NewMemoryStore())
	lib.Load(context.Background())

	for _, index := range []int{-1, 4} {
		if _, err := lib.EditAt(context.Background(), index, "a", "b", "c"); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Ожидалась ErrIndexOutOfRange для индекса %d, получено %v", index, err)
		}
	}
}

func TestDeleteAtFilteredRemovesByID(t *testing.T) {
	ctx := context.Background()
	lib, docs := newTestLibrary(t, prefs.NewMemoryStore())
	lib.Load(ctx)

	// Две песни с одинаковым названием: удаляться должна именно выбранная
	first := lib.Add(ctx, data.NewImportedSong("dup1.mp3", "Dup", "", ""))
	second := lib.Add(ctx, data.NewImportedSong("dup2.mp3", "Dup", "", ""))
	for _, name := range []string{"dup1.mp3", "dup2.mp3"} {
		if err := os.WriteFile(filepath.Join(docs, name), []byte("audio"), 0644); err != nil {
			t.Fatalf("Ошибка записи файла: %v", err)
		}
	}

	lib.Search("dup")
	if len(lib.Visible()) != 2 {
		t.Fatalf("Ожидалось 2 найденные песни, получено %d", len(lib.Visible()))
	}

	deleted, err := lib.DeleteAt(ctx, 1)
	if err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}
	if deleted.ID != second.ID {
		t.Errorf("Удалена не та песня: %+v", deleted)
	}

	if len(lib.Songs()) != 5 {
		t.Errorf("Из полного списка должна быть удалена ровно одна песня, осталось %d", len(lib.Songs()))
	}
	if visible := lib.Visible(); len(visible) != 1 || visible[0].ID != first.ID {
		t.Errorf("В отфильтрованном списке должна остаться первая песня: %+v", visible)
	}

	if _, err := os.Stat(filepath.Join(docs, "dup2.mp3")); !os.IsNotExist(err) {
		t.Error("Файл удаленной песни должен быть удален")
	}
	if _, err := os.Stat(filepath.Join(docs, "dup1.mp3")); err != nil {
		t.Error("Файл оставшейся песни не должен быть удален")
	}
}

func TestDeleteAtWithoutFile(t *testing.T) {
	ctx := context.Background()
	store := prefs.NewMemoryStore()
	lib, _ := newTestLibrary(t, store)
	lib.Load(ctx)

	// У стартовых песен нет файлов в документах: удаление все равно проходит
	if _, err := lib.DeleteAt(ctx, 0); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}

	reloaded, _ := newTestLibrary(t, store)
	reloaded.Load(ctx)
	if got := songNames(reloaded.Songs()); !reflect.DeepEqual(got, []string{"FAYC", "Thought Back", "Watch This"}) {
		t.Errorf("Неожиданный список после удаления: %v", got)
	}

	if _, err := lib.DeleteAt(ctx, 10); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Ожидалась ErrIndexOutOfRange, получено %v", err)
	}
}

func TestDeleteAtNeverRemovesDirectories(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	docs := filepath.Join(root, "documents")
	if err := os.Mkdir(docs, 0755); err != nil {
		t.Fatalf("Ошибка создания каталога: %v", err)
	}

	lib := New(prefs.NewMemoryStore(), assets.NewLocator(docs, ""), slog.New(slog.NewTextHandler(io.Discard, nil)))
	lib.Load(ctx)
	lib.Add(ctx, data.Song{Name: "Broken", TrackName: ".."})

	if _, err := lib.DeleteAt(ctx, len(lib.Songs())-1); err != nil {
		t.Fatalf("Ошибка удаления: %v", err)
	}
	for _, dir := range []string{docs, root} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Каталог %s не должен удаляться: %v", dir, err)
		}
	}
	if len(lib.Songs()) != 4 {
		t.Errorf("Ожидалось 4 песни после удаления, получено %d", len(lib.Songs()))
	}
}

func TestMutationsSurvivePersistFailure(t *testing.T) {
	ctx := context.Background()
	lib, _ := newTestLibrary(t, failingStore{})
	lib.Load(ctx)

	lib.Add(ctx, data.NewImportedSong("x.mp3", "X", "", ""))
	if len(lib.Songs()) != 5 {
		t.Errorf("Ошибка сохранения не должна отменять изменение, получено %d песен", len(lib.Songs()))
	}
}

func TestVisibleReturnsCopy(t *testing.T) {
	lib, _ := newTestLibrary(t, prefs.NewMemoryStore())
	lib.Load(context.Background())

	visible := lib.Visible()
	visible[0].Name = "Mutated"

	if lib.Songs()[0].Name == "Mutated" {
		t.Error("Visible должен возвращать копию списка")
	}
}
