package main

import (
	"fmt"
	"strconv"

	"github.com/hazadus/leakplayer/internal/data"
)

// parseNumber переводит номер песни из вывода list в индекс строки
func parseNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("неверный номер '%s'. Номер должен быть положительным числом", arg)
	}
	return n - 1, nil
}

// songAt применяет запрос и возвращает отображаемую песню по индексу
func (app *Application) songAt(query string, index int) (data.Song, error) {
	app.Library.Search(query)
	songs := app.Library.Visible()
	if index < 0 || index >= len(songs) {
		return data.Song{}, fmt.Errorf("песня с номером %d не найдена", index+1)
	}
	return songs[index], nil
}
