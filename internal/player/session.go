// Package player содержит логику экрана воспроизведения: один трек за раз,
// переключение по списку, перемотка и автопереход к следующему треку
package player

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazadus/leakplayer/internal/assets"
	"github.com/hazadus/leakplayer/internal/audio"
	"github.com/hazadus/leakplayer/internal/data"
	"github.com/hazadus/leakplayer/internal/nowplaying"
	"github.com/hazadus/leakplayer/internal/remote"
	"github.com/hazadus/leakplayer/internal/schedule"
)

const (
	// DefaultVolume пониженная громкость воспроизведения
	DefaultVolume = 0.2
	// PollInterval период опроса позиции
	PollInterval = time.Second
	// advanceWindow за сколько до конца трека срабатывает переход к следующему
	advanceWindow = time.Second
)

// ErrNoSongs возвращается при создании сессии с пустым списком
var ErrNoSongs = errors.New("список песен пуст")

// State состояние сессии
type State int

const (
	StateIdle State = iota
	StateLoaded
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Options параметры сессии
type Options struct {
	Songs     []data.Song
	Position  int
	Engine    audio.Engine
	Locator   *assets.Locator
	Scheduler schedule.Scheduler   // nil: schedule.Ticker
	Publisher nowplaying.Publisher // nil: ничего не публикуется
	Remote    remote.Source        // nil: внешние команды не принимаются
	Volume    float64              // <= 0: DefaultVolume
	Logger    *slog.Logger
}

// Snapshot состояние для отрисовки экрана
type Snapshot struct {
	Position int
	Count    int
	Song     data.Song
	State    State
	Elapsed  time.Duration
	Duration time.Duration
}

// Playing сообщает, идет ли воспроизведение
func (s Snapshot) Playing() bool {
	return s.State == StatePlaying
}

// Session владеет единственным объектом воспроизведения.
// Все операции сериализованы: опрос и внешние команды приходят из других горутин.
type Session struct {
	mu sync.Mutex

	songs    []data.Song
	position int

	engine    audio.Engine
	locator   *assets.Locator
	scheduler schedule.Scheduler
	publisher nowplaying.Publisher
	remote    remote.Source
	volume    float64
	logger    *slog.Logger

	playback audio.Playback
	state    State
	stopPoll func()
	started  bool
	closed   bool
}

// NewSession создает сессию и активирует аудиовывод. Позиция ограничивается границами списка.
func NewSession(opts Options) (*Session, error) {
	if len(opts.Songs) == 0 {
		return nil, ErrNoSongs
	}
	if opts.Engine == nil {
		return nil, errors.New("не задан аудиодвижок")
	}

	s := &Session{
		songs:     append([]data.Song(nil), opts.Songs...),
		position:  clamp(opts.Position, 0, len(opts.Songs)-1),
		engine:    opts.Engine,
		locator:   opts.Locator,
		scheduler: opts.Scheduler,
		publisher: opts.Publisher,
		remote:    opts.Remote,
		volume:    opts.Volume,
		logger:    opts.Logger,
		state:     StateLoaded,
	}
	if s.locator == nil {
		s.locator = assets.NewLocator("", "")
	}
	if s.scheduler == nil {
		s.scheduler = schedule.NewTicker()
	}
	if s.publisher == nil {
		s.publisher = nowplaying.Discard{}
	}
	if s.volume <= 0 {
		s.volume = DefaultVolume
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if err := s.engine.Activate(); err != nil {
		s.logger.Error("не удалось активировать аудиовывод", "error", err)
	}
	return s, nil
}

// Start загружает трек в текущей позиции и запускает опрос позиции
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return
	}
	s.started = true

	s.load()
	s.publish()
	s.stopPoll = s.scheduler.Every(PollInterval, s.Tick)

	if s.remote != nil {
		go s.listen(s.remote.Events())
	}
}

// TogglePlayPause ставит на паузу или продолжает воспроизведение
func (s *Session) TogglePlayPause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.playback == nil {
		return
	}
	if s.playback.Playing() {
		s.playback.Pause()
	} else {
		s.playback.Play()
	}
	s.syncState()
	s.publish()
}

// Next переходит к следующему треку. На последнем треке позиция не меняется.
func (s *Session) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.move(1)
}

// Previous переходит к предыдущему треку. На первом треке позиция не меняется.
func (s *Session) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.move(-1)
}

// Seek устанавливает позицию воспроизведения в пределах [0, длительность]
func (s *Session) Seek(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.playback == nil {
		return
	}
	d = clampDuration(d, 0, s.playback.Duration())
	if err := s.playback.Seek(d); err != nil {
		s.logger.Warn("не удалось перемотать", "position", d, "error", err)
	}
}

// SeekBy сдвигает позицию на delta
func (s *Session) SeekBy(delta time.Duration) {
	s.mu.Lock()
	if s.closed || s.playback == nil {
		s.mu.Unlock()
		return
	}
	target := s.playback.Position() + delta
	s.mu.Unlock()

	s.Seek(target)
}

// Tick опрашивает позицию и переходит к следующему треку, когда до конца осталось меньше секунды
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.playback == nil {
		return
	}
	duration := s.playback.Duration()
	if duration <= 0 {
		return
	}
	// После последнего трека переходить некуда, сведения о воспроизведении не меняются
	if s.playback.Position() >= duration-advanceWindow && s.position+1 < len(s.songs) {
		s.move(1)
	}
}

// Interrupt обрабатывает начало и окончание внешнего прерывания звука
func (s *Session) Interrupt(ev remote.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interrupt(ev)
}

// HandleRemote выполняет внешнюю команду управления
func (s *Session) HandleRemote(ev remote.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.logger.Debug("внешняя команда", "command", ev.String())

	switch ev.Command {
	case remote.Play:
		s.resume()
	case remote.Pause:
		s.pause()
	case remote.Next:
		s.move(1)
	case remote.Previous:
		s.move(-1)
	case remote.InterruptBegin, remote.InterruptEnd:
		s.interrupt(ev)
	}
}

// Snapshot возвращает текущее состояние
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Position: s.position,
		Count:    len(s.songs),
		Song:     s.songs[s.position],
		State:    s.state,
	}
	if s.playback != nil {
		snap.Elapsed = s.playback.Position()
		snap.Duration = s.playback.Duration()
	}
	return snap
}

// Close останавливает опрос и воспроизведение и освобождает источник внешних команд.
// Повторные вызовы ничего не делают.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true

	if s.stopPoll != nil {
		s.stopPoll()
		s.stopPoll = nil
	}
	s.release()
	s.state = StateIdle
	src := s.remote
	s.mu.Unlock()

	if src != nil {
		if err := src.Close(); err != nil {
			return fmt.Errorf("ошибка закрытия источника команд: %w", err)
		}
	}
	return nil
}

func (s *Session) listen(events <-chan remote.Event) {
	for ev := range events {
		s.HandleRemote(ev)
	}
}

// move сдвигает позицию на step в пределах списка и перезагружает трек
func (s *Session) move(step int) {
	if s.closed {
		return
	}
	target := s.position + step
	if target >= 0 && target < len(s.songs) {
		s.position = target
		s.load()
	}
	s.publish()
}

// load заменяет объект воспроизведения треком в текущей позиции.
// Ошибки только логируются: сессия остается без воспроизведения.
func (s *Session) load() {
	s.release()

	song := s.songs[s.position]
	path, err := s.locator.Resolve(song.TrackName)
	if err != nil {
		s.logger.Warn("трек не найден", "track", song.TrackName, "error", err)
		s.state = StateIdle
		return
	}

	playback, err := s.engine.Open(path)
	if err != nil {
		s.logger.Error("не удалось открыть трек", "path", path, "error", err)
		s.state = StateIdle
		return
	}

	s.playback = playback
	s.state = StateLoaded
	playback.SetVolume(s.volume)
	playback.Play()
	s.syncState()
	s.logger.Info("воспроизведение", "position", s.position, "song", song.Name, "path", path)
}

// release останавливает и освобождает текущий объект воспроизведения
func (s *Session) release() {
	if s.playback == nil {
		return
	}
	s.playback.Stop()
	s.playback = nil
}

func (s *Session) interrupt(ev remote.Event) {
	if s.closed {
		return
	}
	switch ev.Command {
	case remote.InterruptBegin:
		s.pause()
	case remote.InterruptEnd:
		if ev.ShouldResume {
			s.resume()
		}
	}
}

func (s *Session) pause() {
	if s.playback == nil {
		return
	}
	s.playback.Pause()
	s.syncState()
}

func (s *Session) resume() {
	if s.playback == nil {
		return
	}
	s.playback.Play()
	s.syncState()
}

// syncState берет состояние у объекта воспроизведения: доигранный трек не запускается без перемотки
func (s *Session) syncState() {
	if s.playback.Playing() {
		s.state = StatePlaying
	} else {
		s.state = StatePaused
	}
}

// publish отправляет сведения о текущем треке, если он загружен
func (s *Session) publish() {
	if s.playback == nil {
		return
	}
	song := s.songs[s.position]
	info := nowplaying.Info{
		Elapsed:  s.playback.Position(),
		Duration: s.playback.Duration(),
		Title:    song.Name,
		Artist:   song.ArtistName,
	}
	if err := s.publisher.Publish(info); err != nil {
		s.logger.Warn("не удалось обновить сведения о воспроизведении", "error", err)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
