package schedule

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerCallsUntilStopped(t *testing.T) {
	var calls atomic.Int32
	stop := NewTicker().Every(5*time.Millisecond, func() { calls.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("Обратный вызов не срабатывает")
		}
		time.Sleep(time.Millisecond)
	}

	stop()
	stop() // повторный вызов безопасен

	time.Sleep(20 * time.Millisecond)
	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	if calls.Load() != stopped {
		t.Error("После stop обратный вызов не должен срабатывать")
	}
}

func TestManualFiresRegisteredCallbacks(t *testing.T) {
	manual := NewManual()

	var order []string
	stopA := manual.Every(time.Second, func() { order = append(order, "a") })
	manual.Every(time.Second, func() { order = append(order, "b") })

	manual.Fire()
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("Неожиданный порядок вызовов: %v", order)
	}

	stopA()
	if manual.Active() != 1 {
		t.Errorf("Ожидался 1 активный вызов, получено %d", manual.Active())
	}

	order = nil
	manual.Fire()
	if len(order) != 1 || order[0] != "b" {
		t.Errorf("После stop должен срабатывать только b: %v", order)
	}
}

func TestManualAllowsReentrantStop(t *testing.T) {
	manual := NewManual()

	var stop func()
	calls := 0
	stop = manual.Every(time.Second, func() {
		calls++
		stop()
	})

	manual.Fire()
	manual.Fire()
	if calls != 1 {
		t.Errorf("Ожидался 1 вызов, получено %d", calls)
	}
}
