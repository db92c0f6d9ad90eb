package session

import (
	"strings"
	"time"

	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/window/partition"
)

var delimiter = ":"

// Window is the TimedWindow implementation for a Session window.
type Window struct {
	startTime time.Time
	endTime   time.Time
	slot      string
	keys      []string
}

// NewWindow returns a session window of [eventTime, eventTime+gap) for the given keys.
func NewWindow(eventTime time.Time, gap time.Duration, keys []string) window.TimedWindow {
	// TODO: slot should be extracted based on the key once we accept a
	// SlotAssigner from the engine
	return &Window{
		startTime: eventTime,
		endTime:   eventTime.Add(gap),
		slot:      "slot-0",
		keys:      keys,
	}
}

func (w *Window) StartTime() time.Time {
	return w.startTime
}

func (w *Window) EndTime() time.Time {
	return w.endTime
}

func (w *Window) Slot() string {
	return w.slot
}

func (w *Window) Keys() []string {
	return w.keys
}

func (w *Window) Partition() *partition.ID {
	return &partition.ID{
		Start: w.startTime,
		End:   w.endTime,
		Slot:  w.slot,
	}
}

func (w *Window) Merge(tw window.TimedWindow) {
	if w.slot != tw.Slot() {
		panic("cannot merge windows with different slots")
	}
	// expand the start and end to accommodate the new window
	if tw.StartTime().Before(w.startTime) {
		w.startTime = tw.StartTime()
	}

	if tw.EndTime().After(w.endTime) {
		w.endTime = tw.EndTime()
	}
}

func (w *Window) Expand(endTime time.Time) {
	if endTime.After(w.endTime) {
		w.endTime = endTime
	}
}

// Windower tracks the active session windows per key. It assigns events to
// windows and detects the window merges a new event causes. Session windows
// are unaligned, so every key carries its own sorted list of active windows.
type Windower struct {
	gap     time.Duration
	entries map[string]*window.SortedWindowList[window.TimedWindow]
}

func NewWindower(gap time.Duration) *Windower {
	return &Windower{
		gap:     gap,
		entries: make(map[string]*window.SortedWindowList[window.TimedWindow]),
	}
}

// Strategy returns the window strategy.
func (w *Windower) Strategy() window.Strategy {
	return window.Session
}

// AssignWindow assigns the event to a session window. It returns the window
// the event now belongs to, plus the source windows that were replaced in the
// process. A window is replaced when the event extends its end time (the
// expanded window is a new window instance, because the window identity is
// its partition) or when the event bridges the gap between neighboring
// windows. An empty replaced set means the event fell wholly inside an
// existing window.
func (w *Windower) AssignWindow(keys []string, eventTime time.Time) (window.TimedWindow, []window.TimedWindow) {
	combinedKey := strings.Join(keys, delimiter)
	list, ok := w.entries[combinedKey]
	if !ok {
		list = window.NewSortedWindowList[window.TimedWindow]()
		w.entries[combinedKey] = list
	}

	var result window.TimedWindow
	var replaced []window.TimedWindow

	if existing, present := list.FindWindowForTime(eventTime); present {
		if !existing.EndTime().Before(eventTime.Add(w.gap)) {
			// the event extends nothing, the window stays as is
			return existing, nil
		}
		// the event extends the session past the current end, the expanded
		// window replaces the existing one
		result = NewWindow(existing.StartTime(), w.gap, keys)
		result.Expand(eventTime.Add(w.gap))
		list.Delete(existing)
		replaced = append(replaced, existing)
	} else {
		result = NewWindow(eventTime, w.gap, keys)
	}

	// coalesce any neighbors the new/expanded window now overlaps
	for _, other := range list.Items() {
		if overlaps(result, other) {
			result.Merge(other)
			list.Delete(other)
			replaced = append(replaced, other)
		}
	}

	list.InsertIfNotPresent(result)
	return result, replaced
}

// CloseWindows removes and returns the windows that end at or before the
// given watermark time.
func (w *Windower) CloseWindows(t time.Time) []window.TimedWindow {
	closed := make([]window.TimedWindow, 0)
	for _, list := range w.entries {
		closed = append(closed, list.RemoveWindows(t)...)
	}
	return closed
}

func overlaps(a window.TimedWindow, b window.TimedWindow) bool {
	return a.StartTime().Before(b.EndTime()) && b.StartTime().Before(a.EndTime())
}
