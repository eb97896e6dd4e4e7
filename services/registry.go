package services

import (
	"sync"
	"time"
)

// roomHandle serializes every gameplay mutation for one room. Timer
// callbacks (number calls, bot daubs, boss expiry) take the same mutex
// as client actions, so each logical action is one atomic
// read-modify-write over the room's rows.
type roomHandle struct {
	roomID uint
	mu     sync.Mutex

	clientsMu sync.RWMutex
	clients   map[uint]*Client

	timersMu sync.Mutex
	timers   []*time.Timer
}

var (
	handles   = make(map[uint]*roomHandle)
	handlesMu sync.Mutex
)

func handleFor(roomID uint) *roomHandle {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	h, ok := handles[roomID]
	if !ok {
		h = &roomHandle{roomID: roomID, clients: make(map[uint]*Client)}
		handles[roomID] = h
	}
	return h
}

// dropHandle tears a room down: stops its timers and disconnects its
// clients. Called when the last human leaves.
func dropHandle(roomID uint) {
	handlesMu.Lock()
	h, ok := handles[roomID]
	delete(handles, roomID)
	handlesMu.Unlock()
	if !ok {
		return
	}

	h.stopTimers()

	h.clientsMu.Lock()
	for _, c := range h.clients {
		c.Close()
	}
	h.clients = make(map[uint]*Client)
	h.clientsMu.Unlock()
}

// addTimer tracks a scheduled callback so it can be cancelled when the
// round or room ends instead of firing stale.
func (h *roomHandle) addTimer(t *time.Timer) {
	h.timersMu.Lock()
	h.timers = append(h.timers, t)
	h.timersMu.Unlock()
}

func (h *roomHandle) stopTimers() {
	h.timersMu.Lock()
	for _, t := range h.timers {
		t.Stop()
	}
	h.timers = nil
	h.timersMu.Unlock()
}

// callTimers holds the self-rescheduling number-call timer per round,
// keyed by round ID so game end can cancel it outright.
var (
	callTimers   = make(map[uint]*time.Timer)
	callTimersMu sync.Mutex
)

func scheduleCall(roundID, roomID uint, d time.Duration) {
	callTimersMu.Lock()
	defer callTimersMu.Unlock()
	if old, ok := callTimers[roundID]; ok {
		old.Stop()
	}
	callTimers[roundID] = time.AfterFunc(d, func() {
		callNext(roomID, roundID)
	})
}

func cancelCall(roundID uint) {
	callTimersMu.Lock()
	defer callTimersMu.Unlock()
	if t, ok := callTimers[roundID]; ok {
		t.Stop()
		delete(callTimers, roundID)
	}
}
