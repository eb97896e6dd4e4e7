package game

import "time"

// RoomStatus is the explicit room lifecycle state.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// roomTransitions whitelists the legal room moves. A finished room may
// go back to playing (replay / boss battle), never back to waiting.
var roomTransitions = map[RoomStatus][]RoomStatus{
	RoomWaiting:  {RoomPlaying},
	RoomPlaying:  {RoomFinished},
	RoomFinished: {RoomPlaying},
}

// CanTransition reports whether the room may move from s to next.
func (s RoomStatus) CanTransition(next RoomStatus) bool {
	for _, allowed := range roomTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// GameState is the explicit per-round state.
type GameState string

const (
	GameActive   GameState = "active"
	GameFinished GameState = "finished"
)

// CanTransition reports whether the game may move from s to next. A
// finished game is immutable.
func (s GameState) CanTransition(next GameState) bool {
	return s == GameActive && next == GameFinished
}

// Mode selects the calling cadence and win pattern for a room.
type Mode string

const (
	ModeClassic  Mode = "classic"
	ModeSpeed    Mode = "speed"
	ModePattern  Mode = "pattern"
	ModeBlackout Mode = "blackout"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeClassic, ModeSpeed, ModePattern, ModeBlackout:
		return true
	}
	return false
}

// CallInterval is the delay between number calls for the mode.
func (m Mode) CallInterval() time.Duration {
	switch m {
	case ModeSpeed:
		return 1500 * time.Millisecond
	case ModePattern:
		return 2500 * time.Millisecond
	case ModeBlackout:
		return 2000 * time.Millisecond
	default:
		return 3000 * time.Millisecond
	}
}

// PickPattern resolves the win pattern for a round in this mode.
// Pattern mode draws a random named shape per round.
func (m Mode) PickPattern() Pattern {
	switch m {
	case ModeBlackout:
		return PatternBlackout
	case ModePattern:
		return RandomShape()
	default:
		return PatternLine
	}
}
