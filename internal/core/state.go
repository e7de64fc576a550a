package core

// HistoryState is the serialised form of one room's HistoryBuffer.
type HistoryState struct {
	Buckets  [][]ChatEvent `json:"buckets"`
	ExpireAt int64         `json:"expireAt"`
}

// State is the full snapshot the persistence sink saves at graceful shutdown
// and loads at startup.
type State struct {
	Presence map[string]int          `json:"presence"`
	History  map[string]HistoryState `json:"history"`
}
