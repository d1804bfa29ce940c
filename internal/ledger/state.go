package ledger

import "math"

// ComboWindowMs is the gap under which consecutive burns extend a combo.
const ComboWindowMs int64 = 300_000

// Entry is one recorded burn. Value is in human token units.
type Entry struct {
	Name      string  `json:"name" csv:"name"`
	Symbol    string  `json:"symbol" csv:"symbol"`
	Value     float64 `json:"value" csv:"value"`
	Timestamp int64   `json:"timestamp" csv:"timestamp"`
	TxID      string  `json:"txId" csv:"tx_id"`
}

// State is the persisted ledger. BurnHistory is newest first.
type State struct {
	BurnHistory       []Entry `json:"burnHistory"`
	TotalBurned       float64 `json:"totalBurned"`
	ComboMultiplier   float64 `json:"comboMultiplier"`
	LastBurnTimestamp *int64  `json:"lastBurnTimestamp"`
}

// envelope mirrors the persisted layout {"state": ..., "version": 0}.
type envelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

func initialState() State {
	return State{BurnHistory: []Entry{}, ComboMultiplier: 1}
}

// withBurn returns the state after prepending e. The receiver is not
// modified.
func (s State) withBurn(e Entry) State {
	history := make([]Entry, 0, len(s.BurnHistory)+1)
	history = append(history, e)
	history = append(history, s.BurnHistory...)

	multiplier := 1.0
	if s.LastBurnTimestamp != nil && e.Timestamp-*s.LastBurnTimestamp < ComboWindowMs {
		multiplier = math.Round((s.ComboMultiplier+0.1)*10) / 10
	}
	ts := e.Timestamp
	return State{
		BurnHistory:       history,
		TotalBurned:       s.TotalBurned + e.Value,
		ComboMultiplier:   multiplier,
		LastBurnTimestamp: &ts,
	}
}

func (s State) clone() State {
	out := s
	out.BurnHistory = append([]Entry{}, s.BurnHistory...)
	if s.LastBurnTimestamp != nil {
		ts := *s.LastBurnTimestamp
		out.LastBurnTimestamp = &ts
	}
	return out
}

// normalize repairs fields missing from older persisted documents.
func (s State) normalize() State {
	if s.BurnHistory == nil {
		s.BurnHistory = []Entry{}
	}
	if s.ComboMultiplier < 1 {
		s.ComboMultiplier = 1
	}
	return s
}

// unique keeps the first occurrence of each transaction in history order.
// Entries without a transaction id are always kept.
func unique(history []Entry) []Entry {
	seen := make(map[string]struct{}, len(history))
	out := make([]Entry, 0, len(history))
	for _, e := range history {
		if e.TxID != "" {
			if _, ok := seen[e.TxID]; ok {
				continue
			}
			seen[e.TxID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}

// oldestFirstUnique keeps the oldest occurrence per transaction and returns
// the survivors oldest first.
func oldestFirstUnique(history []Entry) []Entry {
	reversed := make([]Entry, len(history))
	for i, e := range history {
		reversed[len(history)-1-i] = e
	}
	return unique(reversed)
}
