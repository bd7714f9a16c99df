// Copyright 2019-2021 hhorai. All rights reserved.
// Use of this source code is governed by a MIT license that can be found
// in the LICENSE file.

package pdcp

import "sort"

// discardEntry is one COUNT's worth of in-flight-PDU bookkeeping (§3).
// cached is only populated for AM DRBs (invariant 5).
type discardEntry struct {
	cached []byte
	timer  Timer
}

// discardMap is an ordered mapping from COUNT to discardEntry (§3, §9:
// "a sorted tree or flat ordered structure with range-erase from the low
// end; insertion order is irrelevant, ascending iteration is required").
// A plain Go map plus an on-demand sorted key scan is sufficient here: the
// in-flight window bounded by discard timers is small relative to the
// COUNT space, and every iteration path (status-report prune, recovery
// walk) already needs to visit every live entry once.
type discardMap struct {
	entries map[uint32]*discardEntry
}

func newDiscardMap() *discardMap {
	return &discardMap{entries: make(map[uint32]*discardEntry)}
}

func (m *discardMap) insert(count uint32, cached []byte, timer Timer) {
	if _, exists := m.entries[count]; exists {
		// Invariant 1 forbids re-emitting a COUNT; a caller hitting
		// this is a TX_NEXT bookkeeping bug.
		panic("pdcp: duplicate discard-map insertion for the same COUNT")
	}
	m.entries[count] = &discardEntry{cached: cached, timer: timer}
}

// erase removes count, stopping its timer first. No-op if absent.
func (m *discardMap) erase(count uint32) {
	e, ok := m.entries[count]
	if !ok {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	delete(m.entries, count)
}

// eraseIfPresent erases count and reports whether it was present.
func (m *discardMap) eraseIfPresent(count uint32) bool {
	if _, ok := m.entries[count]; !ok {
		return false
	}
	m.erase(count)
	return true
}

// eraseBelow removes and returns, for each count < fmc, that count.
func (m *discardMap) eraseBelow(fmc uint32) []uint32 {
	var removed []uint32
	for count := range m.entries {
		if count < fmc {
			removed = append(removed, count)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	for _, count := range removed {
		m.erase(count)
	}
	return removed
}

// ascending returns the live COUNTs in increasing order.
func (m *discardMap) ascending() []uint32 {
	out := make([]uint32, 0, len(m.entries))
	for count := range m.entries {
		out = append(out, count)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *discardMap) len() int {
	return len(m.entries)
}

func (m *discardMap) cachedPDU(count uint32) ([]byte, bool) {
	e, ok := m.entries[count]
	if !ok {
		return nil, false
	}
	return e.cached, true
}

// clear stops every live timer and empties the map (§3: bearer teardown).
func (m *discardMap) clear() {
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	m.entries = make(map[uint32]*discardEntry)
}
