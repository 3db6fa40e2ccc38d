package task

import "time"

// maxIDProbes bounds the search for a free millisecond slot.
const maxIDProbes = 1 << 16

// NextID returns a task ID derived from the creation time in epoch milliseconds.
// When the slot is taken it probes forward one millisecond at a time, so quick
// successive adds still get distinct, roughly chronological IDs.
func NextID(now time.Time, existsFn func(int64) bool) int64 {
	id := now.UnixMilli()
	for probe := 0; probe < maxIDProbes; probe++ {
		if !existsFn(id) {
			return id
		}
		id++
	}
	// Fallback: a board with 65k tasks created in the same minute is not realistic
	return id
}
