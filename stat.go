package arena

import "github.com/bytedance/sonic"

// Stats is a snapshot of an arena's occupancy.
type Stats struct {
	Used         int `json:"used"`
	Capacity     int `json:"capacity"`
	Remaining    int `json:"remaining"`
	PendingFrees int `json:"pending_frees"`
	Committed    int `json:"committed,omitempty"`
	Reserved     int `json:"reserved,omitempty"`
}

// Stats returns a snapshot of the arena.
func (a *MemArena) Stats() Stats {
	return Stats{
		Used:         a.hwm,
		Capacity:     len(a.buf),
		Remaining:    len(a.buf) - a.hwm,
		PendingFrees: len(a.pending),
	}
}

// Stats returns a snapshot of the arena, including how much of the
// reservation is committed.
func (v *VMemArena) Stats() Stats {
	stat := v.MemArena.Stats()
	stat.Committed = len(v.buf)
	stat.Reserved = len(v.reserved)
	return stat
}

// UsedRate returns used capacity as a percentage.
func (s Stats) UsedRate() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Used) / float64(s.Capacity) * 100
}

// JSON returns the snapshot serialized as JSON.
func (s Stats) JSON() ([]byte, error) {
	return sonic.Marshal(s)
}
