// Package replacer implements page replacement policies for a disk-backed
// buffer pool: CLOCK and ARC. A replacer is a pure policy oracle — it never
// performs I/O and never owns page contents, it only decides which frame a
// buffer pool manager should evict next.
package replacer

// Region names the list a resident or ghost entry currently belongs to.
type Region int

const (
	RegionT1 Region = iota // resident, seen once recently
	RegionT2 // resident, seen more than once
	RegionB1 // ghost, evicted from T1
	RegionB2 // ghost, evicted from T2
)

func (r Region) String() string {
	switch r {
	case RegionT1:
		return "T1"
	case RegionT2:
		return "T2"
	case RegionB1:
		return "B1"
	case RegionB2:
		return "B2"
	default:
		return "unknown"
	}
}

// AccessResult classifies what RecordAccess did with a frame/page pair, so
// a caller wiring up Metrics knows which counter to bump without
// re-deriving the classification itself.
type AccessResult int

const (
	// AccessMiss: neither resident nor a remembered ghost. CLOCK reports
	// only this or AccessResidentHit, since it has no ghost history.
	AccessMiss AccessResult = iota
	// AccessResidentHit: already resident (already in T2 for ARC; already
	// tracked for CLOCK).
	AccessResidentHit
	// AccessPromoted: resident hit that moved a frame from T1 to T2
	// (ARC only). Implies a resident hit.
	AccessPromoted
	// AccessGhostHit: page_id found in a ghost list, admitted to T2
	// (ARC only).
	AccessGhostHit
)

// FrameStatus is the bookkeeping record ARC keeps per resident or ghost
// entry. It is conceptually owned by whichever index (alive or ghost)
// currently names it; eviction transfers ownership from alive to ghost by
// mutating the same fields rather than allocating a new record.
type FrameStatus struct {
	PageID    uint32
	FrameID   uint32
	Evictable bool
	Region    Region
}

// Replacer is the contract every page replacement policy implements. All
// operations are safe for concurrent use: each acquires a single exclusive
// lock for its entire duration.
type Replacer interface {
	// RecordAccess marks frameID as most recently used, identified by
	// pageID. For ARC this updates region membership per its case
	// analysis (resident hit, ghost hit in either direction, or miss);
	// for CLOCK it admits the frame if untracked and sets its reference
	// bit. The returned
	// AccessResult classifies which case fired.
	RecordAccess(frameID, pageID uint32) AccessResult

	// SetEvictable admits (true) or withdraws (false) a frame from the
	// candidate pool. No-op if frameID is already in the requested state.
	// Returns a non-nil *ViolationError if frameID is not currently known
	// to the replacer (ARC only; CLOCK ignores out-of-range ids).
	SetEvictable(frameID uint32, evictable bool) error

	// Evict returns a victim frame whose page may be reused, or (0, false)
	// if no evictable candidate exists.
	Evict() (uint32, bool)

	// Remove drops frameID entirely — not a policy eviction. No-op if
	// frameID is unknown. Returns a non-nil *ViolationError if frameID is
	// currently non-evictable (ARC only; CLOCK's Remove never errors).
	Remove(frameID uint32) error

	// Size returns the number of currently evictable frames.
	Size() int
}

// New constructs a replacer for the named algorithm ("clock" or "arc") with
// the given capacity. Unknown algorithm names fall back to ARC, the more
// adaptive of the two policies.
func New(algorithm string, capacity uint32) Replacer {
	switch algorithm {
	case "clock":
		return NewClock(capacity)
	case "arc":
		return NewARC(capacity)
	default:
		return NewARC(capacity)
	}
}
