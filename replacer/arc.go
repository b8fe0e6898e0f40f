package replacer

import (
	"container/list"
	"sync"
)

// ARC implements the Adaptive Replacement Cache algorithm: four ordered
// lists (T1, T2 resident; B1, B2 ghost) and an adaptive target size p that
// balances recency against frequency based on ghost-list hits.
//
// Each list holds *FrameStatus elements with the MRU end at Back() and the
// LRU end at Front(). alive indexes T1∪T2 by frame_id; ghost indexes
// B1∪B2 by page_id, so a page that was evicted and later reloaded under a
// different frame is still recognized as a ghost hit.
type ARC struct {
	capacity int
	p        int // mru_target_size

	t1, t2, b1, b2 *list.List

	alive map[uint32]*list.Element // frame_id -> element in t1 or t2
	ghost map[uint32]*list.Element // page_id -> element in b1 or b2

	size int

	mu sync.Mutex
}

// NewARC constructs an ARC replacer tracking up to N resident frames (and
// up to N ghost entries per side), p initially 0.
func NewARC(capacity uint32) *ARC {
	return &ARC{
		capacity: int(capacity),
		t1:       list.New(),
		t2:       list.New(),
		b1:       list.New(),
		b2:       list.New(),
		alive:    make(map[uint32]*list.Element),
		ghost:    make(map[uint32]*list.Element),
	}
}

// RecordAccess classifies frameID/pageID into exactly one of four cases:
// resident hit, ghost hit in B1, ghost hit in B2, or a miss.
func (a *ARC) RecordAccess(frameID, pageID uint32) AccessResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if elem, ok := a.alive[frameID]; ok {
		return a.recordResidentHit(elem)
	}

	if elem, ok := a.ghost[pageID]; ok {
		status := elem.Value.(*FrameStatus)
		if status.Region == RegionB1 {
			a.recordGhostHitB1(elem, frameID)
		} else {
			a.recordGhostHitB2(elem, frameID)
		}
		return AccessGhostHit
	}

	a.recordMiss(frameID, pageID)
	return AccessMiss
}

// Case 1: frame_id already resident.
func (a *ARC) recordResidentHit(elem *list.Element) AccessResult {
	status := elem.Value.(*FrameStatus)

	if status.Region == RegionT1 {
		a.t1.Remove(elem)
		status.Region = RegionT2
		a.alive[status.FrameID] = a.t2.PushBack(status)
		return AccessPromoted
	}

	// Already in T2: splice to its MRU end in place.
	a.t2.MoveToBack(elem)
	return AccessResidentHit
}

// Case 2: page_id found in B1. Adapt p upward (favor recency) and promote
// straight to T2.
func (a *ARC) recordGhostHitB1(elem *list.Element, frameID uint32) {
	b1Len, b2Len := a.b1.Len(), a.b2.Len()
	delta := 1
	if b2Len > b1Len {
		delta = b2Len / b1Len
	}
	a.p = min(a.p+delta, a.capacity)

	status := elem.Value.(*FrameStatus)
	a.b1.Remove(elem)
	delete(a.ghost, status.PageID)

	a.admitToT2(frameID, status.PageID)
}

// Case 3: page_id found in B2. Adapt p downward (favor frequency) and
// promote straight to T2.
func (a *ARC) recordGhostHitB2(elem *list.Element, frameID uint32) {
	b1Len, b2Len := a.b1.Len(), a.b2.Len()
	delta := 1
	if b1Len > b2Len {
		delta = b1Len / b2Len
	}
	a.p = max(a.p-delta, 0)

	status := elem.Value.(*FrameStatus)
	a.b2.Remove(elem)
	delete(a.ghost, status.PageID)

	a.admitToT2(frameID, status.PageID)
}

func (a *ARC) admitToT2(frameID, pageID uint32) {
	status := &FrameStatus{PageID: pageID, FrameID: frameID, Evictable: true, Region: RegionT2}
	a.alive[frameID] = a.t2.PushBack(status)
	a.size++
}

// Case 4: miss. Trim ghost history per the case-4a/4b rules, then admit
// to T1.
func (a *ARC) recordMiss(frameID, pageID uint32) {
	n := a.capacity

	if a.t1.Len()+a.b1.Len() == n {
		if a.t1.Len() < n {
			a.popGhostLRU(a.b1)
		} else {
			// T1 is saturated and B1 is empty, so there is nothing in B1
			// to drop. Drop T1's own LRU instead, without recording a
			// ghost: this is bookkeeping trim, not a policy eviction.
			a.popT1LRUNoGhost()
		}
	} else if a.t1.Len()+a.t2.Len()+a.b1.Len()+a.b2.Len() == 2*n {
		a.popGhostLRU(a.b2)
	}

	status := &FrameStatus{PageID: pageID, FrameID: frameID, Evictable: true, Region: RegionT1}
	a.alive[frameID] = a.t1.PushBack(status)
	a.size++
}

// popGhostLRU drops the LRU entry of a ghost list, erasing it from ghost.
func (a *ARC) popGhostLRU(l *list.List) {
	front := l.Front()
	if front == nil {
		return
	}
	status := front.Value.(*FrameStatus)
	l.Remove(front)
	delete(a.ghost, status.PageID)
}

// popT1LRUNoGhost drops T1's LRU entry outright (no ghost recorded),
// preferring the first evictable entry from the LRU end so a pinned
// frame is never silently dropped from the replacer's bookkeeping.
func (a *ARC) popT1LRUNoGhost() {
	for e := a.t1.Front(); e != nil; e = e.Next() {
		status := e.Value.(*FrameStatus)
		if !status.Evictable {
			continue
		}
		a.t1.Remove(e)
		delete(a.alive, status.FrameID)
		a.size--
		return
	}
	// All of T1 is pinned: nothing can be trimmed. The caller's miss
	// admission proceeds anyway, temporarily over capacity by one frame,
	// since blocking admission is not specified and every pinned frame
	// will eventually be unpinned or explicitly removed by its holder.
}

// SetEvictable admits or withdraws frameID from the candidate pool.
func (a *ARC) SetEvictable(frameID uint32, evictable bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	elem, ok := a.alive[frameID]
	if !ok {
		return errUnknownFrame("SetEvictable", frameID)
	}

	status := elem.Value.(*FrameStatus)
	if status.Evictable == evictable {
		return nil
	}

	status.Evictable = evictable
	if evictable {
		a.size++
	} else {
		a.size--
	}
	return nil
}

// Evict prefers T1 when |T1| >= p, otherwise T2; within the chosen list it
// scans from the LRU end for the first evictable entry, falling back to
// the other list if the chosen one yields nothing.
func (a *ARC) Evict() (uint32, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	primary, primaryGhost := a.t2, a.b2
	primaryRegion := RegionB2
	if a.t1.Len() >= a.p {
		primary, primaryGhost = a.t1, a.b1
		primaryRegion = RegionB1
	}

	if f, ok := a.evictFrom(primary, primaryGhost, primaryRegion); ok {
		return f, true
	}

	secondary, secondaryGhost := a.t1, a.b1
	secondaryRegion := RegionB1
	if primary == a.t1 {
		secondary, secondaryGhost = a.t2, a.b2
		secondaryRegion = RegionB2
	}

	return a.evictFrom(secondary, secondaryGhost, secondaryRegion)
}

// evictFrom scans list from its LRU end for the first evictable entry,
// migrating it to ghostList on success.
func (a *ARC) evictFrom(list_ *list.List, ghostList *list.List, ghostRegion Region) (uint32, bool) {
	for e := list_.Front(); e != nil; e = e.Next() {
		status := e.Value.(*FrameStatus)
		if !status.Evictable {
			continue
		}

		list_.Remove(e)
		delete(a.alive, status.FrameID)

		frameID := status.FrameID
		status.Region = ghostRegion
		status.Evictable = false
		a.ghost[status.PageID] = ghostList.PushBack(status)

		a.size--
		return frameID, true
	}
	return 0, false
}

// Remove drops frameID entirely — not a policy eviction, so no ghost
// entry is recorded.
func (a *ARC) Remove(frameID uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	elem, ok := a.alive[frameID]
	if !ok {
		return nil
	}

	status := elem.Value.(*FrameStatus)
	if !status.Evictable {
		return errNonEvictable("Remove", frameID)
	}

	if status.Region == RegionT1 {
		a.t1.Remove(elem)
	} else {
		a.t2.Remove(elem)
	}
	delete(a.alive, frameID)
	a.size--
	return nil
}

// Size returns the number of evictable resident frames.
func (a *ARC) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// ARCStats is a snapshot of ARC's internal state for diagnostics.
type ARCStats struct {
	Capacity int
	T1Size   int
	T2Size   int
	B1Size   int
	B2Size   int
	P        int
}

// Stats returns a snapshot of the replacer's internal state.
func (a *ARC) Stats() ARCStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ARCStats{
		Capacity: a.capacity,
		T1Size:   a.t1.Len(),
		T2Size:   a.t2.Len(),
		B1Size:   a.b1.Len(),
		B2Size:   a.b2.Len(),
		P:        a.p,
	}
}
