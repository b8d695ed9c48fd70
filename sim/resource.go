// The preemptive, speed-ranked processor resource. Not a plain semaphore:
// a holder's speed is speed_list[rank], where rank is its position among
// current holders sorted by priority key, so admitting or releasing one
// request can change the speed of holders that were never themselves
// displaced.

package sim

import "sort"

type requestState int

const (
	// Ready: enqueued in waiters, not yet granted a slot.
	Ready requestState = iota
	// OnPlatform: holds a slot; effective speed is platform.SpeedAt(rank).
	OnPlatform
	// Preempted: was granted then displaced; must Request again to run.
	Preempted
	// released is a terminal, non-exported state for a request the owner
	// voluntarily gave up; it is no longer tracked by the resource at all.
	released
)

func (s requestState) String() string {
	switch s {
	case Ready:
		return "Ready"
	case OnPlatform:
		return "OnPlatform"
	case Preempted:
		return "Preempted"
	default:
		return "Released"
	}
}

// NoSpeed is the sentinel speed for a Preempted request: it holds no
// slot, so it has no rank-derived speed.
const NoSpeed Time = -1

// ResourceOwner receives synchronous rank-change notifications. Job is the
// only production implementation; tests may supply a double to observe
// calls without a real job FSM attached.
type ResourceOwner interface {
	OnResourceEvent(req *ResourceRequest, now Time)
}

// ResourceRequest is the holder/waiter token. Ordering key is
// (Priority, Arrival, ¬Preempt) ascending, lower is stronger: ties at
// equal priority and arrival favor a preemptible request over a
// non-preemptible one so that a later non-preemptible arrival never
// displaces one already queued.
type ResourceRequest struct {
	Priority Time
	Arrival  Time
	Preempt  bool

	resource *Resource
	owner    ResourceOwner
	state    requestState
	rank     int // valid only while state == OnPlatform
}

// State reports the request's current slot state.
func (req *ResourceRequest) State() requestState {
	return req.state
}

// Rank returns the holder's index among current holders (0 = fastest
// core). Meaningful only when State() == OnPlatform.
func (req *ResourceRequest) Rank() int {
	return req.rank
}

// Speed returns the request's effective speed: the rank-derived platform
// speed when OnPlatform, NoSpeed when Preempted, 0 while Ready.
func (req *ResourceRequest) Speed() Time {
	switch req.state {
	case OnPlatform:
		return req.resource.platform.SpeedAt(req.rank)
	case Preempted:
		return NoSpeed
	default:
		return 0
	}
}

// Resource is the shared processor set: two key-sorted slices, holders
// (bounded by capacity) and waiters, partitioning the active requests.
type Resource struct {
	platform PlatformInfo
	capacity int
	holders  []*ResourceRequest
	waiters  []*ResourceRequest
}

// NewResource builds a Resource over the given platform; capacity equals
// the platform's processor count.
func NewResource(platform PlatformInfo) *Resource {
	return &Resource{platform: platform, capacity: platform.Capacity()}
}

// HolderCount and WaiterCount expose queue depth for tests and diagnostics.
func (r *Resource) HolderCount() int { return len(r.holders) }
func (r *Resource) WaiterCount() int { return len(r.waiters) }

// Holders returns a defensive copy of the current holder slice, sorted by
// key ascending (index == rank).
func (r *Resource) Holders() []*ResourceRequest {
	cp := make([]*ResourceRequest, len(r.holders))
	copy(cp, r.holders)
	return cp
}

// Waiters returns a defensive copy of the current waiter slice, sorted by
// key ascending.
func (r *Resource) Waiters() []*ResourceRequest {
	cp := make([]*ResourceRequest, len(r.waiters))
	copy(cp, r.waiters)
	return cp
}

func requestLess(a, b *ResourceRequest) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Arrival != b.Arrival {
		return a.Arrival < b.Arrival
	}
	return notPreemptRank(a.Preempt) < notPreemptRank(b.Preempt)
}

func notPreemptRank(preempt bool) int {
	if preempt {
		return 0
	}
	return 1
}

// upperBound is bisect_right over a key-sorted slice: the first index
// whose element sorts strictly after req, i.e. the insertion point after
// every existing element with an equal key.
func upperBound(list []*ResourceRequest, req *ResourceRequest) int {
	return sort.Search(len(list), func(i int) bool {
		return requestLess(req, list[i])
	})
}

// Request enqueues a new request with key (priority, now, ¬preempt) and
// admits it immediately if there is a free or displaceable slot.
func (r *Resource) Request(priority Time, preempt bool, owner ResourceOwner, now Time) *ResourceRequest {
	req := &ResourceRequest{Priority: priority, Arrival: now, Preempt: preempt, resource: r, owner: owner, state: Ready}

	rank := r.unionInsertionRank(req)
	if rank < r.capacity {
		r.admitHolder(rank, req, now)
	} else {
		r.insertWaiter(req)
	}
	return req
}

// unionInsertionRank computes req's rank among the union of holders and
// waiters (which, by I3, is itself key-sorted as holders followed by
// waiters): bisect within holders first, falling into waiters only if the
// request would not land inside the holder section.
func (r *Resource) unionInsertionRank(req *ResourceRequest) int {
	inHolders := upperBound(r.holders, req)
	if inHolders < len(r.holders) {
		return inHolders
	}
	return len(r.holders) + upperBound(r.waiters, req)
}

func insertAt(list []*ResourceRequest, pos int, req *ResourceRequest) []*ResourceRequest {
	list = append(list, nil)
	copy(list[pos+1:], list[pos:len(list)-1])
	list[pos] = req
	return list
}

func (r *Resource) insertWaiter(req *ResourceRequest) {
	pos := upperBound(r.waiters, req)
	r.waiters = insertAt(r.waiters, pos, req)
}

// admitHolder inserts req as a holder at rank, evicting the
// lowest-priority holder if the resource was already saturated, and
// delivers a rank-change notification to every affected holder plus any
// evicted request.
func (r *Resource) admitHolder(rank int, req *ResourceRequest, now Time) {
	r.holders = insertAt(r.holders, rank, req)
	req.state = OnPlatform

	var evicted *ResourceRequest
	if len(r.holders) > r.capacity {
		evicted = r.holders[len(r.holders)-1]
		r.holders = r.holders[:len(r.holders)-1]
		evicted.state = Preempted
		evicted.rank = -1
	}

	for i := rank; i < len(r.holders); i++ {
		r.holders[i].rank = i
	}
	r.notifyRange(rank, now)

	if evicted != nil && evicted.owner != nil {
		evicted.owner.OnResourceEvent(evicted, now)
	}
}

func (r *Resource) notifyRange(from int, now Time) {
	for i := from; i < len(r.holders); i++ {
		h := r.holders[i]
		if h.owner != nil {
			h.owner.OnResourceEvent(h, now)
		}
	}
}

// Release removes req from holders, shifts lower-ranked holders up by
// one, notifies everyone whose rank changed, then promotes waiters from
// the front into any slots still free. Returns a ProgrammingError if req
// is not currently a holder.
func (r *Resource) Release(req *ResourceRequest, now Time) error {
	idx := -1
	for i, h := range r.holders {
		if h == req {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &ProgrammingError{Msg: "release: request is not a current holder"}
	}

	r.holders = append(r.holders[:idx], r.holders[idx+1:]...)
	req.state = released
	req.rank = -1

	for i := idx; i < len(r.holders); i++ {
		r.holders[i].rank = i
	}
	r.notifyRange(idx, now)

	for len(r.holders) < r.capacity && len(r.waiters) > 0 {
		w := r.waiters[0]
		r.waiters = r.waiters[1:]
		w.state = OnPlatform
		w.rank = len(r.holders)
		r.holders = append(r.holders, w)
		if w.owner != nil {
			w.owner.OnResourceEvent(w, now)
		}
	}
	return nil
}
