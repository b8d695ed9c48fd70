package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingOwner counts and records rank-change notifications for assertions.
type recordingOwner struct {
	events []Time
}

func (o *recordingOwner) OnResourceEvent(req *ResourceRequest, now Time) {
	o.events = append(o.events, now)
}

func TestResource_AdmitsUpToCapacity(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{3, 2, 1})
	r := NewResource(platform)

	var owners []*recordingOwner
	for i := 0; i < 3; i++ {
		o := &recordingOwner{}
		owners = append(owners, o)
		req := r.Request(Time(i), true, o, 0)
		assert.Equal(t, OnPlatform, req.State())
	}

	assert.Equal(t, 3, r.HolderCount())
	assert.Equal(t, 0, r.WaiterCount())
	for i, h := range r.Holders() {
		assert.Equal(t, i, h.Rank())
		assert.Equal(t, platform.SpeedAt(i), h.Speed())
	}
}

func TestResource_OverCapacityWaits(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{1})
	r := NewResource(platform)

	o1, o2 := &recordingOwner{}, &recordingOwner{}
	req1 := r.Request(1, true, o1, 0)
	req2 := r.Request(2, true, o2, 0)

	assert.Equal(t, OnPlatform, req1.State())
	assert.Equal(t, Ready, req2.State())
	assert.Equal(t, 1, r.HolderCount())
	assert.Equal(t, 1, r.WaiterCount())
}

func TestResource_HigherPriorityEvictsLowest(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{2, 1})
	r := NewResource(platform)

	oLow, oMid, oHigh := &recordingOwner{}, &recordingOwner{}, &recordingOwner{}
	reqLow := r.Request(5, true, oLow, 0)
	reqMid := r.Request(3, true, oMid, 0)
	assert.Equal(t, OnPlatform, reqLow.State())
	assert.Equal(t, OnPlatform, reqMid.State())

	reqHigh := r.Request(1, true, oHigh, 0)
	require.Equal(t, OnPlatform, reqHigh.State())
	assert.Equal(t, 0, reqHigh.Rank())

	// the lowest priority holder (reqLow, priority 5) is evicted
	assert.Equal(t, Preempted, reqLow.State())
	assert.Equal(t, OnPlatform, reqMid.State())
	assert.Equal(t, 1, reqMid.Rank())

	assert.NotEmpty(t, oLow.events)
	assert.NotEmpty(t, oMid.events)
}

func TestResource_EqualKeyTieBrokenByInsertionOrder(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{1})
	r := NewResource(platform)

	first := r.Request(5, true, nil, 0)
	second := r.Request(5, true, nil, 0)

	assert.Equal(t, OnPlatform, first.State())
	assert.Equal(t, Ready, second.State())
}

func TestResource_ReleasePromotesWaiter(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{1})
	r := NewResource(platform)

	oFirst, oSecond := &recordingOwner{}, &recordingOwner{}
	first := r.Request(1, true, oFirst, 0)
	second := r.Request(2, true, oSecond, 0)
	require.Equal(t, Ready, second.State())

	err := r.Release(first, 10)
	require.NoError(t, err)

	assert.Equal(t, OnPlatform, second.State())
	assert.Equal(t, 0, second.Rank())
	assert.Equal(t, 1, r.HolderCount())
	assert.Equal(t, 0, r.WaiterCount())
	assert.Contains(t, oSecond.events, Time(10))
}

func TestResource_ReleaseShiftsLowerHoldersUp(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{3, 2, 1})
	r := NewResource(platform)

	o0, o1, o2 := &recordingOwner{}, &recordingOwner{}, &recordingOwner{}
	req0 := r.Request(0, true, o0, 0)
	req1 := r.Request(1, true, o1, 0)
	req2 := r.Request(2, true, o2, 0)

	require.NoError(t, r.Release(req0, 5))

	assert.Equal(t, 0, req1.Rank())
	assert.Equal(t, 1, req2.Rank())
	assert.Equal(t, platform.SpeedAt(0), req1.Speed())
	assert.Equal(t, platform.SpeedAt(1), req2.Speed())
}

func TestResource_ReleaseOfNonHolderIsProgrammingError(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{1})
	r := NewResource(platform)
	other := NewResource(platform)
	foreignReq := other.Request(1, true, nil, 0)

	err := r.Release(foreignReq, 0)
	require.Error(t, err)
	var pe *ProgrammingError
	assert.ErrorAs(t, err, &pe)
}

func TestResourceRequest_SpeedStates(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{1})
	r := NewResource(platform)

	req1 := r.Request(1, true, nil, 0)
	req2 := r.Request(2, true, nil, 0)

	assert.Equal(t, platform.SpeedAt(0), req1.Speed())
	assert.Equal(t, Time(0), req2.Speed())

	r.Request(0, true, nil, 0) // evicts req1
	assert.Equal(t, NoSpeed, req1.Speed())
}

func TestResource_HoldersStayKeySorted(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{4, 3, 2, 1})
	r := NewResource(platform)

	priorities := []Time{5, 1, 9, 3, 2, 7, 0}
	for _, p := range priorities {
		r.Request(p, true, nil, 0)
	}

	holders := r.Holders()
	for i := 1; i < len(holders); i++ {
		assert.True(t, holders[i-1].Priority <= holders[i].Priority)
	}
	assert.LessOrEqual(t, len(holders), platform.Capacity())
}
