package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// demoProcess is a minimal ResourceOwner used only to exercise the
// resource's preemption/rank-change contract directly, without the
// deadline-miss machinery a Job carries.
type demoProcess struct {
	name      string
	priority  Time
	remaining Time

	engine    *Engine
	resource  *Resource
	req       *ResourceRequest
	lastStart Time
	lastSpeed Time
	timeout   *EventHandle

	completedAt Time
	done        bool
}

func (p *demoProcess) start(engine *Engine, resource *Resource) {
	p.engine = engine
	p.resource = resource
	p.req = resource.Request(p.priority, true, p, engine.Now())
}

func (p *demoProcess) OnResourceEvent(req *ResourceRequest, now Time) {
	switch req.State() {
	case OnPlatform:
		p.accumulate(now)
		p.lastStart = now
		p.lastSpeed = req.Speed()
		if p.timeout != nil {
			p.engine.Cancel(p.timeout)
		}
		p.timeout = p.engine.Timeout(p.remaining/p.lastSpeed, p.onTimeout)
	case Preempted:
		p.accumulate(now)
		p.lastSpeed = 0
		if p.timeout != nil {
			p.engine.Cancel(p.timeout)
			p.timeout = nil
		}
		p.req = p.resource.Request(p.priority, true, p, now)
	}
}

func (p *demoProcess) accumulate(now Time) {
	if p.lastSpeed <= 0 {
		return
	}
	p.remaining -= (now - p.lastStart) * p.lastSpeed
}

func (p *demoProcess) onTimeout(engine *Engine) error {
	now := engine.Now()
	p.accumulate(now)
	p.remaining = 0
	p.completedAt = now
	p.done = true
	return p.resource.Release(p.req, now)
}

func TestResource_HeterogeneousPreemptionScenario(t *testing.T) {
	platform := MustNewPlatformInfo([]Time{3, 2, 1})
	engine := NewEngine()
	resource := NewResource(platform)

	p0 := &demoProcess{name: "P0", priority: 1, remaining: 10}
	p1 := &demoProcess{name: "P1", priority: 2, remaining: 20}
	p2 := &demoProcess{name: "P2", priority: 1, remaining: 10}
	p3 := &demoProcess{name: "P3", priority: 0, remaining: 30}

	p0.start(engine, resource)
	p1.start(engine, resource)
	p2.start(engine, resource)
	p3.start(engine, resource)

	require.NoError(t, engine.Run(100))

	require.True(t, p0.done)
	require.True(t, p1.done)
	require.True(t, p2.done)
	require.True(t, p3.done)

	const eps = 1e-9
	assert.InDelta(t, 5.0, p0.completedAt, eps)
	assert.InDelta(t, 7.5, p2.completedAt, eps)
	assert.InDelta(t, 10.0, p3.completedAt, eps)
	assert.InDelta(t, 14.0+1.0/6.0, p1.completedAt, eps)
}
