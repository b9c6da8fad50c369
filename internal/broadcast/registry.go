package broadcast

import (
	"sync"

	"github.com/dronesurvey/dss/internal/model"
)

// Observer receives mission snapshots. Send must not block; false means the
// observer is gone and should be dropped.
type Observer interface {
	GetName() string
	Send(m *model.MissionDTO) bool
}

// Registry keeps the observers of every mission. An observer belongs to one mission at a time.
type Registry struct {
	mx      sync.RWMutex
	buckets map[uint]map[string]Observer
	owner   map[string]uint
}

func NewRegistry() *Registry {
	return &Registry{
		buckets: make(map[uint]map[string]Observer),
		owner:   make(map[string]uint),
	}
}

func (r *Registry) Register(missionID uint, o Observer) {
	r.mx.Lock()
	defer r.mx.Unlock()

	name := o.GetName()

	if prev, ok := r.owner[name]; ok && prev != missionID {
		r.remove(prev, name)
	}

	b, ok := r.buckets[missionID]
	if !ok {
		b = make(map[string]Observer)
		r.buckets[missionID] = b
	}

	b[name] = o
	r.owner[name] = missionID

	observersMetric.Set(float64(len(r.owner)))
}

// Unregister is a no-op when the observer is not registered for missionID.
func (r *Registry) Unregister(missionID uint, o Observer) bool {
	r.mx.Lock()
	defer r.mx.Unlock()

	name := o.GetName()

	if prev, ok := r.owner[name]; !ok || prev != missionID {
		return false
	}

	r.remove(missionID, name)
	observersMetric.Set(float64(len(r.owner)))

	return true
}

func (r *Registry) remove(missionID uint, name string) {
	delete(r.owner, name)

	if b, ok := r.buckets[missionID]; ok {
		delete(b, name)

		if len(b) == 0 {
			delete(r.buckets, missionID)
		}
	}
}

// Observers returns a copy of the observers registered for missionID.
func (r *Registry) Observers(missionID uint) []Observer {
	r.mx.RLock()
	defer r.mx.RUnlock()

	b := r.buckets[missionID]
	res := make([]Observer, 0, len(b))

	for _, o := range b {
		res = append(res, o)
	}

	return res
}

func (r *Registry) Count(missionID uint) int {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return len(r.buckets[missionID])
}

func (r *Registry) Total() int {
	r.mx.RLock()
	defer r.mx.RUnlock()

	return len(r.owner)
}
