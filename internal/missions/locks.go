package missions

import "sync"

type missionLock struct {
	sync.Mutex
	refs int
}

// missionLocks serializes work per mission id; entries live only while in use.
type missionLocks struct {
	mx    sync.Mutex
	locks map[uint]*missionLock
}

func newMissionLocks() *missionLocks {
	return &missionLocks{locks: make(map[uint]*missionLock)}
}

func (l *missionLocks) Lock(id uint) func() {
	l.mx.Lock()
	ml, ok := l.locks[id]

	if !ok {
		ml = new(missionLock)
		l.locks[id] = ml
	}

	ml.refs++
	l.mx.Unlock()

	ml.Lock()

	return func() {
		ml.Unlock()

		l.mx.Lock()
		ml.refs--

		if ml.refs == 0 {
			delete(l.locks, id)
		}
		l.mx.Unlock()
	}
}
