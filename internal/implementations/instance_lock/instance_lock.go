package instancelock

import (
	"medremind/internal/core/domain/reminder"
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex hands out one mutex per reminder and forgets it once nobody holds or waits for it.
type KeyedMutex struct {
	lock    sync.Mutex
	entries map[reminder.ID]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{entries: make(map[reminder.ID]*entry)}
}

func (k *KeyedMutex) Lock(id reminder.ID) (unlock func()) {
	k.lock.Lock()
	ent, ok := k.entries[id]
	if !ok {
		ent = &entry{}
		k.entries[id] = ent
	}
	ent.refs++
	k.lock.Unlock()

	ent.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			ent.mu.Unlock()
			k.lock.Lock()
			ent.refs--
			if ent.refs == 0 {
				delete(k.entries, id)
			}
			k.lock.Unlock()
		})
	}
}

func (k *KeyedMutex) size() int {
	k.lock.Lock()
	defer k.lock.Unlock()
	return len(k.entries)
}
