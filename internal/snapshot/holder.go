package snapshot

import "sync"

// Holder хранит актуальный снимок цикла. Замена снимка атомарна:
// запросы, начавшие работу со старым снимком, дочитывают его до конца,
// новые запросы получают свежий.
type Holder struct {
	mu      sync.RWMutex
	current *Snapshot
}

// NewHolder создаёт пустой держатель снимка.
func NewHolder() *Holder {
	return &Holder{}
}

// Set публикует новый снимок цикла.
func (h *Holder) Set(s *Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = s
}

// Current возвращает актуальный снимок или nil, если цикл ещё не выполнялся.
func (h *Holder) Current() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
