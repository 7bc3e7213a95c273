package extract

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// pathLocks serializes the existence-check-then-write sequence per output
// path, so two workers racing on the same identity cannot both extract.
type pathLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *pathLocks) lock(path string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	mu := &l.stripes[h.Sum32()%lockStripes]
	mu.Lock()
	return mu
}
