package ninel

// fidTable maps client-chosen fids to absolute paths under the served
// root. Each connection owns its own table and requests are handled one
// at a time, so no locking is needed; a concurrent server would guard
// this with a mutex or keep it connection-private.
type fidTable struct {
	paths map[Fid]string
}

func newFidTable() *fidTable {
	return &fidTable{paths: make(map[Fid]string)}
}

func (t *fidTable) bind(f Fid, path string) {
	t.paths[f] = path
}

func (t *fidTable) resolve(f Fid) (path string, ok bool) {
	path, ok = t.paths[f]
	return
}

func (t *fidTable) release(f Fid) {
	delete(t.paths, f)
}
