package ninel

import (
	"hash/fnv"
	"io/fs"

	lru "github.com/hashicorp/golang-lru/v2"
)

// QidPool derives the 64-bit qid path field from an absolute filesystem
// path. The id is an FNV-1a hash of the path string, so it is stable
// for the process lifetime (and across processes); the cache only
// avoids rehashing hot paths. Collisions across the served tree are
// possible but not expected for a test fixture; a production server
// would use the device/inode pair instead.
type QidPool struct {
	ids *lru.Cache[string, uint64]
}

const defaultQidCacheSize = 1024

func NewQidPool() *QidPool {
	ids, err := lru.New[string, uint64](defaultQidCacheSize)
	if err != nil {
		panic(err)
	}
	return &QidPool{ids: ids}
}

// PathID returns the qid path field for an absolute path.
func (p *QidPool) PathID(path string) uint64 {
	if id, ok := p.ids.Get(path); ok {
		return id
	}
	h := fnv.New64a()
	h.Write([]byte(path))
	id := h.Sum64()
	p.ids.Add(path, id)
	return id
}

// QidFor derives the qid for path from a metadata snapshot. A nil info
// yields a directory-type, version-0 placeholder; callers should prefer
// supplying metadata when they have it.
func (p *QidPool) QidFor(path string, info fs.FileInfo) Qid {
	q := NewQid()
	if info == nil {
		return q.Fill(QT_DIR, 0, p.PathID(path))
	}
	return q.Fill(qidTypeOf(info.Mode()), uint32(info.ModTime().Unix()), p.PathID(path))
}

// qidTypeOf collapses a file mode onto the three qid types this server
// exposes. Sockets, devices and fifos read as regular files.
func qidTypeOf(mode fs.FileMode) QidType {
	switch {
	case mode.IsDir():
		return QT_DIR
	case mode&fs.ModeSymlink != 0:
		return QT_SYMLINK
	}
	return QT_FILE
}
