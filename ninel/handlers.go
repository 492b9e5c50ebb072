package ninel

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// replyOverhead is the fixed cost of a Rread reply (header plus count)
// padded to the value clients conventionally subtract; iounit is the
// negotiated msize minus this.
const replyOverhead = 24

// minMsize floors the negotiated msize so iounit stays positive even
// for degenerate proposals.
const minMsize = MIN_MESSAGE_SIZE + replyOverhead

func (s *session) version(m Tversion) {
	msize := m.Msize()
	if limit := uint32(len(s.txn.outMsg)); msize > limit {
		msize = limit
	}
	if msize < minMsize {
		msize = minMsize
	}
	s.msize = msize

	version := VersionUnknown
	if strings.Contains(m.Version(), Version9P2000L) {
		version = Version9P2000L
	}
	s.logger.Debug("Tversion",
		slog.Uint64("msize", uint64(m.Msize())),
		slog.String("version", m.Version()),
		slog.Uint64("reply_msize", uint64(msize)),
		slog.String("reply_version", version))
	s.txn.Rversion(msize, version)
}

func (s *session) attach(m Tattach) {
	// afid, uname, aname and n_uname are accepted unvalidated
	s.logger.Debug("Tattach",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("afid", uint64(m.Afid())),
		slog.String("uname", m.Uname()),
		slog.String("aname", m.Aname()))

	s.fids.bind(m.Fid(), s.root)

	info, err := os.Lstat(s.root)
	if err != nil {
		// pre-attach placeholder; the root is expected to exist
		s.logger.Error("Tattach.stat.failed", slog.String("error", err.Error()))
		info = nil
	}
	s.txn.Rattach(s.qids.QidFor(s.root, info))
}

func (s *session) walk(m Twalk) {
	names := m.Wnames()
	s.logger.Debug("Twalk",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("newfid", uint64(m.NewFid())),
		slog.Any("names", names))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}

	wqids := make([]Qid, 0, len(names))
	for _, name := range names {
		next := filepath.Join(path, name)
		info, err := os.Lstat(next)
		if err != nil {
			break
		}
		path = next
		wqids = append(wqids, s.qids.QidFor(path, info))
	}

	// newfid binds only on a full walk; zero names clones the source fid
	if len(wqids) == len(names) {
		s.fids.bind(m.NewFid(), path)
	}
	s.txn.Rwalk(wqids)
}

func (s *session) getattr(m Tgetattr) {
	s.logger.Debug("Tgetattr",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("mask", m.Mask()))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}
	info, err := os.Lstat(path)
	if err != nil {
		s.txn.Rlerror(ENOENT)
		return
	}
	attr := attrFromInfo(info)
	s.txn.Rgetattr(m.Mask(), s.qids.QidFor(path, info), &attr)
}

func (s *session) statfs(m Tstatfs) {
	s.logger.Debug("Tstatfs", slog.Uint64("fid", uint64(m.Fid())))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}
	st, err := statFS(path)
	if err != nil {
		// availability over fidelity: answer with synthetic numbers
		s.logger.Debug("Tstatfs.fallback", slog.String("error", err.Error()))
		st = FsStat{
			Bsize:   4096,
			Blocks:  1000000,
			Bfree:   500000,
			Bavail:  500000,
			Files:   100000,
			Ffree:   50000,
			Namelen: 255,
		}
	}
	s.txn.Rstatfs(&st)
}

func (s *session) lopen(m Tlopen) {
	s.logger.Debug("Tlopen",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("flags", uint64(m.Flags())))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}
	info, err := os.Lstat(path)
	if err != nil {
		s.txn.Rlerror(ENOENT)
		return
	}
	// flags accepted but not enforced
	s.txn.Rlopen(s.qids.QidFor(path, info), s.msize-replyOverhead)
}

func (s *session) readdir(m Treaddir) {
	s.logger.Debug("Treaddir",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("offset", m.Offset()),
		slog.Uint64("count", uint64(m.Count())))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}
	info, err := os.Lstat(path)
	if err != nil {
		s.txn.Rlerror(ENOENT)
		return
	}
	if !info.IsDir() {
		s.txn.Rlerror(ENOTDIR)
		return
	}

	buf := s.txn.RreaddirBuffer()
	limit := int(m.Count()) - 4
	if limit > len(buf) {
		limit = len(buf)
	}

	n := 0
	entries, err := os.ReadDir(path)
	if err != nil {
		// listing failures degrade to an empty result
		s.logger.Debug("Treaddir.list.failed", slog.String("error", err.Error()))
		entries = nil
	}
	for i, ent := range entries {
		if uint64(i) < m.Offset() {
			continue
		}
		entPath := filepath.Join(path, ent.Name())
		entInfo, err := ent.Info()
		if err != nil {
			// mid-listing failure returns what was collected so far
			s.logger.Debug("Treaddir.stat.failed",
				slog.String("name", ent.Name()), slog.String("error", err.Error()))
			break
		}
		if n+dirEntrySize(ent.Name()) > limit {
			break
		}
		// the offset cookie is the next 0-based listing index
		n += putDirEntry(buf[n:], s.qids.QidFor(entPath, entInfo), uint64(i+1), ent.Name())
	}
	s.txn.Rreaddir(uint32(n))
}

func (s *session) read(m Tread) {
	s.logger.Debug("Tread",
		slog.Uint64("fid", uint64(m.Fid())),
		slog.Uint64("offset", m.Offset()),
		slog.Uint64("count", uint64(m.Count())))

	path, ok := s.fids.resolve(m.Fid())
	if !ok {
		s.txn.Rlerror(ENOENT)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.txn.Rlerror(EINVAL)
		return
	}
	defer f.Close()

	buf := s.txn.RreadBuffer()
	count := int(m.Count())
	if count > len(buf) {
		count = len(buf)
	}
	n, err := f.ReadAt(buf[:count], int64(m.Offset()))
	if err != nil && err != io.EOF {
		s.txn.Rlerror(EINVAL)
		return
	}
	// a short read at end-of-file is a valid result, including zero bytes
	s.txn.Rread(uint32(n))
}

func (s *session) clunk(m Tclunk) {
	s.logger.Debug("Tclunk", slog.Uint64("fid", uint64(m.Fid())))

	// always succeeds, even for a fid that was never bound
	s.fids.release(m.Fid())
	s.txn.Rclunk()
}
