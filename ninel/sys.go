package ninel

import "io/fs"

// Raw st_mode bits, for platforms where the generic fallback has to
// synthesize a mode word from fs.FileMode.
const (
	s_IFDIR = 0o040000
	s_IFREG = 0o100000
	s_IFLNK = 0o120000
)

// genericAttr fills the fields every platform can supply from a plain
// fs.FileInfo. attrFromInfo overlays the raw stat fields where the OS
// exposes them.
func genericAttr(info fs.FileInfo) Attr {
	mode := info.Mode()
	var typ uint32
	switch {
	case mode.IsDir():
		typ = s_IFDIR
	case mode&fs.ModeSymlink != 0:
		typ = s_IFLNK
	default:
		typ = s_IFREG
	}
	mtime := info.ModTime()
	return Attr{
		Mode:      typ | uint32(mode.Perm()),
		Nlink:     1,
		Size:      uint64(info.Size()),
		Blksize:   4096,
		MtimeSec:  uint64(mtime.Unix()),
		MtimeNsec: uint64(mtime.Nanosecond()),
	}
}
