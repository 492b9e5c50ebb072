//go:build linux

package ninel

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

func statFS(path string) (FsStat, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FsStat{}, err
	}
	return FsStat{
		Type:    uint32(st.Type),
		Bsize:   uint32(st.Bsize),
		Blocks:  st.Blocks,
		Bfree:   st.Bfree,
		Bavail:  st.Bavail,
		Files:   st.Files,
		Ffree:   st.Ffree,
		Namelen: uint32(st.Namelen),
	}, nil
}

func attrFromInfo(info fs.FileInfo) Attr {
	a := genericAttr(info)
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return a
	}
	a.Mode = st.Mode
	a.Uid = st.Uid
	a.Gid = st.Gid
	a.Nlink = uint64(st.Nlink)
	a.Rdev = st.Rdev
	a.Size = uint64(st.Size)
	a.Blksize = uint64(st.Blksize)
	a.Blocks = uint64(st.Blocks)
	a.AtimeSec = uint64(st.Atim.Sec)
	a.AtimeNsec = uint64(st.Atim.Nsec)
	a.MtimeSec = uint64(st.Mtim.Sec)
	a.MtimeNsec = uint64(st.Mtim.Nsec)
	a.CtimeSec = uint64(st.Ctim.Sec)
	a.CtimeNsec = uint64(st.Ctim.Nsec)
	return a
}
