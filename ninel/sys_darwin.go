//go:build darwin

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
		Type:    st.Type,
		Bsize:   st.Bsize,
		Blocks:  st.Blocks,
		Bfree:   st.Bfree,
		Bavail:  st.Bavail,
		Files:   st.Files,
		Ffree:   st.Ffree,
		Namelen: 255, // not reported by the darwin statfs
	}, nil
}

func attrFromInfo(info fs.FileInfo) Attr {
	a := genericAttr(info)
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return a
	}
	a.Mode = uint32(st.Mode)
	a.Uid = st.Uid
	a.Gid = st.Gid
	a.Nlink = uint64(st.Nlink)
	a.Rdev = uint64(st.Rdev)
	a.Size = uint64(st.Size)
	a.Blksize = uint64(st.Blksize)
	a.Blocks = uint64(st.Blocks)
	a.AtimeSec = uint64(st.Atimespec.Sec)
	a.AtimeNsec = uint64(st.Atimespec.Nsec)
	a.MtimeSec = uint64(st.Mtimespec.Sec)
	a.MtimeNsec = uint64(st.Mtimespec.Nsec)
	a.CtimeSec = uint64(st.Ctimespec.Sec)
	a.CtimeNsec = uint64(st.Ctimespec.Nsec)
	return a
}
