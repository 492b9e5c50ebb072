//go:build !linux && !darwin

package ninel

import "io/fs"

func statFS(path string) (FsStat, error) {
	return FsStat{}, errStatfsUnsupported
}

func attrFromInfo(info fs.FileInfo) Attr {
	return genericAttr(info)
}
