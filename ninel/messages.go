// Package ninel implements the server side of the 9P2000.L protocol
// over a local directory tree.
//
// Messages are views over a preallocated transaction buffer: each wire
// message is a named []byte type whose accessors read fields at their
// fixed little-endian offsets, and whose fill method lays the message
// out in place. This keeps the hot path allocation-free and makes the
// wire layout the single source of truth.
package ninel

import (
	"encoding/binary"
	"fmt"
	"math"
)

var bo = binary.LittleEndian

const (
	// Version9P2000L is the only protocol version this server speaks.
	Version9P2000L = "9P2000.L"

	// VersionUnknown is the sentinel returned for any other proposal.
	VersionUnknown = "unknown"

	NO_TAG Tag = ^Tag(0)
	NO_FID Fid = ^Fid(0)

	// MAX_MESSAGE_SIZE caps negotiated msize.
	MAX_MESSAGE_SIZE = uint32(8192)

	// MIN_MESSAGE_SIZE is the smallest frame we accept: size[4] type[1] tag[2].
	MIN_MESSAGE_SIZE = uint32(7)
)

type MsgType byte

// 9P2000.L numbering. Types without a decoder below are recognized but
// declined with Rlerror(EINVAL).
const (
	msgRlerror   MsgType = 7
	msgTstatfs   MsgType = 8  // size[4] Tstatfs tag[2] fid[4]
	msgRstatfs   MsgType = 9  // size[4] Rstatfs tag[2] type[4] bsize[4] blocks[8] bfree[8] bavail[8] files[8] ffree[8] fsid[8] namelen[4]
	msgTlopen    MsgType = 12 // size[4] Tlopen tag[2] fid[4] flags[4]
	msgRlopen    MsgType = 13 // size[4] Rlopen tag[2] qid[13] iounit[4]
	msgTlcreate  MsgType = 14
	msgRlcreate  MsgType = 15
	msgTreadlink MsgType = 22
	msgRreadlink MsgType = 23
	msgTgetattr  MsgType = 24 // size[4] Tgetattr tag[2] fid[4] request_mask[8]
	msgRgetattr  MsgType = 25 // size[4] Rgetattr tag[2] valid[8] qid[13] mode[4] uid[4] gid[4] nlink[8] rdev[8] size[8] blksize[8] blocks[8] atime_sec[8] atime_nsec[8] mtime_sec[8] mtime_nsec[8] ctime_sec[8] ctime_nsec[8] btime_sec[8] btime_nsec[8] gen[8] data_version[8]
	msgTsetattr  MsgType = 26
	msgRsetattr  MsgType = 27
	msgTreaddir  MsgType = 40 // size[4] Treaddir tag[2] fid[4] offset[8] count[4]
	msgRreaddir  MsgType = 41 // size[4] Rreaddir tag[2] count[4] count*(qid[13] offset[8] type[1] name[s])
	msgTfsync    MsgType = 50
	msgRfsync    MsgType = 51
	msgTmkdir    MsgType = 72
	msgRmkdir    MsgType = 73
	msgTrenameat MsgType = 74
	msgRrenameat MsgType = 75
	msgTunlinkat MsgType = 76
	msgRunlinkat MsgType = 77
	msgTversion  MsgType = 100 // size[4] Tversion tag[2] msize[4] version[s]
	msgRversion  MsgType = 101 // size[4] Rversion tag[2] msize[4] version[s]
	msgTauth     MsgType = 102
	msgRauth     MsgType = 103
	msgTattach   MsgType = 104 // size[4] Tattach tag[2] fid[4] afid[4] uname[s] aname[s] n_uname[4]
	msgRattach   MsgType = 105 // size[4] Rattach tag[2] qid[13]
	msgTwalk     MsgType = 110 // size[4] Twalk tag[2] fid[4] newfid[4] nwname[2] nwname*(wname[s])
	msgRwalk     MsgType = 111 // size[4] Rwalk tag[2] nwqid[2] nwqid*(wqid[13])
	msgTread     MsgType = 116 // size[4] Tread tag[2] fid[4] offset[8] count[4]
	msgRread     MsgType = 117 // size[4] Rread tag[2] count[4] data[count]
	msgTwrite    MsgType = 118
	msgRwrite    MsgType = 119
	msgTclunk    MsgType = 120 // size[4] Tclunk tag[2] fid[4]
	msgRclunk    MsgType = 121 // size[4] Rclunk tag[2]
	msgTremove   MsgType = 122
	msgRremove   MsgType = 123
)

func (t MsgType) String() string {
	switch t {
	case msgRlerror:
		return "Rlerror"
	case msgTstatfs:
		return "Tstatfs"
	case msgRstatfs:
		return "Rstatfs"
	case msgTlopen:
		return "Tlopen"
	case msgRlopen:
		return "Rlopen"
	case msgTlcreate:
		return "Tlcreate"
	case msgTreadlink:
		return "Treadlink"
	case msgTgetattr:
		return "Tgetattr"
	case msgRgetattr:
		return "Rgetattr"
	case msgTsetattr:
		return "Tsetattr"
	case msgTreaddir:
		return "Treaddir"
	case msgRreaddir:
		return "Rreaddir"
	case msgTfsync:
		return "Tfsync"
	case msgTmkdir:
		return "Tmkdir"
	case msgTrenameat:
		return "Trenameat"
	case msgTunlinkat:
		return "Tunlinkat"
	case msgTversion:
		return "Tversion"
	case msgRversion:
		return "Rversion"
	case msgTauth:
		return "Tauth"
	case msgTattach:
		return "Tattach"
	case msgRattach:
		return "Rattach"
	case msgTwalk:
		return "Twalk"
	case msgRwalk:
		return "Rwalk"
	case msgTread:
		return "Tread"
	case msgRread:
		return "Rread"
	case msgTwrite:
		return "Twrite"
	case msgTclunk:
		return "Tclunk"
	case msgRclunk:
		return "Rclunk"
	case msgTremove:
		return "Tremove"
	}
	return fmt.Sprintf("MsgType(%d)", byte(t))
}

/////////////////////////////////////

type Tag uint16

type Fid uint32

func (f Fid) String() string { return fmt.Sprintf("Fid(%d)", uint32(f)) }

/////////////////////////////////////

type Message interface {
	Tag() Tag
	Bytes() []byte
}

// MsgBase is the common size[4] type[1] tag[2] header every message starts with.
type MsgBase []byte

func (r MsgBase) fill(mt MsgType, t Tag, size uint32) {
	bo.PutUint32(r[:4], size)
	r[4] = byte(mt)
	bo.PutUint16(r[5:7], uint16(t))
}

func (r MsgBase) Bytes() []byte { return r[:int(r.Size())] }
func (r MsgBase) Size() uint32  { return bo.Uint32(r[:4]) }
func (r MsgBase) Type() MsgType { return MsgType(r[4]) }
func (r MsgBase) Tag() Tag      { return Tag(bo.Uint16(r[5:7])) }

const msgOffset = 7

/////////////////////////////////////

// msgString is a u16 byte length followed by that many UTF-8 bytes.
// The declared length is untrusted: accessors never read past the end
// of the view, so a string truncated by a short or lying frame decodes
// as empty instead of panicking.
type msgString []byte

const maxStringLen = math.MaxUint16

func (s msgString) Len() int {
	if len(s) < 2 {
		return 0
	}
	return int(bo.Uint16(s[0:2]))
}

func (s msgString) Bytes() []byte {
	if n := s.Len(); len(s) >= 2 && n+2 <= len(s) {
		return s[2 : n+2]
	}
	return nil
}

func (s msgString) String() string {
	return string(s.Bytes())
}

func (s msgString) SetStringAndLen(v string) int {
	if len(v) > maxStringLen {
		panic(fmt.Errorf("string too large for wire format (%d > %d)", len(v), maxStringLen))
	}
	bo.PutUint16(s[0:2], uint16(len(v)))
	copy(s[2:len(v)+2], v)
	return 2 + len(v)
}

// Nbytes is the encoded size of the string, clamped to the view so a
// lying length cannot push a following-field offset out of bounds.
func (s msgString) Nbytes() int {
	if n := s.Len() + 2; len(s) >= 2 && n <= len(s) {
		return n
	}
	return len(s)
}

/////////////////////////////////////

type QidType byte

const (
	QT_FILE    QidType = 0x00
	QT_SYMLINK QidType = 0x02
	QT_DIR     QidType = 0x80
)

func (qt QidType) IsDir() bool     { return qt&QT_DIR != 0 }
func (qt QidType) IsSymlink() bool { return qt&QT_SYMLINK != 0 }

func (qt QidType) String() string {
	switch qt {
	case QT_FILE:
		return "QT_FILE"
	case QT_SYMLINK:
		return "QT_SYMLINK"
	case QT_DIR:
		return "QT_DIR"
	}
	return fmt.Sprintf("QidType(%#x)", byte(qt))
}

const QidSize = 13

// Qid is the wire form of a file identity: type[1] version[4] path[8].
type Qid []byte

func NewQid() Qid { return Qid(make([]byte, QidSize)) }

func (q Qid) Fill(t QidType, version uint32, path uint64) Qid {
	q[0] = byte(t)
	bo.PutUint32(q[1:5], version)
	bo.PutUint64(q[5:13], path)
	return q
}

func (q Qid) Bytes() []byte   { return q[:QidSize] }
func (q Qid) Type() QidType   { return QidType(q[0]) }
func (q Qid) Version() uint32 { return bo.Uint32(q[1:5]) }
func (q Qid) Path() uint64    { return bo.Uint64(q[5:13]) }

func (q Qid) String() string {
	return fmt.Sprintf("Qid{type: %s, version: %d, path: %d}", q.Type(), q.Version(), q.Path())
}

/////////////////////////////////////
// size[4] Tversion tag[2] msize[4] version[s]
type Tversion []byte

func (r Tversion) fill(t Tag, msize uint32, version string) {
	size := uint32(msgOffset + 4 + 2 + len(version))
	MsgBase(r).fill(msgTversion, t, size)
	bo.PutUint32(r[msgOffset:msgOffset+4], msize)
	msgString(r[msgOffset+4:]).SetStringAndLen(version)
}

func (r Tversion) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tversion) Size() uint32  { return MsgBase(r).Size() }
func (r Tversion) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tversion) Msize() uint32 { return bo.Uint32(r[msgOffset : msgOffset+4]) }

func (r Tversion) version() msgString { return msgString(r[msgOffset+4:]) }
func (r Tversion) Version() string    { return r.version().String() }

/////////////////////////////////////
// size[4] Rversion tag[2] msize[4] version[s]
type Rversion []byte

func (r Rversion) fill(t Tag, msize uint32, version string) {
	size := uint32(msgOffset + 4 + 2 + len(version))
	MsgBase(r).fill(msgRversion, t, size)
	bo.PutUint32(r[msgOffset:msgOffset+4], msize)
	msgString(r[msgOffset+4:]).SetStringAndLen(version)
}

func (r Rversion) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rversion) Size() uint32  { return MsgBase(r).Size() }
func (r Rversion) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rversion) Msize() uint32 { return bo.Uint32(r[msgOffset : msgOffset+4]) }

func (r Rversion) version() msgString { return msgString(r[msgOffset+4:]) }
func (r Rversion) Version() string    { return r.version().String() }

/////////////////////////////////////
// size[4] Rlerror tag[2] ecode[4]
type Rlerror []byte

func (r Rlerror) fill(t Tag, errno Errno) {
	MsgBase(r).fill(msgRlerror, t, uint32(msgOffset+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(errno))
}

func (r Rlerror) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rlerror) Size() uint32  { return MsgBase(r).Size() }
func (r Rlerror) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rlerror) Errno() Errno  { return Errno(bo.Uint32(r[msgOffset : msgOffset+4])) }

/////////////////////////////////////
// size[4] Tattach tag[2] fid[4] afid[4] uname[s] aname[s] n_uname[4]
type Tattach []byte

func (r Tattach) fill(t Tag, fid, afid Fid, uname, aname string, nuname uint32) {
	size := uint32(msgOffset + 4 + 4 + 2 + len(uname) + 2 + len(aname) + 4)
	MsgBase(r).fill(msgTattach, t, size)
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint32(r[msgOffset+4:msgOffset+8], uint32(afid))
	off := msgOffset + 8
	off += msgString(r[off:]).SetStringAndLen(uname)
	off += msgString(r[off:]).SetStringAndLen(aname)
	bo.PutUint32(r[off:off+4], nuname)
}

func (r Tattach) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tattach) Size() uint32  { return MsgBase(r).Size() }
func (r Tattach) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tattach) Fid() Fid      { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Tattach) Afid() Fid     { return Fid(bo.Uint32(r[msgOffset+4 : msgOffset+8])) }

func (r Tattach) uname() msgString { return msgString(r[msgOffset+8:]) }
func (r Tattach) Uname() string    { return r.uname().String() }

func (r Tattach) aname() msgString { return msgString(r[msgOffset+8+r.uname().Nbytes():]) }
func (r Tattach) Aname() string    { return r.aname().String() }

func (r Tattach) NUname() uint32 {
	o := msgOffset + 8 + r.uname().Nbytes() + r.aname().Nbytes()
	if o+4 > int(r.Size()) {
		// pre-.L clients omit n_uname
		return 0
	}
	return bo.Uint32(r[o : o+4])
}

/////////////////////////////////////
// size[4] Rattach tag[2] qid[13]
type Rattach []byte

func (r Rattach) fill(t Tag, qid Qid) {
	MsgBase(r).fill(msgRattach, t, uint32(msgOffset+QidSize))
	copy(r[msgOffset:msgOffset+QidSize], qid.Bytes())
}

func (r Rattach) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rattach) Size() uint32  { return MsgBase(r).Size() }
func (r Rattach) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rattach) Qid() Qid      { return Qid(r[msgOffset : msgOffset+QidSize]) }

/////////////////////////////////////
// size[4] Twalk tag[2] fid[4] newfid[4] nwname[2] nwname*(wname[s])
type Twalk []byte

func (r Twalk) fill(t Tag, fid, newfid Fid, wnames []string) {
	size := uint32(msgOffset + 4 + 4 + 2)
	for _, n := range wnames {
		size += uint32(2 + len(n))
	}
	MsgBase(r).fill(msgTwalk, t, size)
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint32(r[msgOffset+4:msgOffset+8], uint32(newfid))
	bo.PutUint16(r[msgOffset+8:msgOffset+10], uint16(len(wnames)))
	off := msgOffset + 10
	for _, n := range wnames {
		off += msgString(r[off:]).SetStringAndLen(n)
	}
}

func (r Twalk) Bytes() []byte    { return MsgBase(r).Bytes() }
func (r Twalk) Size() uint32     { return MsgBase(r).Size() }
func (r Twalk) Tag() Tag         { return MsgBase(r).Tag() }
func (r Twalk) Fid() Fid         { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Twalk) NewFid() Fid      { return Fid(bo.Uint32(r[msgOffset+4 : msgOffset+8])) }
func (r Twalk) NumWname() uint16 { return bo.Uint16(r[msgOffset+8 : msgOffset+10]) }

func (r Twalk) Wnames() []string {
	names := make([]string, 0, int(r.NumWname()))
	off := msgOffset + 10
	for j, size := 0, int(r.NumWname()); j < size; j++ {
		mstr := msgString(r[off:])
		names = append(names, mstr.String())
		off += mstr.Nbytes()
	}
	return names
}

/////////////////////////////////////
// size[4] Rwalk tag[2] nwqid[2] nwqid*(wqid[13])
type Rwalk []byte

func (r Rwalk) fill(t Tag, wqids []Qid) {
	size := uint32(msgOffset + 2 + len(wqids)*QidSize)
	MsgBase(r).fill(msgRwalk, t, size)
	bo.PutUint16(r[msgOffset:msgOffset+2], uint16(len(wqids)))
	off := msgOffset + 2
	for i, wqid := range wqids {
		o := off + i*QidSize
		copy(r[o:o+QidSize], wqid.Bytes())
	}
}

func (r Rwalk) Bytes() []byte   { return MsgBase(r).Bytes() }
func (r Rwalk) Size() uint32    { return MsgBase(r).Size() }
func (r Rwalk) Tag() Tag        { return MsgBase(r).Tag() }
func (r Rwalk) NumWqid() uint16 { return bo.Uint16(r[msgOffset : msgOffset+2]) }
func (r Rwalk) Wqid(i int) Qid {
	off := msgOffset + 2 + i*QidSize
	return Qid(r[off : off+QidSize])
}

/////////////////////////////////////
// size[4] Tgetattr tag[2] fid[4] request_mask[8]
type Tgetattr []byte

func (r Tgetattr) fill(t Tag, fid Fid, mask uint64) {
	MsgBase(r).fill(msgTgetattr, t, uint32(msgOffset+4+8))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint64(r[msgOffset+4:msgOffset+12], mask)
}

func (r Tgetattr) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tgetattr) Size() uint32  { return MsgBase(r).Size() }
func (r Tgetattr) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tgetattr) Fid() Fid      { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Tgetattr) Mask() uint64  { return bo.Uint64(r[msgOffset+4 : msgOffset+12]) }

/////////////////////////////////////

// Attr holds the Rgetattr stat fields in decoded form. Fields the
// platform cannot supply stay zero.
type Attr struct {
	Mode  uint32
	Uid   uint32
	Gid   uint32
	Nlink uint64
	Rdev  uint64
	Size  uint64

	Blksize uint64
	Blocks  uint64

	AtimeSec  uint64
	AtimeNsec uint64
	MtimeSec  uint64
	MtimeNsec uint64
	CtimeSec  uint64
	CtimeNsec uint64

	// Not representable on any supported platform; always zero on the wire.
	BtimeSec    uint64
	BtimeNsec   uint64
	Gen         uint64
	DataVersion uint64
}

// size[4] Rgetattr tag[2] valid[8] qid[13] mode[4] uid[4] gid[4]
// nlink[8] rdev[8] size[8] blksize[8] blocks[8] + 10 u64 time fields
type Rgetattr []byte

const rgetattrPayload = 8 + QidSize + 3*4 + 5*8 + 10*8

func (r Rgetattr) fill(t Tag, valid uint64, qid Qid, a *Attr) {
	MsgBase(r).fill(msgRgetattr, t, uint32(msgOffset+rgetattrPayload))
	bo.PutUint64(r[msgOffset:msgOffset+8], valid)
	copy(r[msgOffset+8:msgOffset+8+QidSize], qid.Bytes())
	o := msgOffset + 8 + QidSize
	bo.PutUint32(r[o:o+4], a.Mode)
	bo.PutUint32(r[o+4:o+8], a.Uid)
	bo.PutUint32(r[o+8:o+12], a.Gid)
	o += 12
	for _, v := range [...]uint64{
		a.Nlink, a.Rdev, a.Size, a.Blksize, a.Blocks,
		a.AtimeSec, a.AtimeNsec, a.MtimeSec, a.MtimeNsec,
		a.CtimeSec, a.CtimeNsec, a.BtimeSec, a.BtimeNsec,
		a.Gen, a.DataVersion,
	} {
		bo.PutUint64(r[o:o+8], v)
		o += 8
	}
}

func (r Rgetattr) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rgetattr) Size() uint32  { return MsgBase(r).Size() }
func (r Rgetattr) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rgetattr) Valid() uint64 { return bo.Uint64(r[msgOffset : msgOffset+8]) }
func (r Rgetattr) Qid() Qid      { return Qid(r[msgOffset+8 : msgOffset+8+QidSize]) }

func (r Rgetattr) Attr() Attr {
	o := msgOffset + 8 + QidSize
	a := Attr{
		Mode: bo.Uint32(r[o : o+4]),
		Uid:  bo.Uint32(r[o+4 : o+8]),
		Gid:  bo.Uint32(r[o+8 : o+12]),
	}
	o += 12
	for _, p := range [...]*uint64{
		&a.Nlink, &a.Rdev, &a.Size, &a.Blksize, &a.Blocks,
		&a.AtimeSec, &a.AtimeNsec, &a.MtimeSec, &a.MtimeNsec,
		&a.CtimeSec, &a.CtimeNsec, &a.BtimeSec, &a.BtimeNsec,
		&a.Gen, &a.DataVersion,
	} {
		*p = bo.Uint64(r[o : o+8])
		o += 8
	}
	return a
}

/////////////////////////////////////
// size[4] Tstatfs tag[2] fid[4]
type Tstatfs []byte

func (r Tstatfs) fill(t Tag, fid Fid) {
	MsgBase(r).fill(msgTstatfs, t, uint32(msgOffset+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
}

func (r Tstatfs) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tstatfs) Size() uint32  { return MsgBase(r).Size() }
func (r Tstatfs) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tstatfs) Fid() Fid      { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }

/////////////////////////////////////

// FsStat holds Rstatfs fields in decoded form.
type FsStat struct {
	Type    uint32
	Bsize   uint32
	Blocks  uint64
	Bfree   uint64
	Bavail  uint64
	Files   uint64
	Ffree   uint64
	Fsid    uint64
	Namelen uint32
}

// size[4] Rstatfs tag[2] type[4] bsize[4] blocks[8] bfree[8] bavail[8]
// files[8] ffree[8] fsid[8] namelen[4]
type Rstatfs []byte

const rstatfsPayload = 4 + 4 + 6*8 + 4

func (r Rstatfs) fill(t Tag, s *FsStat) {
	MsgBase(r).fill(msgRstatfs, t, uint32(msgOffset+rstatfsPayload))
	o := msgOffset
	bo.PutUint32(r[o:o+4], s.Type)
	bo.PutUint32(r[o+4:o+8], s.Bsize)
	o += 8
	for _, v := range [...]uint64{s.Blocks, s.Bfree, s.Bavail, s.Files, s.Ffree, s.Fsid} {
		bo.PutUint64(r[o:o+8], v)
		o += 8
	}
	bo.PutUint32(r[o:o+4], s.Namelen)
}

func (r Rstatfs) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rstatfs) Size() uint32  { return MsgBase(r).Size() }
func (r Rstatfs) Tag() Tag      { return MsgBase(r).Tag() }

func (r Rstatfs) FsStat() FsStat {
	o := msgOffset
	s := FsStat{
		Type:  bo.Uint32(r[o : o+4]),
		Bsize: bo.Uint32(r[o+4 : o+8]),
	}
	o += 8
	for _, p := range [...]*uint64{&s.Blocks, &s.Bfree, &s.Bavail, &s.Files, &s.Ffree, &s.Fsid} {
		*p = bo.Uint64(r[o : o+8])
		o += 8
	}
	s.Namelen = bo.Uint32(r[o : o+4])
	return s
}

/////////////////////////////////////
// size[4] Tlopen tag[2] fid[4] flags[4]
type Tlopen []byte

func (r Tlopen) fill(t Tag, fid Fid, flags uint32) {
	MsgBase(r).fill(msgTlopen, t, uint32(msgOffset+4+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint32(r[msgOffset+4:msgOffset+8], flags)
}

func (r Tlopen) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tlopen) Size() uint32  { return MsgBase(r).Size() }
func (r Tlopen) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tlopen) Fid() Fid      { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Tlopen) Flags() uint32 { return bo.Uint32(r[msgOffset+4 : msgOffset+8]) }

/////////////////////////////////////
// size[4] Rlopen tag[2] qid[13] iounit[4]
type Rlopen []byte

func (r Rlopen) fill(t Tag, qid Qid, iounit uint32) {
	MsgBase(r).fill(msgRlopen, t, uint32(msgOffset+QidSize+4))
	copy(r[msgOffset:msgOffset+QidSize], qid.Bytes())
	bo.PutUint32(r[msgOffset+QidSize:msgOffset+QidSize+4], iounit)
}

func (r Rlopen) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rlopen) Size() uint32  { return MsgBase(r).Size() }
func (r Rlopen) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rlopen) Qid() Qid      { return Qid(r[msgOffset : msgOffset+QidSize]) }
func (r Rlopen) Iounit() uint32 {
	return bo.Uint32(r[msgOffset+QidSize : msgOffset+QidSize+4])
}

/////////////////////////////////////
// size[4] Treaddir tag[2] fid[4] offset[8] count[4]
type Treaddir []byte

func (r Treaddir) fill(t Tag, fid Fid, offset uint64, count uint32) {
	MsgBase(r).fill(msgTreaddir, t, uint32(msgOffset+4+8+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint64(r[msgOffset+4:msgOffset+12], offset)
	bo.PutUint32(r[msgOffset+12:msgOffset+16], count)
}

func (r Treaddir) Bytes() []byte  { return MsgBase(r).Bytes() }
func (r Treaddir) Size() uint32   { return MsgBase(r).Size() }
func (r Treaddir) Tag() Tag       { return MsgBase(r).Tag() }
func (r Treaddir) Fid() Fid       { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Treaddir) Offset() uint64 { return bo.Uint64(r[msgOffset+4 : msgOffset+12]) }
func (r Treaddir) Count() uint32  { return bo.Uint32(r[msgOffset+12 : msgOffset+16]) }

/////////////////////////////////////
// size[4] Rreaddir tag[2] count[4] count*(qid[13] offset[8] type[1] name[s])
type Rreaddir []byte

func (r Rreaddir) fill(t Tag, count uint32) {
	MsgBase(r).fill(msgRreaddir, t, uint32(msgOffset+4+count))
	bo.PutUint32(r[msgOffset:msgOffset+4], count)
}

func (r Rreaddir) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rreaddir) Size() uint32  { return MsgBase(r).Size() }
func (r Rreaddir) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rreaddir) Count() uint32 { return bo.Uint32(r[msgOffset : msgOffset+4]) }
func (r Rreaddir) Data() []byte  { return r[msgOffset+4 : msgOffset+4+int(r.Count())] }

// DataNoLimit returns the entry area for composing a reply in place.
func (r Rreaddir) DataNoLimit() []byte { return r[msgOffset+4:] }

// dirEntrySize is the encoded size of one entry with the given name.
func dirEntrySize(name string) int { return QidSize + 8 + 1 + 2 + len(name) }

// putDirEntry encodes qid[13] offset[8] type[1] name[s] at the start of
// b and returns the number of bytes written.
func putDirEntry(b []byte, qid Qid, offset uint64, name string) int {
	copy(b[:QidSize], qid.Bytes())
	bo.PutUint64(b[QidSize:QidSize+8], offset)
	b[QidSize+8] = byte(qid.Type())
	n := msgString(b[QidSize+9:]).SetStringAndLen(name)
	return QidSize + 9 + n
}

// getDirEntry decodes the entry at the start of b.
func getDirEntry(b []byte) (qid Qid, offset uint64, typ QidType, name string, n int) {
	qid = Qid(b[:QidSize])
	offset = bo.Uint64(b[QidSize : QidSize+8])
	typ = QidType(b[QidSize+8])
	s := msgString(b[QidSize+9:])
	name = s.String()
	n = QidSize + 9 + s.Nbytes()
	return
}

/////////////////////////////////////
// size[4] Tread tag[2] fid[4] offset[8] count[4]
type Tread []byte

func (r Tread) fill(t Tag, fid Fid, offset uint64, count uint32) {
	MsgBase(r).fill(msgTread, t, uint32(msgOffset+4+8+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
	bo.PutUint64(r[msgOffset+4:msgOffset+12], offset)
	bo.PutUint32(r[msgOffset+12:msgOffset+16], count)
}

func (r Tread) Bytes() []byte  { return MsgBase(r).Bytes() }
func (r Tread) Size() uint32   { return MsgBase(r).Size() }
func (r Tread) Tag() Tag       { return MsgBase(r).Tag() }
func (r Tread) Fid() Fid       { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }
func (r Tread) Offset() uint64 { return bo.Uint64(r[msgOffset+4 : msgOffset+12]) }
func (r Tread) Count() uint32  { return bo.Uint32(r[msgOffset+12 : msgOffset+16]) }

/////////////////////////////////////
// size[4] Rread tag[2] count[4] data[count]
type Rread []byte

func (r Rread) fill(t Tag, count uint32) {
	MsgBase(r).fill(msgRread, t, uint32(msgOffset+4+count))
	bo.PutUint32(r[msgOffset:msgOffset+4], count)
}

func (r Rread) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rread) Size() uint32  { return MsgBase(r).Size() }
func (r Rread) Tag() Tag      { return MsgBase(r).Tag() }
func (r Rread) Count() uint32 { return bo.Uint32(r[msgOffset : msgOffset+4]) }
func (r Rread) Data() []byte  { return r[msgOffset+4 : msgOffset+4+int(r.Count())] }

// DataNoLimit returns the data area for filling in place.
func (r Rread) DataNoLimit() []byte { return r[msgOffset+4:] }

/////////////////////////////////////
// size[4] Tclunk tag[2] fid[4]
type Tclunk []byte

func (r Tclunk) fill(t Tag, fid Fid) {
	MsgBase(r).fill(msgTclunk, t, uint32(msgOffset+4))
	bo.PutUint32(r[msgOffset:msgOffset+4], uint32(fid))
}

func (r Tclunk) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Tclunk) Size() uint32  { return MsgBase(r).Size() }
func (r Tclunk) Tag() Tag      { return MsgBase(r).Tag() }
func (r Tclunk) Fid() Fid      { return Fid(bo.Uint32(r[msgOffset : msgOffset+4])) }

/////////////////////////////////////
// size[4] Rclunk tag[2]
type Rclunk []byte

func (r Rclunk) fill(t Tag) {
	MsgBase(r).fill(msgRclunk, t, uint32(msgOffset))
}

func (r Rclunk) Bytes() []byte { return MsgBase(r).Bytes() }
func (r Rclunk) Size() uint32  { return MsgBase(r).Size() }
func (r Rclunk) Tag() Tag      { return MsgBase(r).Tag() }
