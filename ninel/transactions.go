package ninel

import (
	"fmt"
	"io"
)

// srvTransaction holds the request/reply buffers for one in-flight
// exchange. The connection loop is strictly synchronous, so a single
// pair of buffers sized to the maximum message size is enough.
type srvTransaction struct {
	inMsg  []byte
	outMsg []byte

	handled bool
}

func newTransaction(maxMsgSize uint32) srvTransaction {
	return srvTransaction{
		inMsg:  make([]byte, int(maxMsgSize)),
		outMsg: make([]byte, int(maxMsgSize)),
	}
}

// readRequest frames the next message: a 4-byte little-endian length
// that counts itself, then the remainder. Returns io.EOF untouched when
// the peer closed before sending a length prefix.
func (t *srvTransaction) readRequest(rdr io.Reader) error {
	t.handled = false

	n, err := readUpTo(rdr, t.inMsg[:4])
	if err != nil {
		if n == 0 && err == io.EOF {
			return io.EOF
		}
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	size := MsgBase(t.inMsg).Size()
	if size < MIN_MESSAGE_SIZE {
		return fmt.Errorf("%w: message too small (%d < %d)", ErrInvalidMessage, size, MIN_MESSAGE_SIZE)
	}
	if size > uint32(len(t.inMsg)) {
		return fmt.Errorf("%w: message too large (%d > %d)", ErrInvalidMessage, size, len(t.inMsg))
	}

	if _, err := readUpTo(rdr, t.inMsg[4:size]); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

func (t *srvTransaction) writeReply(wr io.Writer) error {
	b := MsgBase(t.outMsg).Bytes()
	for len(b) > 0 {
		n, err := wr.Write(b)
		b = b[n:]
		if isTemporaryErr(err) {
			continue
		} else if err != nil {
			return err
		}
	}
	return nil
}

func (t *srvTransaction) requestType() MsgType { return MsgBase(t.inMsg).Type() }
func (t *srvTransaction) reqTag() Tag          { return MsgBase(t.inMsg).Tag() }

// minRequestSize is the smallest frame that holds the fixed fields of
// a request type (variable tails like strings and name lists may still
// be empty at this size).
func minRequestSize(mt MsgType) uint32 {
	switch mt {
	case msgTversion:
		return msgOffset + 4 + 2
	case msgTattach:
		return msgOffset + 4 + 4 + 2 + 2
	case msgTwalk:
		return msgOffset + 4 + 4 + 2
	case msgTgetattr:
		return msgOffset + 4 + 8
	case msgTstatfs, msgTclunk:
		return msgOffset + 4
	case msgTlopen:
		return msgOffset + 4 + 4
	case msgTreaddir, msgTread:
		return msgOffset + 4 + 8 + 4
	}
	return msgOffset
}

// request views the inbound buffer as its decoded message type,
// truncated to the declared frame size so accessors can never read
// stale bytes from an earlier request. A frame too short for its
// type's fixed fields comes back as the bare MsgBase, which the
// dispatcher declines with EINVAL; so do types without a handler.
func (t *srvTransaction) request() Message {
	mb := MsgBase(t.inMsg[:MsgBase(t.inMsg).Size()])
	if uint32(len(mb)) < minRequestSize(mb.Type()) {
		return mb
	}
	switch mb.Type() {
	case msgTversion:
		return Tversion(mb)
	case msgTattach:
		return Tattach(mb)
	case msgTwalk:
		return Twalk(mb)
	case msgTgetattr:
		return Tgetattr(mb)
	case msgTstatfs:
		return Tstatfs(mb)
	case msgTlopen:
		return Tlopen(mb)
	case msgTreaddir:
		return Treaddir(mb)
	case msgTread:
		return Tread(mb)
	case msgTclunk:
		return Tclunk(mb)
	default:
		return mb
	}
}

func (t *srvTransaction) reply() Message {
	mb := MsgBase(t.outMsg)
	switch mb.Type() {
	case msgRversion:
		return Rversion(mb)
	case msgRattach:
		return Rattach(mb)
	case msgRwalk:
		return Rwalk(mb)
	case msgRgetattr:
		return Rgetattr(mb)
	case msgRstatfs:
		return Rstatfs(mb)
	case msgRlopen:
		return Rlopen(mb)
	case msgRreaddir:
		return Rreaddir(mb)
	case msgRread:
		return Rread(mb)
	case msgRclunk:
		return Rclunk(mb)
	case msgRlerror:
		return Rlerror(mb)
	default:
		return mb
	}
}

func (t *srvTransaction) Rversion(msize uint32, version string) {
	t.handled = true
	Rversion(t.outMsg).fill(t.reqTag(), msize, version)
}

func (t *srvTransaction) Rattach(q Qid) {
	t.handled = true
	Rattach(t.outMsg).fill(t.reqTag(), q)
}

func (t *srvTransaction) Rwalk(wqids []Qid) {
	t.handled = true
	Rwalk(t.outMsg).fill(t.reqTag(), wqids)
}

func (t *srvTransaction) Rgetattr(valid uint64, q Qid, a *Attr) {
	t.handled = true
	Rgetattr(t.outMsg).fill(t.reqTag(), valid, q, a)
}

func (t *srvTransaction) Rstatfs(s *FsStat) {
	t.handled = true
	Rstatfs(t.outMsg).fill(t.reqTag(), s)
}

func (t *srvTransaction) Rlopen(q Qid, iounit uint32) {
	t.handled = true
	Rlopen(t.outMsg).fill(t.reqTag(), q, iounit)
}

// RreaddirBuffer returns the entry area of the outbound Rreaddir for
// composing entries in place; finish with Rreaddir(n).
func (t *srvTransaction) RreaddirBuffer() []byte {
	return Rreaddir(t.outMsg).DataNoLimit()
}

func (t *srvTransaction) Rreaddir(count uint32) {
	t.handled = true
	Rreaddir(t.outMsg).fill(t.reqTag(), count)
}

// RreadBuffer returns the data area of the outbound Rread for filling
// in place; finish with Rread(n).
func (t *srvTransaction) RreadBuffer() []byte {
	return Rread(t.outMsg).DataNoLimit()
}

func (t *srvTransaction) Rread(count uint32) {
	t.handled = true
	Rread(t.outMsg).fill(t.reqTag(), count)
}

func (t *srvTransaction) Rclunk() {
	t.handled = true
	Rclunk(t.outMsg).fill(t.reqTag())
}

func (t *srvTransaction) Rlerror(errno Errno) {
	t.handled = true
	Rlerror(t.outMsg).fill(t.reqTag(), errno)
}
