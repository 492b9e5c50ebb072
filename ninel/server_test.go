package ninel

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startServer(t *testing.T, root string) net.Addr {
	t.Helper()
	srv, err := NewServer(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ln.Close() })
	go srv.Serve(ln)
	return ln.Addr()
}

type testClient struct {
	t    *testing.T
	conn net.Conn
	out  []byte
	in   []byte
}

func dialServer(t *testing.T, addr net.Addr) *testClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetDeadline(time.Now().Add(5 * time.Second))
	return &testClient{
		t:    t,
		conn: conn,
		out:  make([]byte, MAX_MESSAGE_SIZE),
		in:   make([]byte, MAX_MESSAGE_SIZE),
	}
}

// rpc sends whatever the caller stamped into c.out and returns the
// framed reply.
func (c *testClient) rpc() MsgBase {
	c.t.Helper()
	if _, err := c.conn.Write(MsgBase(c.out).Bytes()); err != nil {
		c.t.Fatal(err)
	}
	if _, err := readUpTo(c.conn, c.in[:4]); err != nil {
		c.t.Fatal(err)
	}
	size := MsgBase(c.in).Size()
	if size < MIN_MESSAGE_SIZE || size > uint32(len(c.in)) {
		c.t.Fatalf("bad reply size %d", size)
	}
	if _, err := readUpTo(c.conn, c.in[4:size]); err != nil {
		c.t.Fatal(err)
	}
	return MsgBase(c.in)
}

func (c *testClient) expectType(want MsgType) MsgBase {
	c.t.Helper()
	r := c.rpc()
	if r.Type() != want {
		if r.Type() == msgRlerror {
			c.t.Fatalf("expected %s, got Rlerror errno %d", want, Rlerror(r).Errno())
		}
		c.t.Fatalf("expected %s, got %s", want, r.Type())
	}
	return r
}

// Walks the whole happy path a real client performs against the
// canonical fixture: negotiate, attach, stat the root, list it, open
// and read the file, then clunk.
func TestServerSession(t *testing.T) {
	content := []byte("Hello World\n")
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "test.txt"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	c := dialServer(t, startServer(t, root))

	Tversion(c.out).fill(NO_TAG, 8192, "9P2000.L")
	rv := Rversion(c.expectType(msgRversion))
	if rv.Version() != "9P2000.L" || rv.Msize() != 8192 {
		t.Fatalf("negotiated %q/%d", rv.Version(), rv.Msize())
	}

	Tattach(c.out).fill(1, 0, NO_FID, "nobody", "", 0)
	ra := Rattach(c.expectType(msgRattach))
	if ra.Qid().Type() != QT_DIR {
		t.Fatalf("root qid %v", ra.Qid())
	}
	// ra aliases c.in, which the next rpc overwrites; snapshot the qid.
	attachQid := Qid(append([]byte(nil), ra.Qid().Bytes()...))

	Tstatfs(c.out).fill(2, 0)
	if st := Rstatfs(c.expectType(msgRstatfs)).FsStat(); st.Bsize == 0 {
		t.Fatal("statfs bsize is zero")
	}

	Tgetattr(c.out).fill(3, 0, 0x3fff)
	rg := Rgetattr(c.expectType(msgRgetattr))
	if !bytes.Equal(rg.Qid().Bytes(), attachQid.Bytes()) {
		t.Fatalf("getattr qid %v differs from attach qid %v", rg.Qid(), attachQid)
	}

	Treaddir(c.out).fill(4, 0, 0, 8168)
	rd := Rreaddir(c.expectType(msgRreaddir))
	_, _, typ, name, _ := getDirEntry(rd.Data())
	if name != "test.txt" || typ != QT_FILE {
		t.Fatalf("listed %q (%v), want test.txt", name, typ)
	}

	Twalk(c.out).fill(5, 0, 1, []string{"test.txt"})
	rw := Rwalk(c.expectType(msgRwalk))
	if rw.NumWqid() != 1 || rw.Wqid(0).Type() != QT_FILE {
		t.Fatalf("walk returned %d qids", rw.NumWqid())
	}

	Tlopen(c.out).fill(6, 1, 0)
	ro := Rlopen(c.expectType(msgRlopen))
	if ro.Iounit() != 8192-24 {
		t.Fatalf("iounit %d", ro.Iounit())
	}

	Tread(c.out).fill(7, 1, 0, ro.Iounit())
	rr := Rread(c.expectType(msgRread))
	if !bytes.Equal(rr.Data(), content) {
		t.Fatalf("read %q, want %q", rr.Data(), content)
	}

	Tclunk(c.out).fill(8, 1)
	c.expectType(msgRclunk)

	// the clunked fid is gone
	Tread(c.out).fill(9, 1, 0, 16)
	if errno := Rlerror(c.expectType(msgRlerror)).Errno(); errno != ENOENT {
		t.Fatalf("errno %d, want ENOENT", errno)
	}
}

// An unsupported request must earn an error reply, not a dropped
// connection; the session keeps answering afterwards.
func TestServerDeclinesUnsupported(t *testing.T) {
	c := dialServer(t, startServer(t, t.TempDir()))

	Tversion(c.out).fill(NO_TAG, 8192, "9P2000.L")
	c.expectType(msgRversion)

	MsgBase(c.out).fill(msgTwrite, 11, msgOffset)
	rl := Rlerror(c.expectType(msgRlerror))
	if rl.Errno() != EINVAL {
		t.Fatalf("errno %d, want EINVAL", rl.Errno())
	}
	if rl.Tag() != 11 {
		t.Fatalf("tag %d, want 11", rl.Tag())
	}

	Tattach(c.out).fill(12, 0, NO_FID, "nobody", "", 0)
	c.expectType(msgRattach)
}

// Garbage and truncated frames must cost at most an error reply, never
// the process: the session keeps answering afterwards.
func TestServerSurvivesMalformedFrames(t *testing.T) {
	addr := startServer(t, t.TempDir())
	c := dialServer(t, addr)

	// a full frame of junk with a plausible size prefix
	for i := range c.out {
		c.out[i] = 0xff
	}
	bo.PutUint32(c.out[:4], MAX_MESSAGE_SIZE)
	rl := Rlerror(c.expectType(msgRlerror))
	if rl.Errno() != EINVAL {
		t.Fatalf("junk frame: errno %d, want EINVAL", rl.Errno())
	}

	// a Tversion cut off right after msize
	MsgBase(c.out).fill(msgTversion, 1, msgOffset+4)
	bo.PutUint32(c.out[msgOffset:msgOffset+4], 8192)
	rl = Rlerror(c.expectType(msgRlerror))
	if rl.Errno() != EINVAL {
		t.Fatalf("truncated Tversion: errno %d, want EINVAL", rl.Errno())
	}

	// the connection is still good
	Tversion(c.out).fill(NO_TAG, 8192, "9P2000.L")
	if rv := Rversion(c.expectType(msgRversion)); rv.Version() != "9P2000.L" {
		t.Fatalf("negotiated %q after malformed frames", rv.Version())
	}

	// and so is the accept loop once this session ends
	c.conn.Close()
	c2 := dialServer(t, addr)
	Tversion(c2.out).fill(NO_TAG, 8192, "9P2000.L")
	c2.expectType(msgRversion)
}

func TestServerSurvivesReconnect(t *testing.T) {
	addr := startServer(t, t.TempDir())

	for i := 0; i < 3; i++ {
		c := dialServer(t, addr)
		Tversion(c.out).fill(NO_TAG, 8192, "9P2000.L")
		c.expectType(msgRversion)
		c.conn.Close()
	}
}

func TestServerMsizeClamp(t *testing.T) {
	c := dialServer(t, startServer(t, t.TempDir()))

	Tversion(c.out).fill(NO_TAG, 1<<20, "9P2000.L")
	rv := Rversion(c.expectType(msgRversion))
	if rv.Msize() != MAX_MESSAGE_SIZE {
		t.Fatalf("msize %d, want %d", rv.Msize(), MAX_MESSAGE_SIZE)
	}
}
