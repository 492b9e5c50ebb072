package ninel

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"net"
	"path/filepath"
	"time"
)

// Server answers 9P2000.L requests against a local directory tree. It
// is a test responder: connections are accepted one at a time and each
// is drained to completion before the next accept, so a stalled peer
// stalls the server. Within a connection handling is strictly
// synchronous, which is why fid state needs no locking.
type Server struct {
	// Root is the absolute path all fids resolve under.
	Root string

	Logger *slog.Logger

	// MaxMsgSize bounds negotiated msize. Defaults to MAX_MESSAGE_SIZE.
	MaxMsgSize uint32

	qids *QidPool
}

func NewServer(root string, logger *slog.Logger) (*Server, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		Root:       abs,
		Logger:     logger,
		MaxMsgSize: MAX_MESSAGE_SIZE,
		qids:       NewQidPool(),
	}, nil
}

// Serve accepts connections from l until it is closed. Returns
// ErrServerClosed after the listener closes.
func (s *Server) Serve(l net.Listener) error {
	s.Logger.Info("listening", slog.String("addr", l.Addr().String()), slog.String("root", s.Root))
	retries := 0
	const maxWait = 2 * time.Second
	for {
		conn, err := l.Accept()
		if err != nil {
			if isTemporaryErr(err) {
				retries++
				wait := time.Duration(math.Min(math.Pow(float64(10*time.Millisecond), float64(retries)), float64(maxWait)))
				s.Logger.Warn("accept.retry", slog.String("error", err.Error()), slog.Duration("wait", wait))
				time.Sleep(wait)
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return ErrServerClosed
			}
			return err
		}
		retries = 0

		s.Logger.Info("client.connected", slog.String("remote", conn.RemoteAddr().String()))
		sess := s.newSession(conn)
		sess.serve()
		s.Logger.Info("client.disconnected", slog.String("remote", conn.RemoteAddr().String()))
	}
}

func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) newSession(conn net.Conn) *session {
	return &session{
		rwc:    conn,
		txn:    newTransaction(s.MaxMsgSize),
		fids:   newFidTable(),
		qids:   s.qids,
		root:   s.Root,
		msize:  s.MaxMsgSize,
		logger: s.Logger,
	}
}

// session is the per-connection state: the transaction buffers, the fid
// table, and the msize agreed in the version exchange.
type session struct {
	rwc net.Conn
	txn srvTransaction

	fids *fidTable
	qids *QidPool

	root   string
	msize  uint32
	logger *slog.Logger
}

// serve frames and answers messages until the peer closes the
// connection. A clean close (EOF on the length prefix) is not an error;
// anything else aborts the connection.
func (s *session) serve() {
	defer s.rwc.Close()

	for {
		err := s.txn.readRequest(s.rwc)
		if err == io.EOF {
			return
		}
		if err != nil {
			s.logger.Error("conn.read.failed", slog.String("error", err.Error()))
			return
		}

		s.logger.Debug("recv",
			slog.String("type", s.txn.requestType().String()),
			slog.Uint64("tag", uint64(s.txn.reqTag())),
			slog.Uint64("size", uint64(MsgBase(s.txn.inMsg).Size())))

		s.handle()
		if !s.txn.handled {
			// recognized-but-unimplemented and unknown types alike
			s.logger.Debug("recv.unsupported", slog.String("type", s.txn.requestType().String()))
			s.txn.Rlerror(EINVAL)
		}

		s.logger.Debug("send",
			slog.String("type", MsgBase(s.txn.outMsg).Type().String()),
			slog.Uint64("size", uint64(MsgBase(s.txn.outMsg).Size())))

		if err := s.txn.writeReply(s.rwc); err != nil {
			s.logger.Error("conn.write.failed", slog.String("error", err.Error()))
			return
		}
	}
}

func (s *session) handle() {
	switch m := s.txn.request().(type) {
	case Tversion:
		s.version(m)
	case Tattach:
		s.attach(m)
	case Twalk:
		s.walk(m)
	case Tgetattr:
		s.getattr(m)
	case Tstatfs:
		s.statfs(m)
	case Tlopen:
		s.lopen(m)
	case Treaddir:
		s.readdir(m)
	case Tread:
		s.read(m)
	case Tclunk:
		s.clunk(m)
	}
}
