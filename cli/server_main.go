// Package cli wires flags, logging and the listener lifecycle around
// the ninel server. It is glue: the protocol engine lives in ninel.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"

	"github.com/p9t/l9/ninel"
)

type ServerConfig struct {
	Addr string
	Root string

	// Verbose enables per-exchange debug logging.
	Verbose bool
	NoColor bool

	Stdout io.Writer
	Stderr io.Writer
}

func (c *ServerConfig) SetFlags(f *flag.FlagSet) {
	if f == nil {
		f = flag.CommandLine
	}
	f.StringVar(&c.Addr, "addr", ":5640", "The address and port for the server to listen on")
	f.StringVar(&c.Root, "root", "/tmp/9ptest", "The directory tree to serve")
	f.BoolVar(&c.Verbose, "v", false, "Log every request and reply")
	f.BoolVar(&c.NoColor, "no-color", false, "Disable colored output")
}

func (c *ServerConfig) Logger() *slog.Logger {
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *ServerConfig) CreateServer() (*ninel.Server, error) {
	return ninel.NewServer(c.Root, c.Logger())
}

// ListenAndServe runs the server until ctx is cancelled.
func (c *ServerConfig) ListenAndServe(ctx context.Context, srv *ninel.Server) error {
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	if err := srv.Serve(ln); !errors.Is(err, ninel.ErrServerClosed) {
		return err
	}
	return nil
}

// EnsureTestRoot creates the served directory and a sample file when
// they do not exist yet, so a fresh server has something to answer
// with.
func EnsureTestRoot(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating root: %w", err)
	}
	sample := filepath.Join(root, "test.txt")
	if _, err := os.Lstat(sample); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(sample, []byte("Hello World\n"), 0o644); err != nil {
		return fmt.Errorf("creating sample file: %w", err)
	}
	return nil
}
