package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/p9t/l9/cli"
	_ "go.uber.org/automaxprocs"
)

func main() {
	var cfg cli.ServerConfig

	cfg.SetFlags(nil)
	flag.Usage = func() {
		w := flag.CommandLine.Output()
		fmt.Fprintf(w, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(w, "Serves a directory tree over 9P2000.L for exercising client implementations.\n\n")
		fmt.Fprintf(w, "OPTIONS:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cli.SupportsColor(cfg.NoColor)

	if err := cli.EnsureTestRoot(cfg.Root); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	srv, err := cfg.CreateServer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cli.Banner("Serving %s on %s\n", srv.Root, cfg.Addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cfg.ListenAndServe(ctx, srv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
