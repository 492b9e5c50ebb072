package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestSetFlagsDefaults(t *testing.T) {
	var cfg ServerConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.SetFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":5640" {
		t.Errorf("default addr %q", cfg.Addr)
	}
	if cfg.Root != "/tmp/9ptest" {
		t.Errorf("default root %q", cfg.Root)
	}
	if cfg.Verbose || cfg.NoColor {
		t.Error("verbose and no-color should default off")
	}
}

func TestSetFlagsParse(t *testing.T) {
	var cfg ServerConfig
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.SetFlags(fs)
	if err := fs.Parse([]string{"-addr", ":9999", "-root", "/srv/data", "-v"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9999" || cfg.Root != "/srv/data" || !cfg.Verbose {
		t.Fatalf("parsed %+v", cfg)
	}
}

func TestEnsureTestRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "served")
	if err := EnsureTestRoot(root); err != nil {
		t.Fatal(err)
	}
	sample := filepath.Join(root, "test.txt")
	got, err := os.ReadFile(sample)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "Hello World\n" {
		t.Fatalf("sample content %q", got)
	}

	// an existing file is left alone
	if err := os.WriteFile(sample, []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EnsureTestRoot(root); err != nil {
		t.Fatal(err)
	}
	if got, _ := os.ReadFile(sample); string(got) != "custom" {
		t.Fatalf("existing sample overwritten: %q", got)
	}
}
