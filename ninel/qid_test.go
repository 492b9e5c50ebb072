package ninel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestQidDeterministicForSamePath(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "stable.txt")
	if err := os.WriteFile(name, []byte("contents"), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Lstat(name)
	if err != nil {
		t.Fatal(err)
	}

	pool := NewQidPool()
	first := pool.QidFor(name, info)
	second := pool.QidFor(name, info)
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("qid not stable: %v != %v", first, second)
	}

	// a fresh pool must derive the same identity
	other := NewQidPool().QidFor(name, info)
	if !bytes.Equal(first.Bytes(), other.Bytes()) {
		t.Fatalf("qid differs across pools: %v != %v", first, other)
	}

	if first.Version() != uint32(info.ModTime().Unix()) {
		t.Errorf("version should be mtime seconds: %d", first.Version())
	}
}

func TestQidDiffersAcrossPaths(t *testing.T) {
	pool := NewQidPool()
	if pool.PathID("/tmp/a") == pool.PathID("/tmp/b") {
		t.Fatal("distinct paths hashed to the same id")
	}
}

func TestQidTypeMapping(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	link := filepath.Join(dir, "l")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(file, link); err != nil {
		t.Skipf("symlinks unsupported here: %v", err)
	}

	pool := NewQidPool()
	cases := []struct {
		path string
		want QidType
	}{
		{dir, QT_DIR},
		{file, QT_FILE},
		{link, QT_SYMLINK},
	}
	for _, c := range cases {
		info, err := os.Lstat(c.path)
		if err != nil {
			t.Fatal(err)
		}
		if got := pool.QidFor(c.path, info).Type(); got != c.want {
			t.Errorf("%s: qid type %v, want %v", c.path, got, c.want)
		}
	}
}

func TestQidNilInfoPlaceholder(t *testing.T) {
	q := NewQidPool().QidFor("/gone", nil)
	if q.Type() != QT_DIR {
		t.Errorf("placeholder type: %v", q.Type())
	}
	if q.Version() != 0 {
		t.Errorf("placeholder version: %d", q.Version())
	}
	if q.Path() == 0 {
		t.Error("placeholder should still carry a path id")
	}
}

func TestFidTable(t *testing.T) {
	fids := newFidTable()
	if _, ok := fids.resolve(1); ok {
		t.Fatal("unbound fid resolved")
	}
	fids.bind(1, "/srv/root")
	if p, ok := fids.resolve(1); !ok || p != "/srv/root" {
		t.Fatalf("resolve after bind: %q, %v", p, ok)
	}
	fids.bind(1, "/srv/root/sub")
	if p, _ := fids.resolve(1); p != "/srv/root/sub" {
		t.Fatalf("rebind did not replace: %q", p)
	}
	fids.release(1)
	if _, ok := fids.resolve(1); ok {
		t.Fatal("fid survived release")
	}
	fids.release(1) // releasing twice is fine
}
