package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/kamusis/plagiscan/internal/shingle"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover_SortedAndFiltered(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), []byte("bravo"))
	writeFile(t, filepath.Join(root, "a.txt"), []byte("alpha"))
	writeFile(t, filepath.Join(root, "notes.md"), []byte("skip me"))
	writeFile(t, filepath.Join(root, "c.tmp.txt"), []byte("excluded"))
	writeFile(t, filepath.Join(root, "sub", "d.txt"), []byte("nested"))

	docs, err := Discover(root, Options{Extensions: []string{"txt"}, Excludes: []string{"*.tmp.txt"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d: %+v", len(docs), docs)
	}
	if docs[0].ID != "a.txt" || docs[1].ID != "b.txt" {
		t.Fatalf("unexpected order: %s, %s", docs[0].ID, docs[1].ID)
	}
	if docs[0].Text != "alpha" || docs[0].Digest == "" {
		t.Fatalf("unexpected doc: %+v", docs[0])
	}
}

func TestDiscover_Recursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), []byte("alpha"))
	writeFile(t, filepath.Join(root, "sub", "d.txt"), []byte("nested"))
	writeFile(t, filepath.Join(root, ".git", "HEAD"), []byte("ref"))

	docs, err := Discover(root, Options{Recursive: true})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	m := Texts(docs)
	if len(m) != 2 || m["sub/d.txt"] != "nested" {
		t.Fatalf("unexpected corpus: %v", m)
	}
}

func TestDiscover_NotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	writeFile(t, f, []byte("x"))
	if _, err := Discover(f, Options{}); err == nil {
		t.Fatalf("expected error for file root")
	}
}

func TestDecode(t *testing.T) {
	latin := []byte{'c', 'a', 'f', 0xe9}
	got, err := Decode(latin, EncodingAuto)
	if err != nil || got != "café" {
		t.Fatalf("auto latin-1: got %q, %v", got, err)
	}
	got, err = Decode([]byte("café"), "")
	if err != nil || got != "café" {
		t.Fatalf("auto utf-8: got %q, %v", got, err)
	}
	if _, err := Decode(latin, EncodingUTF8); err == nil {
		t.Fatalf("expected invalid UTF-8 error")
	}
	if _, err := Decode(latin, "ebcdic"); err == nil {
		t.Fatalf("expected unsupported encoding error")
	}
}

func TestDecode_Detect(t *testing.T) {
	got, err := Decode([]byte("déjà vu"), EncodingDetect)
	if err != nil || got != "déjà vu" {
		t.Fatalf("detect utf-8: got %q, %v", got, err)
	}

	src := "Le café était très fréquenté par les élèves, qui préféraient la crème brûlée à la bière."
	latin, err := charmap.ISO8859_1.NewEncoder().String(src)
	if err != nil {
		t.Fatal(err)
	}
	got, err = Decode([]byte(latin), EncodingDetect)
	if err != nil {
		t.Fatalf("detect latin-1: %v", err)
	}
	if !utf8.ValidString(got) || !strings.Contains(got, "café") {
		t.Fatalf("detect latin-1: got %q", got)
	}
}

func TestDecode_CurlyQuotesTokenizeAlikeInBothEncodings(t *testing.T) {
	raw := []byte("don’t stop")
	want := []string{"dont", "stop"}
	for _, enc := range []string{EncodingUTF8, EncodingLatin1} {
		text, err := Decode(raw, enc)
		if err != nil {
			t.Fatalf("Decode(%s): %v", enc, err)
		}
		if got := shingle.Tokenize(text, shingle.Options{}); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: got %q want %q", enc, got, want)
		}
	}
}
