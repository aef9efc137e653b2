package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/shapereach/pkg/config"
)

func TestTableFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.bin")
	missing := tableFingerprint(path)

	if err := os.WriteFile(path, make([]byte, 16), 0o644); err != nil {
		t.Fatal(err)
	}
	first := tableFingerprint(path)
	if first == missing {
		t.Error("creating the table should change the fingerprint")
	}
	if again := tableFingerprint(path); again != first {
		t.Error("fingerprint should be stable")
	}

	if err := os.WriteFile(path, make([]byte, 32), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	if tableFingerprint(path) == first {
		t.Error("rewriting the table should change the fingerprint")
	}
}

func TestStoreFingerprint(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg = config.Default()
	c.cfg.Table = filepath.Join(t.TempDir(), "missing.bin")
	tableFP := c.storeFingerprint()

	c.cfg.Store.Backend = config.StoreBadger
	c.cfg.Store.BadgerPath = "/data/badger"
	badgerFP := c.storeFingerprint()

	c.cfg.Store.Backend = config.StoreMongo
	c.cfg.Store.MongoURI = "mongodb://localhost"
	mongoFP := c.storeFingerprint()

	if tableFP == badgerFP || badgerFP == mongoFP || tableFP == mongoFP {
		t.Errorf("fingerprints collide: %s %s %s", tableFP, badgerFP, mongoFP)
	}
}

func TestCLICacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	c.cfg = config.Default()
	c.cfg.Cache.Dir = "/srv/cache"
	if dir, err := c.cacheDir(); err != nil || dir != "/srv/cache" {
		t.Errorf("cacheDir() = %q, %v", dir, err)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.svg")
	if err := writeFile(path, []byte("<svg/>")); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "<svg/>" {
		t.Errorf("read back %q, %v", data, err)
	}
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := New(io.Discard, LogInfo).RootCommand()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out.String(), "shapereach") {
				t.Errorf("%s script does not mention the command", shell)
			}
		})
	}
}
