// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/phyview/logging"
	"go.uber.org/zap"
)

func TestFileLogger(t *testing.T) {
	name := filepath.Join(t.TempDir(), "logs", "phyview.log")
	l, err := logging.New(logging.Config{File: name, Level: "warn"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("not written")
	l.Warn("tree rejected", zap.String("file", "bad.tre"))
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("unable to read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "not written") {
		t.Errorf("info entry written with warn level")
	}
	for _, want := range []string{`"level":"warn"`, `"msg":"tree rejected"`, `"file":"bad.tre"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log: %s not found in %q", want, out)
		}
	}
}

func TestNop(t *testing.T) {
	l := logging.Nop()
	l.Error("discarded")
	if err := l.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
