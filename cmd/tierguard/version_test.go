package main

import (
	"strings"
	"testing"

	"github.com/pankaj-dahiya-devops/tierguard/internal/version"
)

func TestVersionCmd_Output(t *testing.T) {
	orig := version.Version
	origC := version.Commit
	origD := version.Date
	t.Cleanup(func() {
		version.Version = orig
		version.Commit = origC
		version.Date = origD
	})

	version.Version = "test"
	version.Commit = "abc123"
	version.Date = "2026-01-01"

	out, _, err := execute(t, testDeps(goodMockAWS(), &fakeEngine{}), "version")
	if err != nil {
		t.Fatalf("version command returned error: %v", err)
	}
	if !strings.HasPrefix(out, "tierguard version test\n") {
		t.Errorf("version output first line wrong; got:\n%s", out)
	}
	for _, want := range []string{"commit: abc123", "built: 2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q; got:\n%s", want, out)
		}
	}
}

func TestVersionInfo_Defaults(t *testing.T) {
	orig := version.Version
	origC := version.Commit
	origD := version.Date
	t.Cleanup(func() {
		version.Version = orig
		version.Commit = origC
		version.Date = origD
	})

	version.Version = "dev"
	version.Commit = "none"
	version.Date = "unknown"

	info := version.Info()
	if info != "tierguard version dev\ncommit: none\nbuilt: unknown\n" {
		t.Errorf("Info() = %q", info)
	}
}
