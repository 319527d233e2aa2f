package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovekit/grove/internal/testutil"
	"github.com/spf13/cobra"
)

// executeCommand runs a cobra command with args and returns captured output.
func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "grove" {
		t.Errorf("rootCmd.Use = %q, want grove", rootCmd.Use)
	}

	expected := []string{"init", "sync", "configure-remotes", "status"}
	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		if !registered[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestInitRequiresManifestURL(t *testing.T) {
	_, err := executeCommand(rootCmd, "init")
	if err == nil {
		t.Fatal("init without a manifest URL should fail")
	}
}

func TestInitAndSync(t *testing.T) {
	testutil.SkipIfNoGit(t)

	fooRemote := testutil.SetupBareRemote(t)
	manifestClone, manifestRemote := testutil.SetupClone(t)
	testutil.CommitFile(t, manifestClone, "manifest.yml",
		"repos:\n  - dest: foo\n    url: "+fooRemote+"\n", "Add manifest")
	testutil.Push(t, manifestClone, "origin", "master")

	root := t.TempDir()

	if _, err := executeCommand(rootCmd, "init", manifestRemote, "--workspace", root); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "foo", "README.md")); err != nil {
		t.Fatalf("init did not clone foo: %v", err)
	}

	if _, err := executeCommand(rootCmd, "sync", "--workspace", root); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if _, err := executeCommand(rootCmd, "status", "--workspace", root); err != nil {
		t.Fatalf("status failed: %v", err)
	}
}
