package git

import (
	"strings"
	"testing"

	"github.com/grovekit/grove/internal/errors"
)

// -----------------------------------------------------------------------------
// Mock Executor for Unit Tests
// -----------------------------------------------------------------------------

// mockCall records a single command invocation
type mockCall struct {
	dir  string
	args []string
}

// mockExecutor is a test double for Executor
type mockExecutor struct {
	calls     []mockCall
	outputs   [][]byte
	errs      []error
	exitCodes []int
	captured  []string
	callIndex int
}

func newMockExecutor() *mockExecutor {
	return &mockExecutor{}
}

func (m *mockExecutor) addResponse(output []byte, err error) {
	m.outputs = append(m.outputs, output)
	m.errs = append(m.errs, err)
	m.exitCodes = append(m.exitCodes, 0)
	m.captured = append(m.captured, strings.TrimSpace(string(output)))
}

func (m *mockExecutor) addCaptureResponse(exitCode int, stdout string) {
	m.outputs = append(m.outputs, []byte(stdout))
	if exitCode == 0 {
		m.errs = append(m.errs, nil)
	} else {
		m.errs = append(m.errs, errors.New("exit status"))
	}
	m.exitCodes = append(m.exitCodes, exitCode)
	m.captured = append(m.captured, strings.TrimSpace(stdout))
}

func (m *mockExecutor) next() int {
	idx := m.callIndex
	m.callIndex++
	return idx
}

func (m *mockExecutor) Run(dir string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, mockCall{dir: dir, args: args})
	idx := m.next()
	if idx < len(m.outputs) {
		return m.outputs[idx], m.errs[idx]
	}
	return nil, nil
}

func (m *mockExecutor) RunVerbose(dir string, args ...string) error {
	m.calls = append(m.calls, mockCall{dir: dir, args: args})
	idx := m.next()
	if idx < len(m.errs) {
		return m.errs[idx]
	}
	return nil
}

func (m *mockExecutor) Capture(dir string, args ...string) (int, string) {
	m.calls = append(m.calls, mockCall{dir: dir, args: args})
	idx := m.next()
	if idx < len(m.captured) {
		return m.exitCodes[idx], m.captured[idx]
	}
	return 0, ""
}

func (m *mockExecutor) lastCall() mockCall {
	if len(m.calls) == 0 {
		return mockCall{}
	}
	return m.calls[len(m.calls)-1]
}

// -----------------------------------------------------------------------------
// Client Unit Tests
// -----------------------------------------------------------------------------

func TestClient_IsDirty(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		err        error
		wantResult bool
		wantErr    bool
	}{
		{
			name:       "clean repo",
			output:     "",
			wantResult: false,
		},
		{
			name:       "modified file",
			output:     " M file.txt\n",
			wantResult: true,
		},
		{
			name:       "untracked file",
			output:     "?? newfile.txt\n",
			wantResult: true,
		},
		{
			name:    "git status error",
			err:     errors.New("git status failed"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockExecutor()
			mock.addResponse([]byte(tt.output), tt.err)

			c := NewClientWithExecutor(mock)
			result, err := c.IsDirty("/repo/foo")

			if (err != nil) != tt.wantErr {
				t.Errorf("IsDirty() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if result != tt.wantResult {
				t.Errorf("IsDirty() = %v, want %v", result, tt.wantResult)
			}

			call := mock.lastCall()
			if strings.Join(call.args, " ") != "status --porcelain" {
				t.Errorf("unexpected git arguments: %v", call.args)
			}
		})
	}
}

func TestClient_CurrentBranch(t *testing.T) {
	tests := []struct {
		name         string
		exitCode     int
		stdout       string
		wantBranch   string
		wantErr      bool
		wantDetached bool
	}{
		{
			name:       "on a branch",
			stdout:     "master",
			wantBranch: "master",
		},
		{
			name:         "detached HEAD",
			stdout:       "HEAD",
			wantErr:      true,
			wantDetached: true,
		},
		{
			name:     "not a repository",
			exitCode: 128,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockExecutor()
			mock.addCaptureResponse(tt.exitCode, tt.stdout)

			c := NewClientWithExecutor(mock)
			branch, err := c.CurrentBranch("/repo/foo")

			if (err != nil) != tt.wantErr {
				t.Fatalf("CurrentBranch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if branch != tt.wantBranch {
				t.Errorf("CurrentBranch() = %q, want %q", branch, tt.wantBranch)
			}
			if tt.wantDetached && !errors.Is(err, errors.ErrDetachedHead) {
				t.Errorf("CurrentBranch() error = %v, want ErrDetachedHead", err)
			}
		})
	}
}

func TestClient_RunQuietAttachesOutput(t *testing.T) {
	mock := newMockExecutor()
	mock.addResponse([]byte("fatal: couldn't find remote ref\n"), errors.New("exit status 128"))

	c := NewClientWithExecutor(mock)
	err := c.Run("/repo/foo", false, "fetch", "--tags", "--prune", "origin")

	if err == nil {
		t.Fatal("Run() should fail when the command fails")
	}

	var gitErr *errors.GitError
	if !errors.As(err, &gitErr) {
		t.Fatalf("Run() error = %T, want *errors.GitError", err)
	}
	if !strings.Contains(gitErr.GitOutput, "couldn't find remote ref") {
		t.Errorf("GitOutput = %q, want captured command output", gitErr.GitOutput)
	}
}

func TestClient_RunVerbosePassesArguments(t *testing.T) {
	mock := newMockExecutor()

	c := NewClientWithExecutor(mock)
	if err := c.Run("/repo/foo", true, "merge", "--ff-only", "@{upstream}"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	call := mock.lastCall()
	if call.dir != "/repo/foo" {
		t.Errorf("dir = %q, want /repo/foo", call.dir)
	}
	if strings.Join(call.args, " ") != "merge --ff-only @{upstream}" {
		t.Errorf("args = %v", call.args)
	}
}

func TestClient_CaptureChecked(t *testing.T) {
	mock := newMockExecutor()
	mock.addCaptureResponse(1, "")

	c := NewClientWithExecutor(mock)
	_, err := c.CaptureChecked("/repo/foo", "merge", "--ff-only", "@{upstream}")

	if err == nil {
		t.Fatal("CaptureChecked() should fail on non-zero exit")
	}
}

func TestClient_RevParse(t *testing.T) {
	mock := newMockExecutor()
	mock.addCaptureResponse(0, "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3")

	c := NewClientWithExecutor(mock)
	sha, err := c.RevParse("/repo/foo", "v0.2")

	if err != nil {
		t.Fatalf("RevParse() error = %v", err)
	}
	if sha != "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3" {
		t.Errorf("RevParse() = %q", sha)
	}
}
