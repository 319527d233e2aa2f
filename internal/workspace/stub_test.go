package workspace

import (
	"strings"
	"sync"

	"github.com/grovekit/grove/internal/errors"
	"github.com/grovekit/grove/internal/git"
	"github.com/grovekit/grove/internal/ui"
)

// stubCall records a single git invocation.
type stubCall struct {
	dir  string
	args []string
}

func (c stubCall) String() string {
	return strings.Join(c.args, " ")
}

// stubResponse is what the stub returns for a matching command.
type stubResponse struct {
	exitCode int
	output   string
	err      error
}

// stubExecutor dispatches on the command prefix instead of call order,
// so tests describe git behavior per command rather than per step.
type stubExecutor struct {
	mu        sync.Mutex
	calls     []stubCall
	responses map[string]stubResponse
}

func newStubExecutor() *stubExecutor {
	return &stubExecutor{responses: map[string]stubResponse{}}
}

// on registers a response for any command whose argument list starts
// with the given prefix. Unregistered commands succeed with no output.
func (s *stubExecutor) on(prefix string, resp stubResponse) {
	s.responses[prefix] = resp
}

func (s *stubExecutor) lookup(args []string) stubResponse {
	joined := strings.Join(args, " ")
	for prefix, resp := range s.responses {
		if strings.HasPrefix(joined, prefix) {
			return resp
		}
	}
	return stubResponse{}
}

func (s *stubExecutor) record(dir string, args []string) stubResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, stubCall{dir: dir, args: args})
	return s.lookup(args)
}

func (s *stubExecutor) Run(dir string, args ...string) ([]byte, error) {
	resp := s.record(dir, args)
	if resp.err != nil {
		return []byte(resp.output), resp.err
	}
	if resp.exitCode != 0 {
		return []byte(resp.output), errors.New("exit status")
	}
	return []byte(resp.output), nil
}

func (s *stubExecutor) RunVerbose(dir string, args ...string) error {
	resp := s.record(dir, args)
	if resp.err != nil {
		return resp.err
	}
	if resp.exitCode != 0 {
		return errors.New("exit status")
	}
	return nil
}

func (s *stubExecutor) Capture(dir string, args ...string) (int, string) {
	resp := s.record(dir, args)
	return resp.exitCode, strings.TrimSpace(resp.output)
}

// called reports whether any recorded command starts with the prefix.
func (s *stubExecutor) called(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if strings.HasPrefix(call.String(), prefix) {
			return true
		}
	}
	return false
}

func newStubClient() (*git.Client, *stubExecutor) {
	stub := newStubExecutor()
	return git.NewClientWithExecutor(stub), stub
}

func quietPrinter() *ui.Printer {
	return ui.NewWithWriters(&strings.Builder{}, &strings.Builder{}, false)
}
