package tmux

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// fakeExecutor records every argv and answers from canned responses keyed
// by the joined argument list (executable excluded).
type fakeExecutor struct {
	mu      sync.Mutex
	calls   [][]string
	outputs map[string]string
	errs    map[string]error
	logs    []*zap.Logger
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{outputs: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeExecutor) Run(ctx context.Context, argv []string) error {
	_, err := f.Output(ctx, nil, argv)
	return err
}

func (f *fakeExecutor) Output(_ context.Context, log *zap.Logger, argv []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, argv)
	f.logs = append(f.logs, log)
	key := strings.Join(argv[1:], " ")
	if err, ok := f.errs[key]; ok {
		return "", err
	}
	return f.outputs[key], nil
}

func (f *fakeExecutor) argvs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c, " ")
	}
	return out
}

// exitErr mimics tmux running and exiting with status 1.
func exitErr(args ...string) error {
	return &CommandError{Args: append([]string{"tmux"}, args...), ExitCode: 1, Stderr: "no server running", Err: errors.New("exit status 1")}
}

// startErr mimics the executable not being found.
func startErr(args ...string) error {
	return &CommandError{Args: append([]string{"tmux"}, args...), ExitCode: -1, Err: errors.New(`exec: "tmux": executable file not found in $PATH`)}
}
