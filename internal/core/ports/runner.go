package ports

import "context"

// CommandRunner runs external programs.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Output runs the command and returns its standard output.
	// A non-zero exit status is returned as an error.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)

	// Stream runs the command, forwarding every line of standard output
	// to log.Info and every line of standard error to log.Warn.
	// It blocks until the process exits and both streams are drained.
	Stream(ctx context.Context, log Logger, name string, args ...string) error
}
