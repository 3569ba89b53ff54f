package port

import "context"

// CommandRunner is the narrow seam to the external media engine: a command
// in, its combined output or a stage-tagged error out. Everything the
// pipeline delegates goes through here, so stages are testable without
// invoking real media processing.
type CommandRunner interface {
	Run(ctx context.Context, stage string, name string, args ...string) ([]byte, error)
}
