package ffmpeg

import (
	"context"
	"os/exec"
	"strings"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"go.uber.org/zap"
)

// ExecRunner invokes the external media engine through os/exec. It is the
// only place in the repository that spawns processes; every stage goes
// through it so the pipeline can be tested with a fake runner.
type ExecRunner struct {
	logger *zap.Logger
}

func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, stage string, name string, args ...string) ([]byte, error) {
	r.logger.Debug("running external tool",
		zap.String("stage", stage),
		zap.String("command", name+" "+strings.Join(args, " ")),
	)

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, &entity.ExternalToolError{
			Stage:  stage,
			Output: string(output),
			Err:    err,
		}
	}
	return output, nil
}
