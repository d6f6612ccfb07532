package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/isomorph-labs/isomorph/internal/cli/config"
	"github.com/isomorph-labs/isomorph/internal/cli/output"
)

// Runtime carries the per-invocation dependencies every command needs.
type Runtime struct {
	Config   *config.Config
	Renderer *output.Renderer
	Logger   *slog.Logger
}

type runtimeKey struct{}

// WithRuntime stores the runtime in a context. The root command calls this
// once configuration is loaded.
func WithRuntime(ctx context.Context, rt *Runtime) context.Context {
	return context.WithValue(ctx, runtimeKey{}, rt)
}

// RuntimeFrom extracts the runtime from a command's context, falling back
// to defaults so commands stay usable in isolation (tests, mainly).
func RuntimeFrom(cmd *cobra.Command) *Runtime {
	if rt, ok := cmd.Context().Value(runtimeKey{}).(*Runtime); ok {
		return rt
	}
	return &Runtime{
		Config:   &config.Config{DiagramsDir: config.DefaultDiagramsDir},
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeText),
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}
