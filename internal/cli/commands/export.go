package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isomorph-labs/isomorph/internal/export"
	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		formatFlag string
		outFlag    string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the analyzed model as YAML or JSON",
		Long: `Parse and analyze a diagram file, then serialize the resolved model.

The export is deterministic: entities keep their declaration order and style
maps serialize with sorted keys, so repeated exports of the same source are
byte-identical.`,
		Example: `  # Export to stdout as YAML
  isomorph export shop.isx

  # Export as JSON to a file
  isomorph export shop.isx --format json --out shop.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)

			if formatFlag == "" {
				formatFlag = rt.Config.Export.Format
			}
			if outFlag == "" {
				outFlag = rt.Config.Export.Out
			}
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cannot read %s: %w", args[0], err)
			}

			parsed := parser.Parse(string(source))
			if len(parsed.LexErrors) > 0 || len(parsed.Errors) > 0 {
				return fmt.Errorf("%s has syntax errors; run 'isomorph check' first", args[0])
			}
			res := semantic.Analyze(parsed.Program)
			if len(res.Errors) > 0 {
				rt.Renderer.Warning("%d semantic problem(s); exporting best-effort model", len(res.Errors))
			}

			if outFlag == "" {
				return export.Write(cmd.OutOrStdout(), res.IOM, format)
			}

			f, err := os.Create(outFlag)
			if err != nil {
				return fmt.Errorf("cannot create %s: %w", outFlag, err)
			}
			defer func() { _ = f.Close() }()

			if err := export.Write(f, res.IOM, format); err != nil {
				return err
			}
			rt.Renderer.Success("exported %s to %s", args[0], outFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Export format: yaml, json")
	cmd.Flags().StringVar(&outFlag, "out", "", "Write to file instead of stdout")

	return cmd
}
