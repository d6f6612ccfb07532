package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/isomorph-labs/isomorph/internal/cli/config"
	"github.com/isomorph-labs/isomorph/pkg/parser"
	"github.com/isomorph-labs/isomorph/pkg/semantic"
)

// DiagramExt is the file extension of diagram sources.
const DiagramExt = ".isx"

// FileReport holds all findings for one source file.
type FileReport struct {
	Path      string     `json:"path"`
	LexErrors []string   `json:"lexErrors,omitempty"`
	Syntax    []string   `json:"syntaxErrors,omitempty"`
	Semantic  []*Finding `json:"semanticErrors,omitempty"`
	Diagrams  int        `json:"diagrams"`
}

// Finding is one semantic finding in a report.
type Finding struct {
	Rule    string `json:"rule"`
	Entity  string `json:"entity,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// Clean reports whether the file produced no findings.
func (r *FileReport) Clean() bool {
	return len(r.LexErrors) == 0 && len(r.Syntax) == 0 && len(r.Semantic) == 0
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files or directories]",
		Short: "Parse and validate diagram files",
		Long: `Parse the given diagram files and run semantic analysis on them.

With no arguments, all ` + DiagramExt + ` files under the configured diagrams
directory are checked. Files are processed in parallel; findings are
reported per file in path order.`,
		Example: `  # Check everything under the diagrams directory
  isomorph check

  # Check specific files
  isomorph check shop.isx billing/invoices.isx

  # Machine-readable report
  isomorph check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := RuntimeFrom(cmd)

			files, err := CollectDiagramFiles(args, rt.Config.DiagramsDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				rt.Renderer.Warning("no %s files found", DiagramExt)
				return nil
			}

			reports, err := CheckFiles(cmd, files, rt.Config)
			if err != nil {
				return err
			}
			return renderReports(cmd, reports)
		},
	}
	return cmd
}

// CollectDiagramFiles expands the given paths into a sorted list of diagram
// files. Directories are walked recursively; an empty argument list falls
// back to defaultDir.
func CollectDiagramFiles(args []string, defaultDir string) ([]string, error) {
	if len(args) == 0 {
		args = []string{defaultDir}
	}

	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(path) == DiagramExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// CheckFiles parses and analyzes every file, in parallel. The returned
// reports are in the same order as the input files.
func CheckFiles(cmd *cobra.Command, files []string, cfg *config.Config) ([]*FileReport, error) {
	rt := RuntimeFrom(cmd)

	reports := make([]*FileReport, len(files))
	var mu sync.Mutex

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for i, path := range files {
		g.Go(func() error {
			report, err := checkFile(path, cfg)
			if err != nil {
				return err
			}
			mu.Lock()
			reports[i] = report
			mu.Unlock()
			rt.Logger.Debug("checked file", "path", path, "clean", report.Clean())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func checkFile(path string, cfg *config.Config) (*FileReport, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	report := &FileReport{Path: path}
	parsed := parser.Parse(string(source))
	for _, e := range parsed.LexErrors {
		report.LexErrors = append(report.LexErrors, e.Error())
	}
	for _, e := range parsed.Errors {
		report.Syntax = append(report.Syntax, e.Error())
	}
	report.Diagrams = len(parsed.Program.Diagrams)

	res := semantic.Analyze(parsed.Program)
	for _, e := range res.Errors {
		if cfg.Rules.IsDisabled(e.Rule) {
			continue
		}
		report.Semantic = append(report.Semantic, &Finding{
			Rule:    e.Rule,
			Entity:  e.Entity,
			Line:    e.Pos.Line,
			Column:  e.Pos.Column,
			Message: e.Message,
		})
	}
	return report, nil
}

func renderReports(cmd *cobra.Command, reports []*FileReport) error {
	rt := RuntimeFrom(cmd)
	r := rt.Renderer

	if r.IsJSON() {
		if err := r.JSON(reports); err != nil {
			return err
		}
		return exitStatus(reports)
	}

	total := 0
	for _, report := range reports {
		if report.Clean() {
			continue
		}
		r.Header(report.Path)
		for _, msg := range report.LexErrors {
			r.Error("%s", msg)
			total++
		}
		for _, msg := range report.Syntax {
			r.Error("%s", msg)
			total++
		}
		for _, f := range report.Semantic {
			r.Error("%s:%d:%d [%s] %s", report.Path, f.Line, f.Column, f.Rule, f.Message)
			total++
		}
	}

	rows := make([][]string, 0, len(reports))
	for _, report := range reports {
		status := "ok"
		if !report.Clean() {
			status = "failed"
		}
		rows = append(rows, []string{
			report.Path,
			strconv.Itoa(report.Diagrams),
			strconv.Itoa(len(report.LexErrors) + len(report.Syntax)),
			strconv.Itoa(len(report.Semantic)),
			status,
		})
	}
	r.Table([]string{"File", "Diagrams", "Syntax", "Semantic", "Status"}, rows)

	if total > 0 {
		return fmt.Errorf("%d problem(s) found in %d file(s)", total, len(reports))
	}
	r.Success("%d file(s) checked, no problems found", len(reports))
	return nil
}

func exitStatus(reports []*FileReport) error {
	total := 0
	for _, report := range reports {
		total += len(report.LexErrors) + len(report.Syntax) + len(report.Semantic)
	}
	if total > 0 {
		return fmt.Errorf("%d problem(s) found", total)
	}
	return nil
}
