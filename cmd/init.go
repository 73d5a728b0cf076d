package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poikilos/anewcommit/internal/logging"
	"github.com/poikilos/anewcommit/internal/model"
	"github.com/poikilos/anewcommit/internal/output"
	"github.com/poikilos/anewcommit/internal/parser"
	"github.com/poikilos/anewcommit/internal/scan"
)

// Init command flags.
var (
	initFlagMode   string
	initFlagNoScan bool
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init DIR",
	Short: "Create a project from a folder of snapshots",
	Long: `Create anewcommit.json in DIR with one version per subdirectory, in name
order, each followed by a no-op transition. Unless --no-scan is given, each
version gets its newest file and that file's date as the captured date.

Examples:
  anewcommit init ~/snapshots
  anewcommit init . --mode overlay
  anewcommit init ~/snapshots --no-scan`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initFlagMode, "mode", "m", "", "Merge mode for every version (default from config)")
	initCmd.Flags().BoolVar(&initFlagNoScan, "no-scan", false, "Do not read snapshot files for dates")
	rootCmd.AddCommand(initCmd)
}

// initVersion summarizes one seeded version.
type initVersion struct {
	ID    string `json:"id"`
	Path  string `json:"path"`
	Files int    `json:"files"`
	Bytes int64  `json:"bytes"`
	Date  string `json:"captured_date,omitempty"`
}

func runInit(cmd *cobra.Command, args []string) error {
	mode, err := parseMergeMode(initFlagMode)
	if err != nil {
		return err
	}

	dirs, err := scan.Subdirectories(args[0])
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := ctx.CreateProject(args[0]); err != nil {
		return err
	}
	p := ctx.Project

	seeded := make([]initVersion, 0, len(dirs))
	for _, dir := range dirs {
		v, _, err := p.AddVersionWithTransition(dir, mode)
		if err != nil {
			return err
		}
		row := initVersion{ID: v.ID, Path: dir}
		if !initFlagNoScan {
			if err := scanVersion(v.ID, dir, &row); err != nil {
				logging.WarnContext(ctx.Ctx(), "cannot scan snapshot", "path", dir, logging.KeyError, err)
			}
		}
		seeded = append(seeded, row)
	}

	// Seeding is not an edit the user can undo.
	if err := p.RestoreHistory(nil, -1); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]any{
			"status":   "created",
			"path":     p.Path(),
			"versions": seeded,
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Created %s with %d versions", p.Path(), len(seeded)))
	for _, row := range seeded {
		line := fmt.Sprintf("  #%-4s %s", row.ID, model.DefaultDisplayName(row.Path))
		if !initFlagNoScan {
			line += fmt.Sprintf("  %d files, %s", row.Files, output.FormatBytes(row.Bytes))
		}
		if row.Date != "" {
			line += "  " + row.Date
		}
		cli.Println(line)
	}
	return nil
}

func scanVersion(id, dir string, row *initVersion) error {
	st, err := scan.Stat(dir)
	if err != nil {
		return err
	}
	row.Files, row.Bytes = st.Files, st.SizeBytes
	if st.NewestFile == "" {
		return nil
	}
	row.Date = parser.FormatCapturedDate(st.LastModified)
	if err := ctx.Project.SetCapturedDate(id, row.Date); err != nil {
		return err
	}
	return ctx.Project.SetCachedNewestFile(id, st.NewestFile)
}
