package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/personnel"
	"github.com/rtplus/rtplus/internal/ui/layout"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import records from files",
}

var importPersonnelCmd = &cobra.Command{
	Use:   "personnel <file.csv|file.json>",
	Short: "Import personnel into an organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sandboxFlag, _ := cmd.Flags().GetBool("sandbox")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		rows, err := readPersonnel(args[0])
		if err != nil {
			return err
		}

		s, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		org, err := orgBySlug(cmd, s)
		if err != nil {
			return err
		}

		im := personnel.NewImporter(s.PersonnelImport())
		res, err := im.Import(cmd.Context(), org.ID, rows, personnel.Options{
			Sandbox:       sandboxFlag || org.Sandbox,
			SandboxDomain: cfg.SandboxDomain,
			DryRun:        dryRun,
		})
		if err != nil {
			return err
		}
		printImportResult(cmd.OutOrStdout(), res, dryRun)
		return nil
	},
}

// readPersonnel parses a CSV or JSON file, chosen by extension.
func readPersonnel(path string) ([]personnel.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return personnel.ParseCSV(f)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return personnel.ParseJSON(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .json)", filepath.Ext(path))
	}
}

func printImportResult(out io.Writer, res *personnel.Result, dryRun bool) {
	if dryRun {
		fmt.Fprintln(out, theme.Title.Render("Dry run: nothing was written"))
		if len(res.Planned) > 0 {
			rows := make([][]string, 0, len(res.Planned))
			for _, r := range res.Planned {
				rows = append(rows, []string{strconv.Itoa(r.Line), r.Name, r.Email})
			}
			fmt.Fprint(out, layout.Table([]string{"Line", "Name", "Email"}, rows))
		}
	}

	issues := make([][]string, 0, len(res.Skipped)+len(res.Invalid))
	for _, i := range res.Skipped {
		issues = append(issues, []string{strconv.Itoa(i.Line), theme.Warn.Render("skipped"), i.Name, i.Reason})
	}
	for _, i := range res.Invalid {
		issues = append(issues, []string{strconv.Itoa(i.Line), theme.Fail.Render("invalid"), i.Name, i.Reason})
	}
	if len(issues) > 0 {
		fmt.Fprint(out, layout.Table([]string{"Line", "Outcome", "Name", "Reason"}, issues))
	}

	created := len(res.Created)
	if dryRun {
		created = len(res.Planned)
	}
	verb := "created"
	if dryRun {
		verb = "would create"
	}
	fmt.Fprintf(out, "\n%s %d, skipped %d, invalid %d\n",
		theme.Ok.Render(verb), created, len(res.Skipped), len(res.Invalid))
}

func init() {
	importPersonnelCmd.Flags().String("org", "", "Organization slug (required)")
	importPersonnelCmd.Flags().Bool("sandbox", false, "Generate emails for rows without one")
	importPersonnelCmd.Flags().Bool("dry-run", false, "Validate and report without writing")
	_ = importPersonnelCmd.MarkFlagRequired("org")

	importCmd.AddCommand(importPersonnelCmd)
}
