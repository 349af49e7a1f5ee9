package cmd

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/currency"
	"github.com/rtplus/rtplus/internal/ui/layout"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var currencyCmd = &cobra.Command{
	Use:   "currency <email>",
	Short: "Show which of a person's skills are current, expiring or expired",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, _ := cmd.Flags().GetString("at")
		now := time.Now()
		if at != "" {
			var err error
			if now, err = time.Parse("2006-01-02", at); err != nil {
				return fmt.Errorf("--at: %w", err)
			}
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		org, err := orgBySlug(cmd, s)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		person, err := s.People().GetByEmail(ctx, org.ID, args[0])
		if err != nil {
			return fmt.Errorf("%s in %s: %w", args[0], org.Slug, err)
		}
		checks, err := s.Assessments().ListChecksForPerson(ctx, org.ID, person.ID)
		if err != nil {
			return err
		}
		skills, err := s.Catalogue().ListSkills(ctx, org.ID)
		if err != nil {
			return err
		}
		rows, err := currency.Assess(skills, checks, now)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(person.Name))
		table := make([][]string, 0, len(rows))
		for _, r := range rows {
			table = append(table, []string{r.Skill, r.Frequency, orDash(r.LastCompetent), orDash(r.NextDue), statusStyle(r.Status).Render(string(r.Status))})
		}
		fmt.Fprint(out, layout.Table([]string{"Skill", "Frequency", "Last competent", "Next due", "Status"}, table))

		sum := currency.Summary(rows)
		fmt.Fprintf(out, "\n%d current, %d expiring, %d expired, %d not yet competent, %d never checked\n",
			sum[currency.StatusCurrent], sum[currency.StatusExpiring], sum[currency.StatusExpired],
			sum[currency.StatusNotYetCompetent], sum[currency.StatusNeverChecked])
		return nil
	},
}

func statusStyle(st currency.Status) lipgloss.Style {
	switch st {
	case currency.StatusCurrent:
		return theme.Ok
	case currency.StatusExpiring:
		return theme.Warn
	case currency.StatusNeverChecked:
		return theme.Hint
	default:
		return theme.Fail
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	currencyCmd.Flags().String("org", "", "Organization slug (required)")
	currencyCmd.Flags().String("at", "", "Assess as of this date (YYYY-MM-DD, default today)")
	_ = currencyCmd.MarkFlagRequired("org")
}
