package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/store"
	"github.com/rtplus/rtplus/internal/ui/layout"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts per organization",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		orgs, err := s.Organizations().List(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(orgs))
		for _, o := range orgs {
			row, err := orgStats(cmd, s, o)
			if err != nil {
				return fmt.Errorf("%s: %w", o.Slug, err)
			}
			rows = append(rows, row)
		}

		fmt.Fprint(cmd.OutOrStdout(), layout.Table(
			[]string{"Org", "Teams", "Personnel", "Skills", "Assessments", "Sessions"}, rows))
		return nil
	},
}

func orgStats(cmd *cobra.Command, s *store.Store, o store.Organization) ([]string, error) {
	ctx := cmd.Context()
	teams, err := s.Teams().List(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	people, err := s.People().List(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	skills, err := s.Catalogue().ListSkills(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	assessments, err := s.Assessments().ListAssessments(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Assessments().ListSessions(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return []string{
		o.Slug,
		strconv.Itoa(len(teams)),
		strconv.Itoa(len(people)),
		strconv.Itoa(len(skills)),
		strconv.Itoa(len(assessments)),
		strconv.Itoa(len(sessions)),
	}, nil
}
