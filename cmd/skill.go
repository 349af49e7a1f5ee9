package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/store"
	"github.com/rtplus/rtplus/internal/ui/layout"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Browse an organization's skill catalogue",
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List skills (optionally filtered by capability)",
	RunE: func(cmd *cobra.Command, args []string) error {
		capName, _ := cmd.Flags().GetString("capability")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		org, err := orgBySlug(cmd, s)
		if err != nil {
			return err
		}

		ctx, cat := cmd.Context(), s.Catalogue()
		caps, err := cat.ListCapabilities(ctx, org.ID)
		if err != nil {
			return err
		}
		groups, err := cat.ListSkillGroups(ctx, org.ID)
		if err != nil {
			return err
		}
		skills, err := cat.ListSkills(ctx, org.ID)
		if err != nil {
			return err
		}

		capNames := make(map[string]string, len(caps))
		var capID string
		for _, c := range caps {
			capNames[c.ID] = c.Name
			if c.Name == capName {
				capID = c.ID
			}
		}
		if capName != "" && capID == "" {
			return fmt.Errorf("no capability named %q in %s", capName, org.Slug)
		}
		groupNames := make(map[string]string, len(groups))
		for _, g := range groups {
			groupNames[g.ID] = g.Name
		}

		var rows [][]string
		for _, sk := range skills {
			if capID != "" && sk.CapabilityID != capID {
				continue
			}
			rows = append(rows, skillRow(sk, capNames, groupNames))
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, layout.Table([]string{"Name", "Capability", "Group", "Frequency", "Optional"}, rows))
		fmt.Fprintf(out, "\n%d skills\n", len(rows))
		return nil
	},
}

func skillRow(sk store.Skill, capNames, groupNames map[string]string) []string {
	optional := ""
	if sk.Optional {
		optional = "yes"
	}
	return []string{sk.Name, capNames[sk.CapabilityID], groupNames[sk.SkillGroupID], sk.Frequency, optional}
}

func init() {
	skillListCmd.Flags().String("org", "", "Organization slug (required)")
	skillListCmd.Flags().String("capability", "", "Only list skills of this capability")
	_ = skillListCmd.MarkFlagRequired("org")

	skillCmd.AddCommand(skillListCmd)
}
