package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtplus/rtplus/internal/store"
	"github.com/rtplus/rtplus/internal/ui/layout"
	"github.com/rtplus/rtplus/internal/ui/theme"
)

var orgCmd = &cobra.Command{
	Use:   "org",
	Short: "Manage organizations",
}

var orgCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an organization, optionally with its first member",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		slug, _ := cmd.Flags().GetString("slug")
		sandboxOrg, _ := cmd.Flags().GetBool("sandbox")
		ownerEmail, _ := cmd.Flags().GetString("owner-email")
		ownerName, _ := cmd.Flags().GetString("owner-name")

		if slug == "" {
			slug = slugify(name)
		}
		if slug == "" {
			return fmt.Errorf("cannot derive a slug from %q; use --slug", name)
		}

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		org, err := s.Organizations().Create(ctx, name, slug, sandboxOrg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s (%s)\n", theme.Ok.Render("created"), org.Name, org.Slug)

		if ownerEmail != "" {
			if ownerName == "" {
				ownerName = ownerEmail
			}
			p, err := s.People().Create(ctx, org.ID, store.NewPerson{Name: ownerName, Email: ownerEmail})
			if err != nil {
				return fmt.Errorf("add owner: %w", err)
			}
			fmt.Fprintf(out, "%s %s <%s>\n", theme.Ok.Render("added"), p.Name, p.Email)
		}
		return nil
	},
}

var orgListCmd = &cobra.Command{
	Use:   "list",
	Short: "List organizations",
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
		out := cmd.OutOrStdout()
		if len(orgs) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No organizations yet. Create one with: rtplus org create <name>"))
			return nil
		}

		rows := make([][]string, 0, len(orgs))
		for _, o := range orgs {
			kind := ""
			if o.Sandbox {
				kind = "sandbox"
			}
			rows = append(rows, []string{o.Slug, o.Name, kind, o.CreatedAt.Local().Format("2006-01-02")})
		}
		fmt.Fprint(out, layout.Table([]string{"Slug", "Name", "Kind", "Created"}, rows))
		return nil
	},
}

// slugify lowercases name and joins its alphanumeric runs with dashes.
func slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func init() {
	orgCreateCmd.Flags().String("slug", "", "URL slug (default: derived from the name)")
	orgCreateCmd.Flags().Bool("sandbox", false, "Mark as a sandbox organization (generated personnel emails)")
	orgCreateCmd.Flags().String("owner-email", "", "Email of the first member, who can then sign in")
	orgCreateCmd.Flags().String("owner-name", "", "Name of the first member")

	orgCmd.AddCommand(orgCreateCmd)
	orgCmd.AddCommand(orgListCmd)
}
