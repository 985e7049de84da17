package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/connectlink/internal/client/models"
	"github.com/spf13/cobra"
)

func (a *App) opportunitiesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "opportunities",
		Aliases: []string{"opps"},
		Short:   "List open opportunities",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.auth.Opportunities(cmd.Context(), limit)
			if err != nil {
				return describe(err)
			}
			printOpportunities(a.out, list)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of opportunities (server default when 0)")
	return cmd
}

func (a *App) dashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.auth.Dashboard(cmd.Context())
			if err != nil {
				return describe(err)
			}

			fmt.Fprintf(a.out, "Welcome back, %s\n", d.User.Email)
			fmt.Fprintf(a.out, "Open opportunities: %d\n", d.Stats.TotalOpportunities)
			fmt.Fprintf(a.out, "Your applications:  %d\n", d.Stats.ActiveApplications)
			if len(d.Opportunities) > 0 {
				fmt.Fprintln(a.out, "\nLatest:")
				printOpportunities(a.out, d.Opportunities)
			}
			return nil
		},
	}
}

func printOpportunities(w io.Writer, list []models.Opportunity) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No opportunities found")
		return
	}
	for _, o := range list {
		fmt.Fprintf(w, "- %s (%s)", o.Title, o.OrganizationName)
		if o.Location != "" {
			fmt.Fprintf(w, ", %s", o.Location)
		}
		fmt.Fprintln(w)
		if len(o.SkillsRequired) > 0 {
			fmt.Fprintf(w, "  skills: %s\n", strings.Join(o.SkillsRequired, ", "))
		}
		fmt.Fprintf(w, "  id: %s\n", o.ID)
	}
}
