package cli

import (
	"github.com/spf13/cobra"
)

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "connectlink",
		Short: "ConnectLink terminal client",
		Long: `Register, log in and manage your ConnectLink profile from the terminal.

The session is kept in a local SQLite file (see --session) and checked
against the server on every command that needs it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context())
		},
	}

	root.SetOut(a.out)
	root.SetErr(a.out)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.config.ServerURL, "server", "a", a.config.ServerURL, "API base URL, including the /api prefix")
	pf.StringVarP(&a.config.SessionFile, "session", "f", a.config.SessionFile, "session database file")
	pf.DurationVarP(&a.config.RequestTimeout, "timeout", "t", a.config.RequestTimeout, "HTTP request timeout")
	// read by config.LoadConfig before cobra runs; declared so cobra accepts it
	pf.StringP("config", "c", "", "path to a JSON or YAML config file")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.meCommand(),
		a.profileCommand(),
		a.dashboardCommand(),
		a.avatarCommand(),
		a.opportunitiesCommand(),
	)
	return root
}
