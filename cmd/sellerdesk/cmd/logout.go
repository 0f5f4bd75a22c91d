package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/audit"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session and clear local credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		actor := app.actorEmail()
		if err := app.api.Logout(cmd.Context()); err != nil {
			app.activity.Record(actor, "auth.logout", "", audit.OutcomeError, err.Error())
			return err
		}
		app.activity.Record(actor, "auth.logout", "", audit.OutcomeOK, "")
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
