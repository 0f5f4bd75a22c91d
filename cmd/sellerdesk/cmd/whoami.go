package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		sess := app.store.Snapshot()
		if sess.AccessToken == "" {
			fmt.Println("Not logged in.")
			return nil
		}

		if p := sess.Profile; p != nil {
			fmt.Printf("User:    %s <%s>\n", p.Name, p.Email)
			if p.VendorName != "" {
				fmt.Printf("Vendor:  %s\n", p.VendorName)
			}
		}
		switch {
		case sess.ExpiresAt.IsZero():
			fmt.Println("Expires: unknown")
		case time.Now().After(sess.ExpiresAt):
			fmt.Printf("Expires: %s (expired; will refresh on next request)\n",
				sess.ExpiresAt.Local().Format(time.RFC1123))
		default:
			fmt.Printf("Expires: %s\n", sess.ExpiresAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
