package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/audit"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email, password, and emailed OTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()

		email := loginEmail
		if email == "" {
			if email, err = prompt("Email: "); err != nil {
				return err
			}
		}
		password, err := prompt("Password: ")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		otpRequired, err := app.api.Login(ctx, email, password)
		if err != nil {
			app.activity.Record(email, "auth.login", "", audit.OutcomeError, err.Error())
			return err
		}

		if otpRequired {
			code, err := prompt("OTP code (check your email): ")
			if err != nil {
				return err
			}
			profile, err := app.api.VerifyOTP(ctx, email, code)
			if err != nil {
				app.activity.Record(email, "auth.verify_otp", "", audit.OutcomeError, err.Error())
				return err
			}
			app.activity.Record(email, "auth.login", "", audit.OutcomeOK, "")
			if profile != nil && profile.VendorName != "" {
				fmt.Printf("Logged in as %s (%s)\n", profile.Name, profile.VendorName)
				return nil
			}
		} else {
			app.activity.Record(email, "auth.login", "", audit.OutcomeOK, "otp waived")
		}
		fmt.Println("Logged in.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}
