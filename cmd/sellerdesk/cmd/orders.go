package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/api"
)

var orderStatusFilter string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "View and manage orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, optionally by status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		orders, err := app.api.ListOrders(cmd.Context(), api.OrderStatus(orderStatusFilter))
		if err != nil {
			return err
		}
		for _, o := range orders {
			fmt.Printf("%s\t%-12s\t%-10s\t%8.2f\t%s\n",
				o.ID, o.Number, o.Status, o.Total, o.CustomerName)
		}
		return nil
	},
}

var ordersShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one order with its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		o, err := app.api.GetOrder(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Order %s (%s)\n", o.Number, o.Status)
		fmt.Printf("Customer: %s <%s>\n", o.CustomerName, o.CustomerEmail)
		for _, item := range o.Items {
			fmt.Printf("  %dx %-30s %8.2f\n", item.Quantity, item.Name, item.UnitPrice)
		}
		fmt.Printf("Total: %.2f\n", o.Total)
		return nil
	},
}

var ordersSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Move an order to a new status",
	Long: `Move an order to a new lifecycle status.

Valid statuses: pending, processing, shipped, delivered, cancelled`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		o, err := app.api.UpdateOrderStatus(cmd.Context(), args[0], api.OrderStatus(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("Order %s is now %s\n", o.Number, o.Status)
		return nil
	},
}

func init() {
	ordersListCmd.Flags().StringVar(&orderStatusFilter, "status", "", "filter by status")
	ordersCmd.AddCommand(ordersListCmd, ordersShowCmd, ordersSetStatusCmd)
	rootCmd.AddCommand(ordersCmd)
}
