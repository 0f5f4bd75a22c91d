package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/api"
)

var categoryName, categoryDescription string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Manage product categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		cats, err := app.api.ListCategories(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range cats {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return nil
	},
}

var categoriesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		cat, err := app.api.CreateCategory(cmd.Context(), api.CategoryInput{
			Name:        categoryName,
			Description: categoryDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created category %s (%s)\n", cat.Name, cat.ID)
		return nil
	},
}

var categoriesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a category",
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

		cat, err := app.api.UpdateCategory(cmd.Context(), args[0], api.CategoryInput{
			Name:        categoryName,
			Description: categoryDescription,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Updated category %s\n", cat.ID)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
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

		if err := app.api.DeleteCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted category %s\n", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{categoriesCreateCmd, categoriesUpdateCmd} {
		c.Flags().StringVar(&categoryName, "name", "", "category name")
		c.Flags().StringVar(&categoryDescription, "description", "", "category description")
	}
	categoriesCmd.AddCommand(categoriesListCmd, categoriesCreateCmd, categoriesUpdateCmd, categoriesDeleteCmd)
	rootCmd.AddCommand(categoriesCmd)
}
