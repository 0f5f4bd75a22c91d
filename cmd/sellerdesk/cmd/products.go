package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellerdesk/sellerdesk/internal/api"
)

var (
	productCategoryID  string
	productName        string
	productDescription string
	productPrice       float64
	productStock       int
	productImageURL    string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		products, err := app.api.ListProducts(cmd.Context(), productCategoryID)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%s\t%-30s\t%8.2f\t%d in stock\n", p.ID, p.Name, p.Price, p.Stock)
		}
		return nil
	},
}

var productsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one product",
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

		p, err := app.api.GetProduct(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", p.Name, p.ID)
		if p.Description != "" {
			fmt.Println(p.Description)
		}
		fmt.Printf("Category: %s\nPrice:    %.2f\nStock:    %d\n", p.CategoryID, p.Price, p.Stock)
		return nil
	},
}

var productsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a product",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.close()
		if err := app.requireSession(); err != nil {
			return err
		}

		p, err := app.api.CreateProduct(cmd.Context(), productInputFromFlags())
		if err != nil {
			return err
		}
		fmt.Printf("Created product %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var productsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a product",
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

		p, err := app.api.UpdateProduct(cmd.Context(), args[0], productInputFromFlags())
		if err != nil {
			return err
		}
		fmt.Printf("Updated product %s\n", p.ID)
		return nil
	},
}

var productsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product",
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

		if err := app.api.DeleteProduct(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted product %s\n", args[0])
		return nil
	},
}

func productInputFromFlags() api.ProductInput {
	return api.ProductInput{
		CategoryID:  productCategoryID,
		Name:        productName,
		Description: productDescription,
		Price:       productPrice,
		Stock:       productStock,
		ImageURL:    productImageURL,
	}
}

func init() {
	productsListCmd.Flags().StringVar(&productCategoryID, "category", "", "filter by category id")
	for _, c := range []*cobra.Command{productsCreateCmd, productsUpdateCmd} {
		c.Flags().StringVar(&productCategoryID, "category", "", "category id")
		c.Flags().StringVar(&productName, "name", "", "product name")
		c.Flags().StringVar(&productDescription, "description", "", "product description")
		c.Flags().Float64Var(&productPrice, "price", 0, "unit price")
		c.Flags().IntVar(&productStock, "stock", 0, "stock count")
		c.Flags().StringVar(&productImageURL, "image-url", "", "product image URL")
	}
	productsCmd.AddCommand(productsListCmd, productsShowCmd, productsCreateCmd, productsUpdateCmd, productsDeleteCmd)
	rootCmd.AddCommand(productsCmd)
}
