package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/artisan-marketplace/internal/cart"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the session's cart",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart with product and artisan details",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store := a.newStore()
				if err := store.Load(cmd.Context()); err != nil {
					return err
				}
				return a.renderCart(cart.NewView(store))
			},
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, store := a.cartContext(cmd.Context())
				if err := store.AddToCart(ctx, args[0]); err != nil {
					return err
				}
				return a.renderCart(cart.Use(ctx, a.logger))
			},
		},
		&cobra.Command{
			Use:   "update <item-id> <quantity>",
			Short: "Set the quantity of a line item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity must be a whole number: %q", args[1])
				}
				ctx, store := a.cartContext(cmd.Context())
				if err := store.UpdateQuantity(ctx, args[0], qty); err != nil {
					return err
				}
				return a.renderCart(cart.Use(ctx, a.logger))
			},
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Remove a line item",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, store := a.cartContext(cmd.Context())
				if err := store.RemoveFromCart(ctx, args[0]); err != nil {
					return err
				}
				return a.renderCart(cart.Use(ctx, a.logger))
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every item from the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, store := a.cartContext(cmd.Context())
				if err := store.ClearCart(ctx); err != nil {
					return err
				}
				return a.renderCart(cart.Use(ctx, a.logger))
			},
		},
	)
	return cmd
}

func (a *app) renderCart(v cart.View) error {
	if a.jsonOut {
		return a.printJSON(cart.Snapshot{Items: v.Items, Total: v.Total, ItemCount: v.ItemCount, IsOpen: v.IsOpen})
	}

	if len(v.Items) == 0 {
		fmt.Fprintln(a.out, "Your cart is empty.")
		return nil
	}
	tw := a.table()
	fmt.Fprintln(tw, "ITEM\tPRODUCT\tARTISAN\tQTY\tPRICE")
	for _, it := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.Product.Name, it.Product.ArtisanName, it.Quantity, it.Product.Price)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\n%d item(s), total %s\n", v.ItemCount, v.Total.StringFixed(2))
	return nil
}
