package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
)

func newProductsCmd(a *app) *cobra.Command {
	var (
		category string
		featured bool
		artisan  string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out []catalog.Product
				err error
			)
			switch {
			case artisan != "":
				out, err = a.api.GetProductsByArtisan(cmd.Context(), artisan)
			case featured:
				out, err = a.api.GetFeaturedProducts(cmd.Context())
			default:
				out, err = a.api.GetProducts(cmd.Context(), category)
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(out)
			}
			tw := a.table()
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tIN STOCK")
			for _, p := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", p.ID, p.Name, p.Category, p.Price, p.InStock)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only products in this category")
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured products")
	cmd.Flags().StringVar(&artisan, "artisan", "", "only products by this artisan id")
	return cmd
}

func newArtisansCmd(a *app) *cobra.Command {
	var featured bool
	cmd := &cobra.Command{
		Use:   "artisans",
		Short: "List artisans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				out []catalog.Artisan
				err error
			)
			if featured {
				out, err = a.api.GetFeaturedArtisans(cmd.Context())
			} else {
				out, err = a.api.GetArtisans(cmd.Context())
			}
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(out)
			}
			tw := a.table()
			fmt.Fprintln(tw, "ID\tNAME\tSPECIALTY\tLOCATION\tVERIFIED")
			for _, ar := range out {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\n", ar.ID, ar.Name, ar.Specialty, ar.Location, ar.Verified)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&featured, "featured", false, "only featured artisans")
	return cmd
}

func newStoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "Generate and review AI product stories",
	}

	var req catalog.GenerationRequest
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a product description and captions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			story, err := a.api.GenerateStory(cmd.Context(), req)
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(story)
			}
			fmt.Fprintln(a.out, story.Description)
			fmt.Fprintln(a.out)
			for i, c := range story.Captions {
				fmt.Fprintf(a.out, "%d. %s\n", i+1, c)
			}
			return nil
		},
	}
	generate.Flags().StringVar(&req.ArtisanID, "artisan", "", "artisan id")
	generate.Flags().StringVar(&req.ProductName, "product", "", "product name")
	generate.Flags().StringVar(&req.CraftType, "craft", "", "craft type")
	generate.Flags().StringVar(&req.Heritage, "heritage", "", "cultural heritage (optional)")

	history := &cobra.Command{
		Use:   "history <artisan-id>",
		Short: "List previous generations for an artisan, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := a.api.GetGenerations(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.jsonOut {
				return a.printJSON(gens)
			}
			tw := a.table()
			fmt.Fprintln(tw, "CREATED\tPRODUCT\tCRAFT\tDESCRIPTION")
			for _, g := range gens {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.CreatedAt.Format("2006-01-02 15:04"), g.ProductName, g.CraftType, g.GeneratedDescription)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(generate, history)
	return cmd
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the Content API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := a.api.Health(cmd.Context(), a.timeout)
			if a.jsonOut {
				if err := a.printJSON(rep); err != nil {
					return err
				}
			} else if rep.Healthy {
				fmt.Fprintf(a.out, "%s: %s (%d)\n", rep.Service, rep.Status, rep.StatusCode)
			}
			return rep.Err()
		},
	}
}
