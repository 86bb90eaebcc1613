package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"satellite-agent/internal/di"
	"satellite-agent/internal/domain/entity"
	"satellite-agent/internal/raster"
	"satellite-agent/internal/usecase/portal"
)

func main() {
	root := &cobra.Command{
		Use:           "agent",
		Short:         "Browser agent for the Copernicus imagery portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCmd(), newDownloadCmd(), newConvertCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newSearchCmd() *cobra.Command {
	var location, period, imageType string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the portal for data products",
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := entity.ParseImageType(imageType)
			if err != nil {
				return err
			}

			c, err := di.NewContainer("search_" + location)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			records, err := c.Agent.Search(ctx, entity.SearchQuery{
				Location:   location,
				TimePeriod: period,
				ImageType:  it,
			})
			if err != nil {
				// Contract: a failed search reports an empty result list.
				c.Logger.Error("search failed", "error", err)
				records = nil
			}

			if records == nil {
				records = []entity.ProductRecord{}
			}
			return printJSON(records)
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "area of interest (free text)")
	cmd.Flags().StringVar(&period, "period", "last week", `time period ("last week", "2024-01-01 to 2024-01-15", or a single date)`)
	cmd.Flags().StringVar(&imageType, "type", "optical", "image type: optical or radar")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newDownloadCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <product-id>",
		Short: "Download one product by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID := args[0]

			c, err := di.NewContainer("download_" + productID)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()

			path, err := c.Agent.Download(ctx, productID, dir)
			if err != nil {
				return err
			}
			return printJSON(entity.DownloadResult{ProductID: productID, Path: path})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", portal.DefaultDownloadDir, "directory to save the product into")

	return cmd
}

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <product.zip>",
		Short: "Extract a downloaded product and convert its TCI raster to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := raster.ProcessArchive(args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
