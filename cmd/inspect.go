package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/content-aggregator/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/aggregator"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/domain"
	"github.com/jonesrussell/north-cloud/content-aggregator/internal/upstream"
)

type inspectOptions struct {
	provider string
	file     string
	siteURL  string
	raw      bool
	filters  domain.FilterSpec
	page     domain.PageRequest
}

func inspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run the aggregation pipeline over a local JSON file",
		Long: `Normalizes, filters and paginates the raw records in --file exactly as
the API would, printing the resulting page as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.provider, "provider", "", "provider tag: blog, news or tools")
	f.StringVar(&opts.file, "file", "", "JSON array of raw records")
	f.StringVar(&opts.siteURL, "site-url", "", "site URL for canonical links")
	f.BoolVar(&opts.raw, "raw", false, "include raw payloads")
	f.IntVar(&opts.page.Page, "page", 1, "page number")
	f.IntVar(&opts.page.Limit, "limit", 0, "page size (0 uses the provider default)")
	f.StringVar(&opts.filters.Category, "category", "", "category filter")
	f.StringVar(&opts.filters.Tag, "tag", "", "tag filter")
	f.StringVar(&opts.filters.Search, "search", "", "search filter")
	f.StringVar(&opts.filters.Author, "author", "", "author filter")
	_ = cmd.MarkFlagRequired("provider")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runInspect(cmd *cobra.Command, opts *inspectOptions) error {
	p, err := domain.ParseProvider(opts.provider)
	if err != nil {
		return err
	}

	raws, err := upstream.NewFileFetcher(p, opts.file).Fetch(cmd.Context())
	if err != nil {
		return err
	}

	level := "warn"
	if debug {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Level: level, OutputPaths: []string{"stderr"}})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	engine := aggregator.New(aggregator.Options{SiteURL: opts.siteURL, Logger: log})
	result, err := engine.GetPage(p, raws, opts.filters, opts.page)
	if err != nil {
		return err
	}
	if !opts.raw {
		for i := range result.Records {
			result.Records[i] = result.Records[i].WithoutRaw()
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
