// Package main provides the pricer CLI: quotes, sweeps and comparisons from a
// profile file or a stored user profile.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	config "rent-advisor-api/configs"
	"rent-advisor-api/internal/app"
	"rent-advisor-api/pkg/models"
	"rent-advisor-api/pkg/services"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	profilePath string
	username    string
	occupancy   float64
	outPath     string
	manifest    string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "pricer",
		Short: "Paris short-term vs long-term rental pricing",
		Long: `Predict nightly and monthly prices for a Paris property and compare strategies.

Examples:
  pricer quote --profile flat.json
  pricer sweep --user alice
  pricer compare --user alice --occupancy 72
  pricer export-sweep --profile flat.json --out prices.xlsx
`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.profilePath, "profile", "", "Profile JSON file")
	cmd.PersistentFlags().StringVar(&opts.username, "user", "", "Username in the profile store")
	cmd.PersistentFlags().Float64Var(&opts.occupancy, "occupancy", 0, "Occupancy override in percent (0 = use district data)")
	cmd.PersistentFlags().StringVar(&opts.manifest, "models", "", "Model manifest (overrides MODEL_MANIFEST)")

	cmd.AddCommand(
		quoteCmd(opts),
		sweepCmd(opts),
		impactCmd(opts),
		compareCmd(opts),
		exportSweepCmd(opts),
		amenitiesCmd(opts),
	)
	return cmd
}

func quoteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Full short-term listing report and long-term rent",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(cmd, opts, func(ctx context.Context, a *app.App, p models.UserProfile) error {
				report, err := a.Advisor.BuildListingReport(ctx, p, opts.occupancyOverride())
				if err != nil {
					return err
				}
				rent, err := a.Advisor.QuoteLongTerm(ctx, p)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"short_term": report, "long_term": rent})
			})
		},
	}
}

func sweepCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Nightly price of the listing in every arrondissement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(cmd, opts, func(ctx context.Context, a *app.App, p models.UserProfile) error {
				prices, err := a.Market.PriceSweepByRegion(ctx, p)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), prices)
			})
		},
	}
}

func impactCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "impact",
		Short: "Split the nightly price into baseline, quality and location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(cmd, opts, func(ctx context.Context, a *app.App, p models.UserProfile) error {
				price, err := a.Pricing.PredictShortTermPrice(ctx, p)
				if err != nil {
					return err
				}
				kpis, err := a.Market.PriceImpactKPIs(ctx, p, price)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]any{"current_price": price, "impact": kpis})
			})
		},
	}
}

func compareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare monthly net income of short-term and long-term letting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(cmd, opts, func(ctx context.Context, a *app.App, p models.UserProfile) error {
				report, err := a.Advisor.Compare(ctx, p, opts.occupancyOverride())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	}
}

func exportSweepCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-sweep",
		Short: "Write the arrondissement sweep to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withProfile(cmd, opts, func(ctx context.Context, a *app.App, p models.UserProfile) error {
				prices, err := a.Market.PriceSweepByRegion(ctx, p)
				if err != nil {
					return err
				}
				f, err := os.Create(opts.outPath)
				if err != nil {
					return err
				}
				if err := services.WriteSweepXLSX(f, prices); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d districts to %s\n", len(prices), opts.outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&opts.outPath, "out", "arrondissement_prices.xlsx", "Output workbook")
	return cmd
}

func amenitiesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "amenities",
		Short: "List the amenity labels the pricing model understands",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, cleanup, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			for _, label := range a.Pricing.Catalog().Labels() {
				fmt.Fprintln(cmd.OutOrStdout(), label)
			}
			return nil
		},
	}
}

func (o *options) occupancyOverride() *float64 {
	if o.occupancy == 0 {
		return nil
	}
	v := o.occupancy
	return &v
}

func (o *options) open(ctx context.Context) (*app.App, func(), error) {
	cfg := config.LoadConfig()
	if o.manifest != "" {
		cfg.ModelManifest = o.manifest
	}
	app.ConfigureLogging(cfg)
	if cfg.LogLevel == "info" {
		log.SetLevel(log.WarnLevel)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a, func() { _ = a.Close() }, nil
}

func (o *options) loadProfile(ctx context.Context, a *app.App) (models.UserProfile, error) {
	switch {
	case o.profilePath != "" && o.username != "":
		return models.UserProfile{}, errors.New("--profile and --user are mutually exclusive")
	case o.profilePath != "":
		data, err := os.ReadFile(o.profilePath)
		if err != nil {
			return models.UserProfile{}, err
		}
		var p models.UserProfile
		if err := json.Unmarshal(data, &p); err != nil {
			return models.UserProfile{}, fmt.Errorf("failed to parse %s: %w", o.profilePath, err)
		}
		return p, nil
	case o.username != "":
		return a.Profiles.GetProfile(ctx, o.username)
	default:
		return models.DefaultProfile(), nil
	}
}

func withProfile(cmd *cobra.Command, opts *options, fn func(context.Context, *app.App, models.UserProfile) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := opts.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	p, err := opts.loadProfile(ctx, a)
	if err != nil {
		return err
	}
	return fn(ctx, a, p)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
