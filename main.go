// Command dex-aggregator is the CLI front end over the aggregator
// facade (fetch-pools, quote, list-pools, cache export/import/stats/clear)
// plus a serve subcommand for the HTTP API, all in one root main.go
// rather than a cmd/ tree.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dexrouter/config"
	"dexrouter/internal/aggregator"
	"dexrouter/internal/api"
	"dexrouter/internal/bigmath"
	"dexrouter/internal/types"
)

var (
	jsonOutput bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "dex-aggregator",
		Short: "Find the best swap routes across multiple DEXs",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !verbose {
				log.SetOutput(io.Discard)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(fetchPoolsCmd(), quoteCmd(), listPoolsCmd(), cacheCmd(), serveCmd(), demoCmd())

	if err := root.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newAggregator(ctx context.Context) *aggregator.Aggregator {
	cfg, err := config.Load()
	if err != nil {
		color.Red("Error: %v", err)
		fmt.Fprintln(os.Stderr, "\nPlease set RPC_URL in your environment or a .env file.")
		os.Exit(1)
	}

	agg, err := aggregator.New(ctx, cfg)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
	return agg
}

func fetchPoolsCmd() *cobra.Command {
	var factory, name string
	var limit uint64

	cmd := &cobra.Command{
		Use:   "fetch-pools",
		Short: "Fetch pools from a DEX factory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			agg := newAggregator(ctx)

			factoryAddr, err := types.ParseAddress(factory)
			if err != nil {
				return err
			}

			if !jsonOutput {
				color.Cyan("Fetching pools from %s (factory %s)...", name, factory)
			}

			pools, err := agg.FetchPools(ctx, factoryAddr, name, limit)
			if err != nil {
				return err
			}

			if err := agg.ExportCache(""); err != nil {
				log.Printf("main: cache export failed: %v", err)
			}

			if jsonOutput {
				return printJSON(map[string]any{
					"success":       true,
					"pools_fetched": len(pools),
					"dex":           name,
				})
			}

			color.Green("Success! Pools fetched: %d", len(pools))
			return nil
		},
	}

	cmd.Flags().StringVar(&factory, "factory", "", "factory contract address")
	cmd.Flags().StringVar(&name, "name", "Uniswap", "DEX name")
	cmd.Flags().Uint64Var(&limit, "limit", 0, "maximum number of pools to fetch (0 = all)")
	cmd.MarkFlagRequired("factory")
	return cmd
}

func quoteCmd() *cobra.Command {
	var optimize string
	var topN int

	cmd := &cobra.Command{
		Use:   "quote [token-in] [token-out] [amount]",
		Short: "Get the best swap quote",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			agg := newAggregator(ctx)

			tokenIn, err := types.ParseAddress(args[0])
			if err != nil {
				return err
			}
			tokenOut, err := types.ParseAddress(args[1])
			if err != nil {
				return err
			}

			decimals := bigmath.GetTokenDecimals(tokenIn)
			amountIn, err := bigmath.ParseTokenAmount(args[2], decimals)
			if err != nil {
				return err
			}

			strategy := types.ParseOptimizationStrategy(optimize)

			if !jsonOutput {
				color.Cyan("Searching for best route (strategy: %s)...", strategy)
			}

			if topN <= 0 {
				topN = 1
			}
			quotes, err := agg.GetTopQuotes(ctx, tokenIn, tokenOut, amountIn, strategy, topN)
			if err != nil {
				return err
			}

			if jsonOutput {
				return printJSON(quotes)
			}

			for _, q := range quotes {
				printQuote(q)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&optimize, "optimize", "balanced", "optimization strategy (price|gas|slippage|balanced)")
	cmd.Flags().IntVar(&topN, "top", 1, "number of routes to return")
	return cmd
}

func listPoolsCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "list-pools",
		Short: "List cached pools",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			agg := newAggregator(ctx)

			var pools []types.PoolDescriptor
			if token != "" {
				addr, err := types.ParseAddress(token)
				if err != nil {
					return err
				}
				pools = agg.GetPoolsWithToken(addr)
			} else {
				pools = agg.GetPools()
			}

			if jsonOutput {
				return printJSON(pools)
			}

			if len(pools) == 0 {
				color.Yellow("No pools found. Run fetch-pools first.")
				return nil
			}

			color.Cyan("Cached Pools - %d pools", len(pools))
			for i, p := range pools {
				if i >= 20 {
					color.HiBlack("... and %d more pools", len(pools)-20)
					break
				}
				fmt.Printf("  %-12s %s <-> %s  %s / %s\n",
					p.DexName, p.Token0.Hex()[:10], p.Token1.Hex()[:10],
					bigmath.FormatTokenAmount(p.Reserve0, 18),
					bigmath.FormatTokenAmount(p.Reserve1, 18))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "filter by token address")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cache", Short: "Cache management"}
	cmd.AddCommand(cacheExportCmd(), cacheImportCmd(), cacheStatsCmd(), cacheClearCmd())
	return cmd
}

func cacheExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export cache to file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := newAggregator(context.Background())
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if err := agg.ExportCache(path); err != nil {
				return err
			}
			if !jsonOutput {
				color.Green("Cache exported.")
			}
			return nil
		},
	}
}

func cacheImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Import cache from file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := newAggregator(context.Background())
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			count, err := agg.ImportCache(path)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(map[string]any{"pools_imported": count})
			}
			color.Green("Cache imported: %d pools.", count)
			return nil
		},
	}
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := newAggregator(context.Background())
			stats := agg.Stats()
			if jsonOutput {
				return printJSON(map[string]any{
					"total_pools": stats.TotalPools,
					"dex_counts":  stats.DexCounts,
				})
			}
			color.Cyan("Cache stats: %d pools total", stats.TotalPools)
			for dex, count := range stats.DexCounts {
				fmt.Printf("  %-15s %d\n", dex, count)
			}
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := newAggregator(context.Background())
			agg.ClearCache()
			if !jsonOutput {
				color.Green("Cache cleared.")
			}
			return nil
		},
	}
}

func demoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Seed the cache with major mainnet pairs for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := newAggregator(context.Background())
			pools := agg.SeedDemoPools()
			if jsonOutput {
				return printJSON(map[string]any{"pools_seeded": len(pools)})
			}
			color.Green("Seeded %d demo pools.", len(pools))
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			agg := newAggregator(ctx)
			handler := api.NewHandler(agg)

			server := &http.Server{
				Addr:         addr,
				Handler:      handler.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
			}

			color.Cyan("HTTP server listening on http://localhost%s", addr)
			return server.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printQuote(q types.RouteQuote) {
	color.Cyan("Route: %s", q.Description)
	fmt.Printf("  Amount in:       %s\n", q.AmountIn)
	fmt.Printf("  Amount out:      %s\n", q.AmountOut)
	fmt.Printf("  Hops:            %d\n", q.HopCount())
	fmt.Printf("  Gas estimate:    %d\n", q.GasEstimate)
	fmt.Printf("  Price impact:    %d bps\n", q.PriceImpactBps)
	fmt.Printf("  Score:           %.4f\n", q.Score)
	fmt.Println()
}
