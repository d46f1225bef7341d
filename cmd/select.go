package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	selectMinCap float64
	selectMaxCap float64
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Screen the market snapshot by market cap and store the universe",
	Run:   runSelect,
}

func init() {
	selectCmd.Flags().Float64Var(&selectMinCap, "min-cap", 0, "minimum market cap in CNY (default: config value)")
	selectCmd.Flags().Float64Var(&selectMaxCap, "max-cap", 0, "maximum market cap in CNY, 0 means unbounded")
}

func runSelect(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, services := buildServices(ctx)
	defer appDep.Close()

	if cmd.Flags().Changed("min-cap") {
		appDep.cfg.Screener.MinMarketCap = selectMinCap
	}
	if cmd.Flags().Changed("max-cap") {
		appDep.cfg.Screener.MaxMarketCap = selectMaxCap
	}

	instruments, err := services.ScreenerService.SelectUniverse(ctx)
	if err != nil {
		log.Fatalf("Screening failed: %v", err)
	}

	log.Printf("Universe selected: %d instruments", len(instruments))
	for _, in := range instruments {
		log.Printf("  %s %s (market cap %.0f)", in.Code, in.Name, in.MarketCap)
	}
}
