package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-backtest/internal/repository"
	"stock-backtest/internal/service"
	"stock-backtest/pkg/utils"

	"github.com/spf13/cobra"
)

var (
	fetchCodes []string
	fetchStart string
	fetchEnd   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily klines into the local candle store",
	Long:  "Downloads daily klines for the given codes, or for the stored screened universe when no codes are given. Instruments that already have local data are fetched incrementally.",
	Run:   runFetch,
}

func init() {
	fetchCmd.Flags().StringSliceVar(&fetchCodes, "codes", nil, "instrument codes to fetch (default: stored universe)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date, YYYYMMDD or YYYY-MM-DD")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "today", "end date, YYYYMMDD, YYYY-MM-DD or 'today'")
}

// buildServices menyusun dependency untuk perintah CLI sekali jalan.
func buildServices(ctx context.Context) (*AppDependency, *service.Service) {
	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	return appDep, service.NewService(appDep.cfg, appDep.log, repo, appDep.cache, appDep.mailer)
}

func runFetch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, services := buildServices(ctx)
	defer appDep.Close()

	startStr := fetchStart
	if startStr == "" {
		startStr = services.FetchService.DefaultStart()
	}
	start, err := utils.ParseDate(startStr)
	if err != nil {
		log.Fatalf("Invalid start date: %v", err)
	}
	end, err := utils.ParseDate(fetchEnd)
	if err != nil {
		log.Fatalf("Invalid end date: %v", err)
	}

	codes := fetchCodes
	if len(codes) == 0 {
		codes = selectUniverseCodes(ctx, services)
	}

	stats, err := services.FetchService.FetchAll(ctx, codes, start, utils.Day(end))
	if err != nil {
		log.Fatalf("Fetch failed: %v", err)
	}

	log.Printf("Fetch finished: %d total, %d succeeded, %d skipped, %d failed (took until %s)",
		stats.Total, stats.Succeeded, stats.Skipped, stats.Failed, time.Now().Format(time.RFC3339))
	if len(stats.FailedCodes) > 0 {
		log.Printf("Failed codes: %v", stats.FailedCodes)
	}
}

func selectUniverseCodes(ctx context.Context, services *service.Service) []string {
	instruments, err := services.ScreenerService.ListUniverse(ctx)
	if err != nil {
		log.Fatalf("Failed to list stored universe: %v", err)
	}
	if len(instruments) == 0 {
		log.Fatalf("No stored universe, run 'select' first or pass --codes")
	}
	codes := make([]string, 0, len(instruments))
	for _, in := range instruments {
		codes = append(codes, in.Code)
	}
	return codes
}
