package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tirasundara/settlement-optimizer/internal/config"
	"github.com/tirasundara/settlement-optimizer/internal/domain"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
	"github.com/tirasundara/settlement-optimizer/internal/logging"
	"github.com/tirasundara/settlement-optimizer/internal/optimizer"
	"github.com/tirasundara/settlement-optimizer/internal/report"
	"github.com/tirasundara/settlement-optimizer/internal/repository"
	"github.com/tirasundara/settlement-optimizer/internal/service"
	"github.com/tirasundara/settlement-optimizer/pkg/cpsolver"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(fmt.Sprintf("Invalid configuration: %v", err))
	}

	// Command-line flags, defaulting to the environment
	var (
		balancesFile  string
		payList       string
		getList       string
		decimalPlaces int
		outputFormat  string
		outputFile    string
		prettyPrint   bool
		verbose       bool
		maxTime       time.Duration
	)

	flag.StringVar(&balancesFile, "balances-file", "", "Comma-separated paths to participant,amount,role CSV files ('-' reads stdin)")
	flag.StringVar(&payList, "pay", "", "Comma-separated amounts owed by each payer")
	flag.StringVar(&getList, "get", "", "Comma-separated amounts due to each receiver")
	flag.IntVar(&decimalPlaces, "decimal-places", int(cfg.DecimalPlaces), "Digits after the decimal point kept when solving")
	flag.StringVar(&outputFormat, "format", "json", "Output format: json or csv")
	flag.StringVar(&outputFile, "output", "", "Path to output file (if empty, writes to stdout)")
	flag.BoolVar(&prettyPrint, "pretty", true, "Pretty print JSON output")
	flag.BoolVar(&verbose, "verbose", cfg.Verbose, "Log solver statistics")
	flag.DurationVar(&maxTime, "max-time", cfg.MaxTime, "Solver time limit (0 for none)")

	flag.Parse()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		exitWithError(fmt.Sprintf("Invalid logging configuration: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	places, err := fixedpoint.PlacesFromInt(decimalPlaces)
	if err != nil {
		exitWithError(fmt.Sprintf("Invalid -decimal-places: %v", err))
	}

	repo, err := balanceRepository(balancesFile, payList, getList, logger)
	if err != nil {
		exitWithError(err.Error())
	}

	formatter, err := report.NewFormatter(outputFormat, prettyPrint)
	if err != nil {
		exitWithError(err.Error())
	}

	var solverOpts []cpsolver.Option
	if maxTime > 0 {
		solverOpts = append(solverOpts, cpsolver.WithMaxTime(maxTime))
	}
	opt := optimizer.NewSettlementOptimizer(
		cpsolver.NewSolver(solverOpts...),
		optimizer.WithVerbose(verbose),
		optimizer.WithLogger(logger),
	)

	settlementService := service.NewSettlementService(repo, opt, places, logger)

	result, err := settlementService.Settle()
	if err != nil {
		var solveErr *optimizer.SolveError
		if errors.As(err, &solveErr) && solveErr.Status == cpsolver.Feasible {
			exitWithError(fmt.Sprintf("Settlement failed: %v (try a larger -max-time)", err))
		}
		exitWithError(fmt.Sprintf("Settlement failed: %v", err))
	}

	output, err := formatter.Format(result)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to format output: %v", err))
	}

	if outputFile != "" {
		// If no extension is provided, add the formatter's default extension
		if !strings.Contains(outputFile, ".") {
			outputFile = fmt.Sprintf("%s.%s", outputFile, formatter.FileExtension())
		}

		if err := os.WriteFile(outputFile, output, 0644); err != nil {
			exitWithError(fmt.Sprintf("Failed to write output file: %v", err))
		}
		return
	}

	fmt.Println(string(output))
}

// balanceRepository picks the CSV files when given, otherwise the -pay/-get lists
func balanceRepository(balancesFiles, payList, getList string, logger *zap.Logger) (domain.BalanceRepository, error) {
	if balancesFiles != "" {
		if payList != "" || getList != "" {
			return nil, errors.New("use either -balances-file or -pay/-get, not both")
		}
		return csvRepository(balancesFiles, logger)
	}

	if payList == "" || getList == "" {
		return nil, errors.New("either -balances-file or both -pay and -get are required")
	}

	pay, err := parseAmounts(payList)
	if err != nil {
		return nil, fmt.Errorf("invalid -pay: %w", err)
	}
	get, err := parseAmounts(getList)
	if err != nil {
		return nil, fmt.Errorf("invalid -get: %w", err)
	}

	return repository.NewStaticBalanceRepository("flags", pay, get), nil
}

func csvRepository(balancesFiles string, logger *zap.Logger) (domain.BalanceRepository, error) {
	var repos []domain.BalanceRepository
	for _, path := range strings.Split(balancesFiles, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		repos = append(repos, repository.NewCSVBalanceRepository(path, logger))
	}

	switch len(repos) {
	case 0:
		return nil, errors.New("no valid balance files provided")
	case 1:
		return repos[0], nil
	default:
		return repository.NewMultiBalanceRepository(repos...), nil
	}
}

func parseAmounts(list string) ([]decimal.Decimal, error) {
	var amounts []decimal.Decimal
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		amount, err := decimal.NewFromString(field)
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, nil
}

func exitWithError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Run with -h flag for usage information.\n")
	os.Exit(1)
}
