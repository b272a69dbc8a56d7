// periodctl resolves billing periods and maintains the budget database from the command line.
//
//	periodctl resolve --date 2026-03-01 --start-day 28
//	periodctl recompute --date 2026-03-01
//	periodctl migrate
//	periodctl set-password
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dafibh/fortuna/budget-backend/internal/config"
	"github.com/dafibh/fortuna/budget-backend/internal/domain"
	"github.com/dafibh/fortuna/budget-backend/internal/repository/postgres"
	"github.com/dafibh/fortuna/budget-backend/internal/service"
	"github.com/dafibh/fortuna/budget-backend/internal/util"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage: periodctl <resolve|recompute|migrate|set-password> [flags]")

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, logger); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, logger zerolog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "resolve":
		return runResolve(args[1:], stdout)
	case "recompute":
		return runRecompute(ctx, args[1:], stdout, logger)
	case "migrate":
		return runMigrate(args[1:], logger)
	case "set-password":
		return runSetPassword(ctx, args[1:], stdin, logger)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

// runResolve prints the window containing --date. It never touches the database.
func runResolve(args []string, stdout io.Writer) error {
	flags := pflag.NewFlagSet("resolve", pflag.ContinueOnError)
	date := flags.String("date", "", "reference date (YYYY-MM-DD, default today)")
	startDay := flags.Int("start-day", domain.DefaultMonthStartDay, "month start day; days past a month's end use its last day")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ref, err := parseDateFlag(*date)
	if err != nil {
		return err
	}

	period := util.ResolvePeriod(ref, *startDay)
	fmt.Fprintf(stdout, "%s\t%s\n", period.StartString(), period.EndString())
	return nil
}

func runRecompute(ctx context.Context, args []string, stdout io.Writer, logger zerolog.Logger) error {
	flags := pflag.NewFlagSet("recompute", pflag.ContinueOnError)
	date := flags.String("date", "", "any date inside the period to refresh (YYYY-MM-DD, default today)")
	if err := flags.Parse(args); err != nil {
		return err
	}

	ref, err := parseDateFlag(*date)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	expenseRepo := postgres.NewExpenseRepository(pool)
	consumptionRepo := postgres.NewConsumptionRepository(pool)
	aggregator := service.NewAggregationService(expenseRepo, consumptionRepo)
	materializer := service.NewMaterializeService(postgres.NewProjectionRepository(pool))
	recomputeService := service.NewRecomputeService(
		postgres.NewSettingsRepository(pool, cfg.DefaultMonthStartDay),
		aggregator, materializer, cfg.DefaultMonthStartDay, logger,
	)
	if cfg.RecomputeStrict {
		recomputeService.SetPeriodLocker(postgres.NewPeriodLocker(pool))
	}

	result, err := recomputeService.Recompute(ctx, ref)
	if err != nil {
		return err
	}

	agg := result.Aggregate
	fmt.Fprintf(stdout, "%s\t%s\tspent=%s\tremaining=%s\n",
		util.FormatDate(result.Start), util.FormatDate(result.End),
		agg.TotalSpent.StringFixed(2), agg.RemainingSalary.StringFixed(2))
	return nil
}

func runMigrate(args []string, logger zerolog.Logger) error {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	logger.Info().Msg("Migrations applied")
	return nil
}

// runSetPassword reads the new admin password from the first line of stdin
func runSetPassword(ctx context.Context, args []string, stdin io.Reader, logger zerolog.Logger) error {
	flags := pflag.NewFlagSet("set-password", pflag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}

	password, err := readPassword(stdin)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	authService, err := service.NewAuthService(postgres.NewUserRepository(pool), cfg.SessionSecret)
	if err != nil {
		return err
	}
	if err := authService.SetPassword(ctx, password); err != nil {
		return err
	}
	logger.Info().Str("username", domain.AdminUsername).Msg("Password updated")
	return nil
}

func readPassword(stdin io.Reader) (string, error) {
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return util.TruncateDay(time.Now()), nil
	}
	t, err := util.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date: %w", err)
	}
	return t, nil
}
