// fincontrol-report prints the report of a month for one account.
//
// It reads the same environment as the server to find the database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fincontrol/backend/internal/config"
	"github.com/fincontrol/backend/internal/models"
	"github.com/fincontrol/backend/internal/money"
	"github.com/fincontrol/backend/internal/report"
	"github.com/fincontrol/backend/internal/store"
	"github.com/fincontrol/backend/internal/types"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	email := flag.String("email", "", "email address of the account")
	monthFlag := flag.String("month", "", "month in YYYY-MM format, defaults to the current month")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("loading .env")
	}

	if *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	now := time.Now().UTC()
	month := types.MonthOf(now)
	if *monthFlag != "" {
		var err error
		month, err = types.ParseMonth(*monthFlag)
		if err != nil {
			log.Fatal().Msg(err.Error())
		}
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Msg(err.Error())
	}

	var err error
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		err = models.ConnectPostgres(cfg.DatabaseDSN)
	default:
		err = models.Connect(cfg.SQLitePath())
	}
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	if err := run(context.Background(), os.Stdout, store.New(models.DB), *email, month, now); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// run writes the report of the month for the account with the email address.
// The automatic salary is not booked, the report shows what is stored.
func run(ctx context.Context, w io.Writer, s *store.Store, email string, month types.Month, now time.Time) error {
	user, err := s.UserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account %s: %w", email, err)
	}

	transactions, err := s.Transactions(ctx, user.ID)
	if err != nil {
		return err
	}

	r := report.Build(transactions, month, now)

	fmt.Fprintf(w, "%s, %s\n\n", user.Email, r.Month)

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"", "Valor"})
	summary.Append([]string{"Receitas", money.Format(r.Summary.Income)})
	summary.Append([]string{"Despesas", money.Format(r.Summary.Expense)})
	summary.Append([]string{"Despesas pagas", money.Format(r.Summary.PaidExpense)})
	summary.Append([]string{"Saldo do mês", money.Format(r.Summary.Total)})
	summary.Append([]string{"Saldo acumulado", money.Format(r.AccumulatedBalance)})
	summary.Append([]string{fmt.Sprintf("Atrasadas (%d)", r.OverdueCount), money.Format(r.OverdueAmount)})
	summary.Render()

	if len(r.Categories) > 0 {
		fmt.Fprintln(w)

		categories := tablewriter.NewWriter(w)
		categories.SetHeader([]string{"Categoria", "Despesas"})
		for _, c := range r.Categories {
			categories.Append([]string{c.Category, money.Format(c.Amount)})
		}
		categories.Render()
	}

	fmt.Fprintln(w)

	trend := tablewriter.NewWriter(w)
	trend.SetHeader([]string{"Mês", "Despesas", "Saldo acumulado"})
	for i, m := range r.Trend {
		trend.Append([]string{m.Month.String(), money.Format(r.MonthlyExpenses[i].Value), money.Format(m.Value)})
	}
	trend.Render()

	return nil
}
