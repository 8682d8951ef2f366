package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/store"
)

func newTotalsCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print a user's monthly expense totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			client, db, err := openMongo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			users, closeUsers, err := openUsers(cmd.Context(), cfg, db)
			if err != nil {
				return err
			}
			defer closeUsers()

			user, err := users.GetUserByEmail(cmd.Context(), email)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no user with email %q", email)
			}
			if err != nil {
				return err
			}

			totals, err := store.NewExpenseStore(db, cfg.Location).MonthlyTotals(cmd.Context(), user.ID)
			if err != nil {
				return err
			}
			renderTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func renderTotals(out io.Writer, totals []models.MonthlyTotal) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Mês", "Total"})

	var sum float64
	for _, m := range totals {
		t.AppendRow(table.Row{fmt.Sprintf("%04d-%02d", m.Period.Year, m.Period.Month), fmt.Sprintf("%.2f", m.Total)})
		sum += m.Total
	}
	t.AppendFooter(table.Row{"Total", fmt.Sprintf("%.2f", sum)})
	t.Render()
}
