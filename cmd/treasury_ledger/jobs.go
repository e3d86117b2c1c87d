package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/treasury_ledger/internal/dto"
)

// systemUserID is recorded as the actor of jobs started from the command line.
const systemUserID = "system"

var sweepOverdueCmd = &cobra.Command{
	Use:   "sweep-overdue",
	Short: "Flag pending installments that are past due",
	Example: `  # Sweep as of today in SCHEDULER_TIMEZONE
  treasury_ledger sweep-overdue

  # Sweep as of a given day
  treasury_ledger sweep-overdue --date 2026-05-02`,
	RunE: runSweepOverdue,
}

var closePeriodCmd = &cobra.Command{
	Use:     "close-period <period-id>",
	Short:   "Close an equity period and open the next one",
	Example: `  treasury_ledger close-period 7c1d... --end-date 2026-03-31 --notes "Q1"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runClosePeriod,
}

func init() {
	rootCmd.AddCommand(sweepOverdueCmd)
	rootCmd.AddCommand(closePeriodCmd)

	sweepOverdueCmd.Flags().String("date", "", "Sweep date (format: YYYY-MM-DD, default: today)")
	closePeriodCmd.Flags().String("end-date", "", "Last day of the period (format: YYYY-MM-DD, default: today)")
	closePeriodCmd.Flags().String("notes", "", "Closing notes")
}

func runSweepOverdue(cmd *cobra.Command, args []string) error {
	dateStr, _ := cmd.Flags().GetString("date")

	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := dto.ParseOptionalDate(dateStr, dto.CalendarDate(time.Now(), a.cfg.SchedulerTimezone))
	if err != nil {
		return err
	}
	updated, err := a.services.Installment.SweepOverdue(cmd.Context(), day)
	if err != nil {
		return err
	}
	a.logger.Info("Overdue sweep completed", slog.String("date", day.Format(dto.DateLayout)), slog.Int64("updated", updated))
	fmt.Fprintf(cmd.OutOrStdout(), "%d installment(s) marked overdue as of %s\n", updated, day.Format(dto.DateLayout))
	return nil
}

func runClosePeriod(cmd *cobra.Command, args []string) error {
	endDate, _ := cmd.Flags().GetString("end-date")
	notes, _ := cmd.Flags().GetString("notes")
	if endDate != "" {
		if _, err := dto.ParseDate(endDate); err != nil {
			return err
		}
	}

	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	closed, next, err := a.services.Equity.ClosePeriod(cmd.Context(), args[0], dto.ClosePeriodRequest{EndDate: endDate, Notes: notes}, systemUserID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Closed period %d: net profit %s\n", closed.PeriodNumber, closed.NetProfit.String())
	for _, p := range closed.Partners {
		fmt.Fprintf(out, "  %s: profit %s\n", p.PartnerID, p.ProfitAllocated.String())
	}
	fmt.Fprintf(out, "Opened period %d starting %s\n", next.PeriodNumber, next.StartDate.Format(dto.DateLayout))
	for _, p := range next.Partners {
		fmt.Fprintf(out, "  %s: capital %s\n", p.PartnerID, p.CapitalAtStart.String())
	}
	return nil
}
