package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/contenthub/internal/calendar"
	"github.com/nhle/contenthub/internal/logger"
	"github.com/nhle/contenthub/internal/model"
)

var (
	calendarYear  int
	calendarMonth int
	calendarJSON  bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print a month grid and its ideas",
	Long: `Print the six-week grid of a month and every idea inside it.

Examples:
  contenthub calendar
  contenthub calendar --year 2024 --month 5
  contenthub calendar --month 12 --json`,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().IntVar(&calendarYear, "year", 0, "year (default: current)")
	calendarCmd.Flags().IntVar(&calendarMonth, "month", 0, "month 1-12 (default: current)")
	calendarCmd.Flags().BoolVar(&calendarJSON, "json", false, "output as JSON")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	today := model.Today()
	year, month := today.Year(), today.Month()
	if calendarYear != 0 {
		year = calendarYear
	}
	if calendarMonth != 0 {
		month = time.Month(calendarMonth)
	}

	window, err := calendar.MonthWindow(year, month)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := openStore(ctx, cfg, logger.Nop())
	if err != nil {
		return err
	}
	defer st.Close()

	ideas, err := st.ListIdeasInRange(ctx, window.RangeStart, window.RangeEnd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if calendarJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			calendar.Window
			Ideas []model.Idea `json:"ideas"`
		}{window, ideas})
	}
	printWindow(out, window, calendar.GroupByDay(ideas), today)
	return nil
}

// printWindow writes the grid followed by the ideas of each day.
func printWindow(w io.Writer, window calendar.Window, byDay map[model.Date][]model.Idea, today model.Date) {
	fmt.Fprintf(w, "%-8s %20s %8s\n", "< "+window.PreviousLabel, window.CurrentLabel, window.NextLabel+" >")
	fmt.Fprintln(w, " Mo  Tu  We  Th  Fr  Sa  Su")

	for _, week := range window.Weeks {
		var line strings.Builder
		for _, day := range week {
			mark := " "
			switch {
			case day.Equal(today):
				mark = "*"
			case len(byDay[day]) > 0:
				mark = "•"
			}
			if window.InMonth(day) {
				fmt.Fprintf(&line, "%s%2d ", mark, day.Day())
			} else {
				fmt.Fprintf(&line, "%s.. ", mark)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	fmt.Fprintln(w)
	empty := true
	for _, day := range window.Days() {
		for _, idea := range byDay[day] {
			empty = false
			status := "[ ]"
			if idea.Completed {
				status = "[x]"
			}
			fmt.Fprintf(w, "%s  %s %s\n", day.Format("Mon 02 Jan"), status, idea.Title)
		}
	}
	if empty {
		fmt.Fprintln(w, "No ideas scheduled.")
	}
}
