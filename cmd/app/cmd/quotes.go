package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"FlowShift/internal/domain/models"
	"FlowShift/internal/services/ticker"
)

var (
	quotesTicks int
	quotesSeed  uint64
)

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Print live quote table steps",
	Long: `Quotes steps the ticker a number of times and prints each table the way
the market watch panel shows it. Rising bids print green, falling ones red.

Example:
  flowshift quotes --ticks 5 --seed 42`,
	RunE: runQuotes,
}

func init() {
	rootCmd.AddCommand(quotesCmd)
	quotesCmd.Flags().IntVarP(&quotesTicks, "ticks", "n", 3, "number of ticker steps")
	quotesCmd.Flags().Uint64Var(&quotesSeed, "seed", 0, "random seed (0 seeds from the clock)")
}

func runQuotes(cmd *cobra.Command, args []string) error {
	if quotesTicks < 1 {
		return fmt.Errorf("--ticks must be at least 1")
	}
	var opts []ticker.Option
	if quotesSeed != 0 {
		opts = append(opts, ticker.WithSeed(quotesSeed))
	}
	tk := ticker.New(opts...)

	out := cmd.OutOrStdout()
	for i := 1; i <= quotesTicks; i++ {
		fmt.Fprintf(out, "tick %d\n", i)
		if err := printQuotes(out, tk.Step()); err != nil {
			return err
		}
	}
	return nil
}

var (
	upColor   = color.New(color.FgGreen).SprintFunc()
	downColor = color.New(color.FgRed).SprintFunc()
)

func printQuotes(out io.Writer, quotes []models.Quote) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SYMBOL\tBID\tASK\tCHANGE")
	for _, v := range models.Views(quotes) {
		bid := v.BidText
		if v.Direction == models.DirectionDown {
			bid = downColor(bid)
		} else {
			bid = upColor(bid)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%+.2f%%\n", v.Symbol, bid, v.AskText, v.Change)
	}
	return w.Flush()
}
