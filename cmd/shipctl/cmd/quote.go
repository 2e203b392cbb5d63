package cmd

import (
	"encoding/json"
	"errors"

	"shipdesk/internal/app"
	"shipdesk/internal/features/quoting/handler"

	"github.com/spf13/cobra"
)

var (
	quoteItems     string
	quoteAddresses string
	quoteSizes     string
	quoteMode      string
)

// quoteCmd quotes items from the command line
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Pack items and quote carrier services per address",
	Long: `Quote carrier services for items bound to one or more addresses.

Examples:
  shipctl quote --items "12 Main St, Austin, TX 78701 | 10x8x4; 9 Elm St, Reno, NV 89501 | 6x6x6"
  shipctl quote --addresses "12 Main St, Austin, TX 78701;9 Elm St, Reno, NV 89501" --sizes "10x8x4;6x6x6"
  shipctl quote --mode ship --items "12 Main St, Austin TX 78701 USA | 10x8x4"`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteItems, "items", "i", "", `"<address> | <LxWxD>" entries separated by ';' or newlines`)
	quoteCmd.Flags().StringVar(&quoteAddresses, "addresses", "", "';' separated addresses, parallel to --sizes")
	quoteCmd.Flags().StringVar(&quoteSizes, "sizes", "", "';' separated LxWxD sizes, parallel to --addresses")
	quoteCmd.Flags().StringVarP(&quoteMode, "mode", "m", "quote", "address parsing mode (quote, ship)")
}

func runQuote(cmd *cobra.Command, args []string) error {
	req := handler.QuoteRequest{Items: quoteItems, Mode: quoteMode}
	if quoteAddresses != "" || quoteSizes != "" {
		if quoteItems != "" {
			return errors.New("use either --items or --addresses/--sizes")
		}
		req.Addresses = rawString(quoteAddresses)
		req.Sizes = rawString(quoteSizes)
	}

	groups, err := req.ParseGroups()
	if err != nil {
		return err
	}

	return withApp(cmd.Context(), func(a *app.App) error {
		return printJSON(cmd.OutOrStdout(), a.Quotes.Quote(cmd.Context(), groups))
	})
}

// rawString encodes s as the JSON string form accepted by the parallel parser.
func rawString(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	b, _ := json.Marshal(s)
	return b
}
