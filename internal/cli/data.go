package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/importer"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/money"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/view"
)

func init() {
	rootCmd.AddCommand(verifyCmd, importCmd, exportCmd)

	importCmd.Flags().Bool("all-or-nothing", false, "store nothing if any row is invalid")
	importCmd.Flags().String("created-by", "cli", "value recorded as created_by")
	exportCmd.Flags().StringP("output", "o", "", "output file, .csv or .xlsx (default stdout as CSV)")
	exportCmd.Flags().Uint("account", 0, "only this account")
}

var verifyCmd = &cobra.Command{
	Use:   "verify TENANT_ID",
	Short: "Check stored account balances against their transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(true)
		if err != nil {
			return err
		}
		defer e.close()
		l, err := e.ledger()
		if err != nil {
			return err
		}

		reports, verr := l.Accounts.VerifyAll(cmd.Context(), args[0])
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tACCOUNT\tSTORED\tCOMPUTED\tOK")
		for _, r := range reports {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n", r.AccountID, r.Name,
				money.String(r.StoredCent), money.String(r.ComputedCent), r.OK)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		return verr
	},
}

var importCmd = &cobra.Command{
	Use:   "import TENANT_ID FILE",
	Short: "Import transactions from a CSV or XLSX file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(true)
		if err != nil {
			return err
		}
		defer e.close()
		l, err := e.ledger()
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		opts := importer.Options{}
		opts.AllOrNothing, _ = cmd.Flags().GetBool("all-or-nothing")
		opts.CreatedBy, _ = cmd.Flags().GetString("created-by")

		var res importer.Result
		if strings.EqualFold(filepath.Ext(args[1]), ".xlsx") {
			res, err = l.Importer.ImportXLSX(cmd.Context(), args[0], f, opts)
		} else {
			res, err = l.Importer.ImportCSV(cmd.Context(), args[0], f, opts)
		}
		for _, r := range res.Rows {
			if r.Error != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "line %d: %s\n", r.Line, r.Error)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d, failed %d\n", res.Imported, res.Failed)
		return err
	},
}

var exportCmd = &cobra.Command{
	Use:   "export TENANT_ID",
	Short: "Export the transaction view as CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(true)
		if err != nil {
			return err
		}
		defer e.close()
		l, err := e.ledger()
		if err != nil {
			return err
		}

		var filter view.Filter
		if account, _ := cmd.Flags().GetUint("account"); account != 0 {
			filter.AccountID = &account
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			return l.Importer.ExportCSV(cmd.Context(), args[0], filter, cmd.OutOrStdout())
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(out), ".xlsx") {
			err = l.Importer.ExportXLSX(cmd.Context(), args[0], filter, f)
		} else {
			err = l.Importer.ExportCSV(cmd.Context(), args[0], filter, f)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	},
}
