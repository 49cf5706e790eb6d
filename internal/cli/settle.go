package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmynk/wildpay/internal/calculator"
	"github.com/mmynk/wildpay/internal/models"
)

func settleCommand() *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Settle expenditures from a CSV file",
		Long: `Read expenditures from a CSV file with the header
title,amount,payer,contributors and print balances and the payments that
settle them. Contributors are comma separated inside one quoted field.
Leave payer empty for an expenditure nobody has paid yet.`,
		Example: `wildpay settle --input trip.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer f.Close()

			group, err := ReadGroupCSV(f)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}

			return PrintSettlement(cmd.OutOrStdout(), group, calculator.Settle(group))
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "csv input file path (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

var csvHeader = []string{"title", "amount", "payer", "contributors"}

func isHeader(row []string) bool {
	if len(row) != len(csvHeader) {
		return false
	}
	for i, col := range row {
		if !strings.EqualFold(strings.TrimSpace(col), csvHeader[i]) {
			return false
		}
	}
	return true
}

// ReadGroupCSV builds a group snapshot from CSV rows. Members are the
// payers and contributors in order of first appearance; names double as IDs.
func ReadGroupCSV(r io.Reader) (*models.Group, error) {
	reader := csv.NewReader(r)
	// row width is checked per row below
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}
	if !isHeader(rows[0]) {
		return nil, fmt.Errorf("row 1: expected header %q", strings.Join(csvHeader, ","))
	}

	group := &models.Group{ID: "csv", Name: "csv"}
	addMember := func(name string) {
		if name != "" && !group.HasMember(name) {
			group.Members = append(group.Members, models.Member{ID: name, DisplayName: name})
		}
	}

	// skip the header row
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, but got %d", line, len(csvHeader), len(row))
		}

		amount, err := calculator.ParseAmount(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		payer := strings.TrimSpace(row[2])
		addMember(payer)

		var contributors []string
		for _, name := range strings.Split(row[3], ",") {
			if name = strings.TrimSpace(name); name != "" {
				addMember(name)
				contributors = append(contributors, name)
			}
		}

		group.Expenditures = append(group.Expenditures, models.Expenditure{
			ID:           fmt.Sprintf("row-%d", line),
			GroupID:      group.ID,
			Title:        strings.TrimSpace(row[0]),
			Amount:       amount,
			Payer:        models.PaidBy(payer),
			Contributors: contributors,
		})
	}

	if len(group.Expenditures) == 0 {
		return nil, fmt.Errorf("no expenditures found in the CSV")
	}
	return group, nil
}

// PrintSettlement writes a human-readable report of result.
func PrintSettlement(w io.Writer, group *models.Group, result *models.SettlementResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "Total\t%s\t\n\n", calculator.FormatAmount(result.TotalAmount))

	fmt.Fprintln(tw, "Balances\t\t")
	for _, id := range calculator.BalanceOrder(result.Balances, group.Members) {
		fmt.Fprintf(tw, "%s\t%s\t\n", id, calculator.FormatAmount(result.Balances[id]))
	}

	if len(result.Debts) > 0 {
		fmt.Fprintln(tw, "\nPayments\t\t")
		for _, d := range result.Debts {
			fmt.Fprintf(tw, "%s -> %s\t%s\t\n", d.From, d.To, calculator.FormatAmount(d.Amount))
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", result.Message)
	return err
}
