package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"fleet-reconciliation/internal/presenter"

	"github.com/spf13/cobra"
)

var (
	// Flags for the check command
	inputFile         string
	outputFormat      string
	failOnDiscrepancy bool
)

var errDiscrepanciesFound = errors.New("discrepancies found")

// checkCmd runs one reconciliation over "identifier, count" lines.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check DOT numbers and their power units for discrepancies",
	Long: `Reads "DOT number, power units" pairs (comma-separated, one per line)
and compares them with the authoritative dataset.

Examples:
  # Read pairs from a file
  reconciler check --file fleet.txt

  # Read pairs from stdin
  printf '123456, 10\n654321, 20\n' | reconciler check

  # JSON output, non-zero exit when anything differs
  reconciler check -f fleet.txt -o json --fail-on-discrepancy`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&inputFile, "file", "f", "", `Input file ("-" or empty reads stdin)`)
	checkCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")
	checkCmd.Flags().BoolVar(&failOnDiscrepancy, "fail-on-discrepancy", false, "Exit non-zero when discrepancies are found")

	RootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := presenter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	raw, err := readInput(cmd.InOrStdin(), inputFile)
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync()

	report, err := a.useCase.Reconcile(cmd.Context(), raw)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), presenter.Message(err))
		return &reportedError{err: err}
	}

	if err := presenter.Render(cmd.OutOrStdout(), report, format); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if failOnDiscrepancy && len(report.Discrepancies) > 0 {
		return errDiscrepanciesFound
	}
	return nil
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return string(data), nil
}
