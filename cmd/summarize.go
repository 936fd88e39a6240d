package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sebrandon1/pdf-summarizer/internal/gateway"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Summarize a local PDF or text file and print the result as JSON",
	Long: `Summarize runs the same pipeline as the HTTP API on a local file.
Files ending in .pdf have their text extracted first; anything else is read
as plain text. Use "-" to read text from standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var result gateway.Result
		if args[0] == "-" {
			result, err = summarizeReader(ctx, a.service, cmd.InOrStdin())
		} else {
			result, err = summarizeFile(ctx, a.service, args[0])
		}
		if err != nil {
			return err
		}
		return writeResult(cmd.OutOrStdout(), result)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}

func summarizeFile(ctx context.Context, svc *gateway.Service, path string) (gateway.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return gateway.Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return svc.FromPDF(ctx, filepath.Base(path), content)
	}
	return svc.FromText(ctx, string(content))
}

func summarizeReader(ctx context.Context, svc *gateway.Service, r io.Reader) (gateway.Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return gateway.Result{}, fmt.Errorf("failed to read input: %w", err)
	}
	return svc.FromText(ctx, string(content))
}

func writeResult(w io.Writer, result gateway.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
