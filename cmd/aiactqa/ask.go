package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/aiactqa/internal/logging"
	"github.com/fyrsmithlabs/aiactqa/internal/qa"
	"github.com/fyrsmithlabs/aiactqa/internal/tui"
)

const maxStdinQuestion = 64 * 1024

func newAskCmd(a *app) *cobra.Command {
	var (
		output      string
		showSources bool
	)

	cmd := &cobra.Command{
		Use:   "ask [question...]",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question and print the answer with its source passages.

Examples:
  # Ask directly
  aiactqa ask "What is a high-risk AI system?"

  # Read the question from stdin
  echo "Which practices are prohibited?" | aiactqa ask -

  # JSON output for scripts
  aiactqa ask --output json "Who is a provider?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" {
				return fmt.Errorf("--output must be text or json, got %q", output)
			}

			question, err := readQuestion(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, ok := qa.NewSession().Run(ctx, a.client, question)
			if !ok {
				return errors.New("question is empty")
			}
			view := qa.Render(st)

			if f, failed := st.(qa.Failed); failed {
				logging.FromContext(ctx).Warn(ctx, "ask failed",
					zap.Stringer("kind", f.Err.Kind), zap.String("message", f.Err.Message))
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(view); err != nil {
					return fmt.Errorf("failed to encode output: %w", err)
				}
			} else {
				w := cmd.OutOrStdout()
				if view.Banner != nil {
					w = cmd.ErrOrStderr()
				}
				if err := tui.Print(w, view, tui.PrintOptions{ShowSources: showSources}); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}

			if f, failed := st.(qa.Failed); failed {
				return &f.Err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	cmd.Flags().BoolVar(&showSources, "sources", true, "show source passages")
	return cmd
}

// readQuestion joins args, or reads stdin when there are none or the only
// arg is "-".
func readQuestion(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(io.LimitReader(stdin, maxStdinQuestion+1))
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	if len(data) > maxStdinQuestion {
		return "", fmt.Errorf("question too long: more than %d bytes", maxStdinQuestion)
	}
	return string(data), nil
}
