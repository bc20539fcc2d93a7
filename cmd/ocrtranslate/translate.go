package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	cli "github.com/spf13/cobra"

	"screen-translator/internal/translate"
)

func newTranslateCmd(st *state) *cli.Command {
	var from, to string
	var stats bool

	cmd := &cli.Command{
		Use:   "translate [text...]",
		Short: "Translate text given as arguments or on stdin",
		RunE: func(cmd *cli.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(data)
			}

			src, dst, err := languagePair(st, from, to)
			if err != nil {
				return err
			}

			backend := translate.NewGoogleBackend(st.cfg.Translate.Endpoint, time.Duration(st.cfg.Translate.Timeout))
			tr := translate.New(backend, st.cfg.TranslateOptions())
			out := tr.TranslateDetailed(cmd.Context(), text, src, dst)

			fmt.Fprintln(cmd.OutOrStdout(), out.Text)
			if stats {
				fmt.Fprintf(cmd.ErrOrStderr(), "chunks: %d, failed: %d\n", out.Chunks, out.Failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source language (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "target language (default from config)")
	cmd.Flags().BoolVar(&stats, "stats", false, "print chunk statistics to stderr")
	return cmd
}

// languagePair resolves flag values over the configured defaults.
func languagePair(st *state, from, to string) (string, string, error) {
	if from == "" {
		from = st.cfg.UI.SourceLanguage
	}
	if to == "" {
		to = st.cfg.UI.TargetLanguage
	}
	src, err := translate.ParseLanguage(from)
	if err != nil {
		return "", "", err
	}
	dst, err := translate.ParseLanguage(to)
	if err != nil {
		return "", "", err
	}
	if translate.IsAuto(dst) {
		return "", "", fmt.Errorf("target language cannot be %q", translate.Auto)
	}
	return src, dst, nil
}
