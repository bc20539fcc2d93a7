package main

import (
	"fmt"

	cli "github.com/spf13/cobra"

	"screen-translator/internal/capture"
	"screen-translator/internal/ocr"
	"screen-translator/internal/tempfiles"
	"screen-translator/internal/translate"
)

func newExtractCmd(st *state) *cli.Command {
	var lang string
	var verbose bool

	cmd := &cli.Command{
		Use:   "extract <image>",
		Short: "Recognize the text in an image file",
		Args:  cli.ExactArgs(1),
		RunE: func(cmd *cli.Command, args []string) error {
			path, err := capture.File(args[0])
			if err != nil {
				return err
			}
			if lang == "" {
				lang = st.cfg.UI.SourceLanguage
			}
			lang, err = translate.ParseLanguage(lang)
			if err != nil {
				return err
			}

			ws, err := tempfiles.New(st.cfg.Workspace)
			if err != nil {
				return err
			}
			defer ws.Cleanup()

			reg, err := ocr.LoadRegistry(cmd.Context(), ocr.TesseractFactory(st.cfg.EngineOptions()), st.cfg.RegistryOptions())
			if err != nil {
				return err
			}
			defer reg.Close()

			x := ocr.NewExtractor(reg, ws)
			x.Thresholds = st.cfg.Thresholds()
			res, err := x.Extract(cmd.Context(), path, lang)
			if err != nil {
				return err
			}

			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "pass: %s, detections: %d, kept: %d, mean confidence: %.2f\n",
					res.Pass, res.Detections, res.Kept, res.MeanConfidence)
			}
			if res.Empty() {
				return fmt.Errorf("no text found in %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "source language selecting the OCR engine (default from config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print extraction details to stderr")
	return cmd
}
