package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	cli "github.com/spf13/cobra"

	"screen-translator/internal/ocr"
	"screen-translator/internal/translate"
)

func newLanguagesCmd(st *state) *cli.Command {
	var probeOCR bool

	cmd := &cli.Command{
		Use:   "languages",
		Short: "List selectable languages",
		RunE: func(cmd *cli.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tSOURCE\tTARGET")
			seen := map[string]bool{}
			all := append(append([]translate.Language{}, translate.SourceLanguages...), translate.TargetLanguages...)
			for _, l := range all {
				if seen[l.Code] {
					continue
				}
				seen[l.Code] = true
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.Code, l.Name,
					mark(translate.SourceLanguages, l.Code), mark(translate.TargetLanguages, l.Code))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !probeOCR {
				return nil
			}
			reg, err := ocr.LoadRegistry(cmd.Context(), ocr.TesseractFactory(st.cfg.EngineOptions()), st.cfg.RegistryOptions())
			if err != nil {
				return err
			}
			defer reg.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "\nOCR primary: %s\nOCR extras: %s\nOCR languages: %d\n",
				strings.Join(reg.PrimaryLanguages(), "+"),
				strings.Join(reg.Extras(), ", "),
				reg.LanguageCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&probeOCR, "ocr", false, "also load the OCR engines and report which are available")
	return cmd
}

func mark(langs []translate.Language, code string) string {
	for _, l := range langs {
		if l.Code == code {
			return "yes"
		}
	}
	return "-"
}
