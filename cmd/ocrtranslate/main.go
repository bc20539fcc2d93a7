// Command ocrtranslate recognizes and translates text without the GUI.
//
// Usage:
//
//	ocrtranslate extract <image> [--lang auto]
//	ocrtranslate translate [text...] [--from auto] [--to ru]
//	ocrtranslate run [image] [--fullscreen | --clipboard | --region x,y,w,h]
//	ocrtranslate languages [--ocr]
package main

import (
	"log/slog"
	"os"

	cli "github.com/spf13/cobra"

	"screen-translator/internal/config"
	"screen-translator/internal/version"
)

// state is shared by all subcommands after the root pre-run.
type state struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	st := &state{}
	root := &cli.Command{
		Use:           "ocrtranslate",
		Short:         "Recognize text in images and translate it",
		Version:       version.String(),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cli.Command, args []string) error {
			return st.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "configuration file (default: user config dir)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newExtractCmd(st),
		newTranslateCmd(st),
		newRunCmd(st),
		newLanguagesCmd(st),
	)
	return root
}

func (st *state) setup(cmd *cli.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if st.configPath != "" {
		cfg, err = config.LoadFrom(st.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if st.logLevel != "" {
		cfg.Log.Level = st.logLevel
	}
	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	st.cfg = cfg
	return nil
}
