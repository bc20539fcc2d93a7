package main

import (
	"fmt"
	"strconv"
	"strings"

	cli "github.com/spf13/cobra"

	"screen-translator/internal/app"
	"screen-translator/internal/task"
	"screen-translator/pkg/geometry"
)

func newRunCmd(st *state) *cli.Command {
	var (
		from, to   string
		fullscreen bool
		clipboard  bool
		region     string
	)

	cmd := &cli.Command{
		Use:   "run [image]",
		Short: "Capture or load an image, recognize its text and translate it",
		Args:  cli.MaximumNArgs(1),
		RunE: func(cmd *cli.Command, args []string) error {
			sources := 0
			for _, set := range []bool{fullscreen, clipboard, region != "", len(args) == 1} {
				if set {
					sources++
				}
			}
			if sources != 1 {
				return fmt.Errorf("give exactly one of an image path, --fullscreen, --clipboard or --region")
			}

			var rect geometry.RectInt
			if region != "" {
				var err error
				if rect, err = parseRegion(region); err != nil {
					return err
				}
			}

			src, dst, err := languagePair(st, from, to)
			if err != nil {
				return err
			}

			session, err := app.NewSession(st.cfg, app.Dependencies{})
			if err != nil {
				return err
			}
			defer session.Close()

			session.On(app.EventStatus, func(data interface{}) {
				if s, ok := data.(app.Status); ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", s.Level, s.Message)
				}
			})
			if err := session.SetLanguages(src, dst); err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := session.Init().Wait(ctx); err != nil {
				return err
			}

			var load *task.Future[string]
			switch {
			case fullscreen:
				load = session.CaptureFullscreen()
			case clipboard:
				load = session.PasteClipboard()
			case region != "":
				load = session.CaptureRegion(rect)
			default:
				load = session.UseFile(args[0])
			}
			if _, err := load.Wait(ctx); err != nil {
				return err
			}

			res, err := session.Process().Wait(ctx)
			if err != nil {
				return err
			}
			if res.NoText {
				return fmt.Errorf("no text found")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Original)
			fmt.Fprintln(out, "---")
			fmt.Fprintln(out, res.Translated)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source language (default from config)")
	cmd.Flags().StringVar(&to, "to", "", "target language (default from config)")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "capture the primary display")
	cmd.Flags().BoolVar(&clipboard, "clipboard", false, "use the clipboard image")
	cmd.Flags().StringVar(&region, "region", "", "capture a screen region given as x,y,width,height")
	return cmd
}

// parseRegion parses "x,y,width,height".
func parseRegion(s string) (geometry.RectInt, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geometry.RectInt{}, fmt.Errorf("region %q: want x,y,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geometry.RectInt{}, fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = n
	}
	r := geometry.RectInt{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if r.Empty() {
		return geometry.RectInt{}, fmt.Errorf("region %q is empty", s)
	}
	return r, nil
}
