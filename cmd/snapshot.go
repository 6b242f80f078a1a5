package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/herobook/internal/server"
	"github.com/conneroisu/herobook/internal/snapshot"
	"github.com/conneroisu/herobook/internal/ui"
	"github.com/conneroisu/herobook/internal/validation"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture PNG screenshots of every story",
	Long: `Start a private preview server, open each story in headless Chrome and
save a screenshot of the Hero at every configured viewport width.

Files are written as <out>/<story>-<width>.png. Chrome is downloaded on
first use unless snapshot.browser points at an installed binary.

Examples:
  herobook snapshot                        # Default widths into .herobook/snapshots
  herobook snapshot -o shots -w 390 -w 1440`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringP("out", "o", "", "output directory (default from snapshot.output_dir)")
	snapshotCmd.Flags().IntSliceP("width", "w", nil, "viewport widths to capture (default from snapshot.widths)")
	snapshotCmd.Flags().String("browser", "", "path to a Chrome binary (default: download one)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("out") {
		out, _ := cmd.Flags().GetString("out")
		if err := validation.ValidatePath(out); err != nil {
			return fmt.Errorf("invalid --out: %w", err)
		}
		cfg.Snapshot.OutputDir = out
	}
	if cmd.Flags().Changed("width") {
		widths, _ := cmd.Flags().GetIntSlice("width")
		for _, w := range widths {
			if w <= 0 {
				return fmt.Errorf("invalid width %d: must be positive", w)
			}
		}
		cfg.Snapshot.Widths = widths
	}
	if cmd.Flags().Changed("browser") {
		cfg.Snapshot.Browser, _ = cmd.Flags().GetString("browser")
	}

	// The capture server is private to this run.
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.Open = false
	cfg.Stories.Watch = false

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveCtx, cancel := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() {
		served <- srv.Start(serveCtx)
	}()
	defer func() {
		cancel()
		<-served
	}()

	select {
	case <-srv.Ready():
	case err := <-served:
		served <- err
		return err
	}

	shots := snapshot.Plan(srv.Registry().Slugs(), cfg.Snapshot)

	capturer := snapshot.NewCapturer(cfg.Snapshot, logger)
	spin := ui.StartSpinner(cmd.ErrOrStderr(), "Starting browser...")
	if err := capturer.Start(ctx); err != nil {
		spin.Stop("")
		return fmt.Errorf("starting browser: %w", err)
	}
	defer capturer.Close()

	err = capturer.Capture(ctx, srv.URL(), shots, func(done int, shot snapshot.Shot) {
		spin.Update(fmt.Sprintf("[%d/%d] %s at %dpx", done, len(shots), shot.Slug, shot.Width))
	})
	if err != nil {
		spin.Stop("")
		return err
	}

	spin.Stop(ui.Pass(fmt.Sprintf("%d snapshots written to %s", len(shots), cfg.Snapshot.OutputDir)))
	return nil
}
