package main

import (
	"context"
	"fmt"
	"io"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/sebas2906/portfolio/internal/config"
	"github.com/sebas2906/portfolio/internal/logger"
	"github.com/sebas2906/portfolio/pkg/chat"
	"github.com/sebas2906/portfolio/pkg/content"
	"github.com/sebas2906/portfolio/pkg/frame"
	"github.com/sebas2906/portfolio/pkg/scene"
	"github.com/sebas2906/portfolio/pkg/store"
)

var (
	snapshotPath    string
	snapshotSection int
	snapshotCols    int
	snapshotRows    int
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print scene statistics",
	Long: `Print each section's title and geometry. With --snapshot, render one
frame of a section off screen and save it as a PNG.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Verbose)
		defer log.Sync()

		page, err := loadPage(cfg)
		if err != nil {
			return err
		}
		s, err := buildScene(cfg, page, log)
		if err != nil {
			return fmt.Errorf("build scene: %w", err)
		}

		printSceneInfo(cmd.OutOrStdout(), page, s)

		if snapshotPath == "" {
			return nil
		}
		if err := snapshot(cmd.Context(), cfg, page, s, snapshotSection, snapshotCols, snapshotRows, snapshotPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nSaved %s\n", snapshotPath)
		return nil
	},
}

func init() {
	infoCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Render a frame to this PNG file")
	infoCmd.Flags().IntVar(&snapshotSection, "section", 0, "Section to snapshot")
	infoCmd.Flags().IntVar(&snapshotCols, "cols", 80, "Snapshot width in cells")
	infoCmd.Flags().IntVar(&snapshotRows, "rows", 24, "Snapshot height in cells")
	rootCmd.AddCommand(infoCmd)
}

func printSceneInfo(out io.Writer, page *content.Page, s *scene.Scene) {
	fmt.Fprintf(out, "Sections:  %d\n", len(s.Sections))
	fmt.Fprintf(out, "Triangles: %d\n", s.TriangleCount())
	fmt.Fprintf(out, "Particles: %d\n", len(s.Particles))
	for i, o := range s.Sections {
		size := o.Mesh.Size()
		fmt.Fprintf(out, "\n[%d] %s\n", i, page.Sections[i].Title)
		fmt.Fprintf(out, "    mesh:     %s (%d vertices, %d triangles)\n", o.Mesh.Name, o.Mesh.VertexCount(), o.Mesh.TriangleCount())
		fmt.Fprintf(out, "    position: %.1f, %.1f, %.1f\n", o.Position.X, o.Position.Y, o.Position.Z)
		fmt.Fprintf(out, "    size:     %.2f x %.2f x %.2f\n", size.X, size.Y, size.Z)
	}
}

// snapshot renders a single frame of section off screen and writes the
// framebuffer to path.
func snapshot(ctx context.Context, cfg *config.Config, page *content.Page, s *scene.Scene, section, cols, rows int, path string) error {
	if section < 0 || section >= len(s.Sections) {
		return fmt.Errorf("section %d out of range [0, %d)", section, len(s.Sections))
	}

	still := *cfg
	still.App.ReducedMotion = true
	widget := chat.NewWidget(chat.NewClient(chat.DefaultEndpoint), chat.StaticToken(""), store.NewMemoryStore(), logger.Nop())
	sched := &frame.Manual{}
	a := newApp(ctx, uv.NewScreenBuffer(cols, rows), cols, rows, &still, page, s, widget, sched)

	a.scroller.JumpTo(section)
	a.loop.Start()
	if !sched.Fire(time.Now()) {
		return fmt.Errorf("snapshot: no frame scheduled")
	}
	if err := sched.Err(); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return a.renderer.Framebuffer().SavePNG(path)
}
