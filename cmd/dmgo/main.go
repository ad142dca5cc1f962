// Command dmgo runs the emulator core against a ROM file, either
// interactively in a terminal or headless for a fixed number of frames.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/hoferm/dmgo/internal/gameboy"
	"github.com/hoferm/dmgo/internal/present/terminal"
	"github.com/hoferm/dmgo/internal/video"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgo"
	app.Description = "A Game Boy (DMG) emulator core"
	app.Usage = "dmgo [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "boot-rom",
			Usage: "Path to a boot ROM image (runs the CPU from reset instead of the post-boot state)",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run without a terminal presenter",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save a frame snapshot every N frames in headless mode (0 = disabled)",
			Value: 0,
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.StringFlag{
			Name:  "break",
			Usage: "Stop execution early once PC reaches this address (hex, e.g. 0x0150)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgo exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	romData, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("read ROM: %w", err)
	}

	var bootROM []byte
	if bootPath := c.String("boot-rom"); bootPath != "" {
		bootROM, err = os.ReadFile(bootPath)
		if err != nil {
			return fmt.Errorf("read boot ROM: %w", err)
		}
	}

	gb, err := gameboy.PowerOn(romData, bootROM)
	if err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	defer gb.Shutdown()

	if breakAt := c.String("break"); breakAt != "" {
		pc, err := strconv.ParseUint(strings.TrimPrefix(breakAt, "0x"), 16, 16)
		if err != nil {
			return fmt.Errorf("invalid --break address: %w", err)
		}
		gb.SetBreakpoint(uint16(pc))
	}

	if c.Bool("headless") {
		return runHeadless(gb, romPath, c.Int("frames"), c.Int("snapshot-interval"), c.String("snapshot-dir"))
	}
	return runInteractive(gb)
}

func runHeadless(gb *gameboy.GameBoy, romPath string, frames, snapshotInterval int, snapshotDir string) error {
	if frames <= 0 {
		return errors.New("headless mode requires --frames with a positive value")
	}

	if snapshotInterval > 0 {
		if snapshotDir == "" {
			tempDir, err := os.MkdirTemp("", "dmgo-snapshots-*")
			if err != nil {
				return fmt.Errorf("create snapshot directory: %w", err)
			}
			snapshotDir = tempDir
		} else if err := os.MkdirAll(snapshotDir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	romName := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))

	slog.Info("running headless", "title", gb.Title(), "frames", frames, "snapshot_interval", snapshotInterval)

	var frame [video.Size]byte
	for i := 0; i < frames; i++ {
		result := gb.StepFrame(&frame, 0)
		if result.Err != nil {
			return fmt.Errorf("frame %d: %w", i+1, result.Err)
		}
		if result.Breakpoint {
			slog.Info("breakpoint hit", "frame", i+1)
			break
		}

		if snapshotInterval > 0 && (i+1)%snapshotInterval == 0 {
			path := filepath.Join(snapshotDir, fmt.Sprintf("%s_frame_%d.txt", romName, i+1))
			if err := saveSnapshot(&frame, path, i+1); err != nil {
				slog.Error("failed to save snapshot", "frame", i+1, "path", path, "error", err)
			} else {
				slog.Info("saved frame snapshot", "frame", i+1, "path", path)
			}
		}

		if (i+1)%60 == 0 {
			slog.Info("frame progress", "completed", i+1, "total", frames)
		}
	}

	slog.Info("headless execution completed", "frames", frames)
	return nil
}

func runInteractive(gb *gameboy.GameBoy) error {
	screen, err := terminal.New()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Close()

	var frame [video.Size]byte
	for {
		input, quit := screen.PollInput()
		if quit {
			return nil
		}

		result := gb.StepFrame(&frame, input)
		if result.Err != nil {
			return fmt.Errorf("cpu fault: %w", result.Err)
		}
		if result.Breakpoint {
			slog.Info("breakpoint hit, stopping")
			return nil
		}

		screen.Draw(&frame)
	}
}

// saveSnapshot writes a frame as shade glyphs (one per pixel, blank for
// color index 0 up to a full block for 3), so headless runs leave a
// human-readable artifact behind. Only every second pixel row (0, 2, ...)
// is written, one text row each; the odd rows are dropped.
func saveSnapshot(frame *[video.Size]byte, path string, frameNum int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "# dmgo frame snapshot\n")
	fmt.Fprintf(file, "# frame: %d\n", frameNum)
	fmt.Fprintf(file, "# resolution: %dx%d pixels -> %dx%d text rows\n", video.Width, video.Height, video.Width, video.Height/2)
	fmt.Fprintf(file, "#\n")

	glyphs := []rune{' ', '░', '▒', '█'}
	for y := 0; y < video.Height; y += 2 {
		var line strings.Builder
		for x := 0; x < video.Width; x++ {
			top := frame[y*video.Width+x]
			line.WriteRune(glyphs[top])
		}
		fmt.Fprintln(file, line.String())
	}

	return nil
}
