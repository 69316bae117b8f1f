package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/spritecast/internal/analyzer"
	"github.com/ivlev/spritecast/internal/anim"
	"github.com/ivlev/spritecast/internal/api"
	"github.com/ivlev/spritecast/internal/config"
	"github.com/ivlev/spritecast/internal/encode"
	"github.com/ivlev/spritecast/internal/player"
	"github.com/ivlev/spritecast/internal/render"
	"github.com/ivlev/spritecast/internal/sheet"
	"github.com/ivlev/spritecast/internal/stream"
	"github.com/ivlev/spritecast/internal/system"
)

var buildVersion = "dev"

func main() {
	system.InitResourceLimits()

	for _, d := range []string{"input/sheets", "input/anim", "output"} {
		os.MkdirAll(d, 0755)
	}

	configPtr := flag.String("config", "", "YAML config file")
	sheetPtr := flag.String("sheet", "", "Sprite sheet image (default: latest file in input/sheets/)")
	animPtr := flag.String("anim", "", "JSON animation document (default: latest file in input/anim/)")
	widthPtr := flag.Int("width", 512, "Surface width")
	heightPtr := flag.Int("height", 512, "Surface height")
	fpsPtr := flag.Int("fps", 30, "Playback/render FPS")
	backgroundPtr := flag.String("background", "", "Surface background as hex color (default black)")
	transitionPtr := flag.Float64("transition", 250, "Crossfade on animation switch, in ms (0 disables)")
	listenPtr := flag.String("listen", ":3000", "Control API address (live mode)")
	outPtr := flag.String("out", "", "Render offline to this .mp4/.gif instead of playing live")
	durationPtr := flag.Float64("duration", 4.0, "Offline render length in seconds")
	animationPtr := flag.String("animation", "", "Override the initial animation key")
	qualityPtr := flag.Int("quality", 0, "Video quality (0 = auto per encoder)")
	statsPtr := flag.Bool("stats", false, "Print a performance report after offline renders")
	detectPtr := flag.Bool("detect-grid", false, "Analyze the sheet's frame grid and exit")
	mqttPtr := flag.String("mqtt", "", "MQTT broker URL to stream frames to (live mode)")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		cfg = loaded
	}
	cfg.BuildVersion = buildVersion

	// Explicit flags win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sheet":
			cfg.SheetPath = *sheetPtr
		case "anim":
			cfg.DocumentPath = *animPtr
		case "width":
			cfg.Width = *widthPtr
		case "height":
			cfg.Height = *heightPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "background":
			cfg.Background = *backgroundPtr
		case "transition":
			cfg.TransitionMs = *transitionPtr
		case "listen":
			cfg.Listen = *listenPtr
		case "out":
			cfg.Output = *outPtr
		case "duration":
			cfg.Duration = *durationPtr
		case "animation":
			cfg.Animation = *animationPtr
		case "quality":
			cfg.Quality = *qualityPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		case "mqtt":
			cfg.Mqtt.URL = *mqttPtr
		}
	})

	if cfg.SheetPath == "" {
		latest, err := system.FindLatestSheet("input/sheets")
		if err != nil {
			log.Fatalf("[-] %v. Put a sprite sheet in input/sheets/ or pass -sheet", err)
		}
		cfg.SheetPath = latest
		fmt.Printf("[*] Selected sheet: %s\n", cfg.SheetPath)
	}

	if *detectPtr {
		if err := detectGrid(cfg.SheetPath); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}

	if cfg.DocumentPath == "" {
		latest, err := system.FindLatestDocument("input/anim")
		if err != nil {
			log.Fatalf("[-] %v. Put an animation document in input/anim/ or pass -anim", err)
		}
		cfg.DocumentPath = latest
		fmt.Printf("[*] Selected document: %s\n", cfg.DocumentPath)
	}

	ctx := context.Background()

	assets, err := sheet.LoadAssets(ctx, cfg.SheetPath, cfg.DocumentPath)
	if err != nil {
		log.Fatalf("[-] Startup failed: %v", err)
	}

	table, err := anim.Normalize(assets.Document)
	if err != nil {
		log.Fatalf("[-] Startup failed: %v", err)
	}

	comp, err := render.NewCompositor(cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		log.Fatalf("[-] Startup failed: %v", err)
	}

	bounds := assets.Sheet.Bounds()
	fmt.Printf("[*] Sheet: %s (%dx%d) | Animations: %d\n",
		cfg.SheetPath, bounds.Dx(), bounds.Dy(), len(table.Order))
	fmt.Printf("[*] Surface: %dx%d @ %d FPS\n", cfg.Width, cfg.Height, cfg.FPS)

	if cfg.Output != "" {
		if err := renderOffline(ctx, cfg, table, assets, comp); err != nil {
			log.Fatalf("[-] %v", err)
		}
		return
	}
	if err := runLive(ctx, cfg, table, assets, comp); err != nil {
		log.Fatalf("[-] %v", err)
	}
}

func renderOffline(ctx context.Context, cfg *config.Config, table *anim.Table, assets *sheet.Assets, comp *render.Compositor) error {
	var sink player.Sink
	switch strings.ToLower(filepath.Ext(cfg.Output)) {
	case ".gif":
		sink = encode.NewGIFSink(cfg.Output)
	default:
		encoderName := cfg.VideoEncoder
		if encoderName == "" {
			encoderName, _ = system.GetBestH264Encoder()
			if encoderName != "libx264" {
				fmt.Printf("[*] Hardware encoder detected: %s\n", encoderName)
			}
		}
		quality := cfg.Quality
		if quality == 0 {
			switch encoderName {
			case "h264_videotoolbox":
				quality = 75
			case "h264_nvenc":
				quality = 28
			default:
				quality = 23
			}
		}
		ff, err := encode.NewFFmpegSink(ctx, cfg.Output, cfg.Width, cfg.Height, cfg.FPS, encoderName, quality)
		if err != nil {
			return err
		}
		sink = ff
	}

	// Offline renders hold one animation; the crossfade only matters live.
	p, err := player.New(table, assets.Sheet.Image, comp, 0, sink)
	if err != nil {
		sink.Close()
		return err
	}
	if cfg.Animation != "" && !p.SetActive(cfg.Animation) {
		sink.Close()
		return fmt.Errorf("unknown animation %q", cfg.Animation)
	}

	started := time.Now()
	duration := time.Duration(cfg.Duration * float64(time.Second))
	frames, err := p.RenderSequence(ctx, duration, cfg.FPS)
	if err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}

	if cfg.ShowStats {
		printStats(cfg, frames, time.Since(started))
	}

	fmt.Printf("[+++] Done! Output: %s\n", cfg.Output)
	return nil
}

func runLive(ctx context.Context, cfg *config.Config, table *anim.Table, assets *sheet.Assets, comp *render.Compositor) error {
	var sinks []player.Sink
	if cfg.Mqtt.URL != "" {
		ms, err := stream.Connect(cfg.Mqtt.URL, cfg.Mqtt.Username, cfg.Mqtt.Password, cfg.Mqtt.ClientID, cfg.Mqtt.Topic)
		if err != nil {
			return err
		}
		defer ms.Close()
		sinks = append(sinks, ms)
		fmt.Printf("[*] Streaming frames to %s (%s)\n", cfg.Mqtt.URL, cfg.Mqtt.Topic)
	}

	p, err := player.New(table, assets.Sheet.Image, comp, cfg.TransitionMs, sinks...)
	if err != nil {
		return err
	}
	if cfg.Animation != "" && !p.SetActive(cfg.Animation) {
		return fmt.Errorf("unknown animation %q", cfg.Animation)
	}

	srv := api.NewServer(p, cfg.Listen)
	go func() {
		if err := srv.Serve(); err != nil {
			log.Fatalf("[-] Control API: %v", err)
		}
	}()

	status := p.Status()
	fmt.Printf("[*] Now playing: %s\n", status.Label)
	return p.Run(ctx, cfg.FPS)
}

func detectGrid(sheetPath string) error {
	s, err := sheet.Load(sheetPath)
	if err != nil {
		return err
	}

	guess, err := analyzer.NewGridDetector().Detect(s.Image)
	if err != nil {
		return err
	}

	fmt.Printf("[*] Detected grid: %d columns x %d rows, cell %dx%d px\n",
		guess.Columns, guess.Rows, guess.FrameWidth, guess.FrameHeight)
	fmt.Printf("[*] Suggested document defaults:\n")
	fmt.Printf("    \"defaults\": {\"frameWidth\": %d, \"frameHeight\": %d}\n",
		guess.FrameWidth, guess.FrameHeight)
	return nil
}

func printStats(cfg *config.Config, frames int, elapsed time.Duration) {
	effectiveFPS := float64(frames) / elapsed.Seconds()

	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Effective FPS: %.2f\n",
		cfg.BuildVersion, frames, elapsed.Seconds(), effectiveFPS,
	)
	if stats, err := system.SampleRuntimeStats(); err == nil {
		report += fmt.Sprintf(
			"Process RSS: %.1f MiB\n"+
				"Process CPU: %.1f%%\n"+
				"Host Memory Used: %.1f%%\n",
			stats.RSSMiB, stats.CPUPercent, stats.MemUsedPercent,
		)
	}
	report += "----------------------------\n"
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Output: %s | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		cfg.BuildVersion,
		filepath.Base(cfg.Output),
		frames,
		elapsed.Seconds(),
		effectiveFPS,
	)
	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		fmt.Printf("[!] Could not write benchmark.log: %v\n", err)
	}
}
