package encode

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"time"
)

// FFmpegSink pipes raw RGBA frames into a single long-lived ffmpeg process
// and lets it mux the stream into the output container.
type FFmpegSink struct {
	path   string
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output bytes.Buffer
}

// NewFFmpegSink starts ffmpeg reading rawvideo from stdin. encoderName and
// quality follow the probe in system.GetBestH264Encoder.
func NewFFmpegSink(ctx context.Context, path string, width, height, fps int, encoderName string, quality int) (*FFmpegSink, error) {
	args := buildFFmpegArgs(width, height, fps, encoderName, quality, path)

	s := &FFmpegSink{path: path}
	s.cmd = exec.CommandContext(ctx, "ffmpeg", args...)
	s.cmd.Stdout = &s.output
	s.cmd.Stderr = &s.output

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	s.stdin = stdin

	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return s, nil
}

func buildFFmpegArgs(width, height, fps int, encoderName string, quality int, path string) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox does not take -q:v reliably; use a bitrate instead.
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, path)
	return args
}

// WriteFrame streams one raw RGBA frame.
func (s *FFmpegSink) WriteFrame(img *image.RGBA, _ time.Duration) error {
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w", err)
	}
	return nil
}

// Close ends the stream and waits for ffmpeg to finish the container.
func (s *FFmpegSink) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %v, output: %s", err, s.output.String())
	}
	return nil
}

func writeRawRGBA(w io.Writer, img *image.RGBA) error {
	bounds := img.Bounds()
	if img.Stride != bounds.Dx()*4 || bounds.Min.X != 0 || bounds.Min.Y != 0 {
		repacked := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(repacked, repacked.Bounds(), img, bounds.Min, draw.Src)
		img = repacked
	}
	_, err := w.Write(img.Pix)
	return err
}
