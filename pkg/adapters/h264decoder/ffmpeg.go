package h264decoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// findFFmpeg searches for ffmpeg in PATH and common locations.
// A non-empty custom path is used as is.
func findFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// runFFmpeg decodes an Annex B stream and returns every picture in display order.
func runFFmpeg(ffmpegPath string, stream []byte) ([]image.Image, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ffmpegPath,
		"-hide_banner",
		"-loglevel", "error",
		"-f", "h264",
		"-i", "pipe:0",
		"-vsync", "0",
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(stream)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, stderr.String())
	}

	return readPNGSequence(&stdout)
}

// readPNGSequence decodes concatenated PNG images.
func readPNGSequence(r io.Reader) ([]image.Image, error) {
	br := bufio.NewReader(r)
	var images []image.Image
	for {
		if _, err := br.Peek(1); errors.Is(err, io.EOF) {
			return images, nil
		}
		img, err := png.Decode(br)
		if err != nil {
			return nil, fmt.Errorf("decode png %d: %w", len(images), err)
		}
		images = append(images, img)
	}
}
