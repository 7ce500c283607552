package deps

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// FFmpegVersion runs "binary -version" and returns the first line of its
// output, for example "ffmpeg version 7.1 Copyright (c) ...".
func FFmpegVersion(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text()), nil
	}
	return "", scanner.Err()
}

// DescribeFFmpeg fills in the version detail of an available FFmpeg status.
func DescribeFFmpeg(ctx context.Context, status Status) Status {
	if !status.Available {
		return status
	}
	version, err := FFmpegVersion(ctx, status.Command)
	if err != nil {
		status.Available = false
		status.Detail = "ffmpeg -version failed: " + err.Error()
		return status
	}
	status.Detail = version
	return status
}
