package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"video-compressor/internal/domain"
)

// progressBuffer bounds in-flight progress ticks. Delivery is best-effort: a
// full buffer drops the tick rather than blocking the stream reader.
const progressBuffer = 64

// scanProgress reads encoder progress lines until the stream closes,
// delivering elapsed-time ticks onto the channel. Elapsed times arrive in
// non-decreasing order because ffmpeg reports them that way.
func scanProgress(r io.Reader, videoID, fileName string, ticks chan<- domain.ProgressEvent) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		elapsed, timecode, ok := parseOutTime(scanner.Text())
		if !ok {
			continue
		}

		event := domain.ProgressEvent{
			VideoID:        videoID,
			FileName:       fileName,
			Timecode:       timecode,
			ElapsedSeconds: elapsed,
		}
		select {
		case ticks <- event:
		default:
		}
	}
}

// parseOutTime extracts the elapsed encoded time from one progress line.
// ffmpeg emits both out_time_ms (microseconds, despite the name) and a
// timecode form; either is accepted.
func parseOutTime(line string) (float64, string, bool) {
	if value, ok := strings.CutPrefix(line, "out_time_ms="); ok {
		micros, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || micros < 0 {
			return 0, "", false
		}
		seconds := float64(micros) / 1e6
		return seconds, formatTimecode(seconds), true
	}

	if value, ok := strings.CutPrefix(line, "out_time="); ok {
		value = strings.TrimSpace(value)
		seconds, ok := ParseTimecode(value)
		if !ok {
			return 0, "", false
		}
		return seconds, value, true
	}

	return 0, "", false
}

// ParseTimecode converts an HH:MM:SS.fraction timestamp into total seconds.
func ParseTimecode(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return 0, false
	}

	return hours*3600 + minutes*60 + seconds, true
}

// formatTimecode renders seconds as HH:MM:SS.mmm for display.
func formatTimecode(total float64) string {
	if total < 0 {
		total = 0
	}
	hours := int(total) / 3600
	minutes := (int(total) % 3600) / 60
	seconds := total - float64(hours*3600+minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, seconds)
}
