package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/keagan/vidfx/pkg/util"
)

// ProbeVideo extracts metadata from a video file
func (e *Executor) ProbeVideo(ctx context.Context, filePath string) (*VideoInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path is required")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	}

	cmd := exec.CommandContext(ctx, e.ffprobePath, args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &VideoInfo{
		FilePath: filePath,
	}

	// Parse duration
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = util.Seconds(dur)
	}

	// Parse bitrate
	if br, err := strconv.ParseInt(probe.Format.BitRate, 10, 64); err == nil {
		info.Bitrate = br
	}

	// First video and first audio stream win
	for _, stream := range probe.Streams {
		switch {
		case stream.CodecType == "video" && info.VideoCodec == "":
			info.Width = stream.Width
			info.Height = stream.Height
			info.VideoCodec = stream.CodecName

			// Calculate FPS from r_frame_rate (e.g., "30/1"), falling back
			// to the average rate for variable frame rate sources
			info.FPS = util.ParseFrameRate(stream.RFrameRate)
			if info.FPS <= 0 || info.FPS > 1000 {
				info.FPS = util.ParseFrameRate(stream.AvgFrameRate)
			}
		case stream.CodecType == "audio" && !info.HasAudio:
			info.HasAudio = true
			info.AudioCodec = stream.CodecName
			info.AudioChannels = stream.Channels
			if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
				info.AudioSampleRate = sr
			}
		}
	}

	if info.VideoCodec == "" && !info.HasAudio {
		return nil, fmt.Errorf("%s has no audio or video streams", filePath)
	}

	e.logger.Debug().
		Str("file", filePath).
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Bool("audio", info.HasAudio).
		Msg("probed media")

	return info, nil
}

// probeResult matches ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		SampleRate   string `json:"sample_rate"`
		Channels     int    `json:"channels"`
	} `json:"streams"`
}
