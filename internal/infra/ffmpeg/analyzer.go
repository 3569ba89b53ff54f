package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
	"github.com/neudestifanoes/Ghostify/internal/domain/port"
	"go.uber.org/zap"
)

// Analyzer reads the frame index of a video with ffprobe: one record per
// decoded frame with its coding type, presentation timestamp and packet size.
type Analyzer struct {
	runner port.CommandRunner
	logger *zap.Logger
}

func NewAnalyzer(runner port.CommandRunner, logger *zap.Logger) *Analyzer {
	return &Analyzer{runner: runner, logger: logger}
}

type probeFrame struct {
	PictType string `json:"pict_type"`
	PtsTime  string `json:"pts_time"`
	PktSize  string `json:"pkt_size"`
}

type probeFramesOutput struct {
	Frames []probeFrame `json:"frames"`
}

func (a *Analyzer) AnalyzeFrames(ctx context.Context, videoPath string) ([]entity.FrameRecord, error) {
	output, err := a.runner.Run(ctx, "analyze", "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "frame=pict_type,pts_time,pkt_size",
		"-of", "json",
		videoPath,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}

	var parsed probeFramesOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse ffprobe frames: %v", entity.ErrDecode, err)
	}
	if len(parsed.Frames) == 0 {
		return nil, fmt.Errorf("%w: no decodable video stream in %s", entity.ErrDecode, videoPath)
	}

	frames := make([]entity.FrameRecord, 0, len(parsed.Frames))
	for i, pf := range parsed.Frames {
		ts, err := strconv.ParseFloat(pf.PtsTime, 64)
		if err != nil {
			// Frames without a pts (e.g. attached pictures) are skipped.
			continue
		}
		size, _ := strconv.ParseInt(pf.PktSize, 10, 64)

		ftype := entity.FrameType(pf.PictType)
		switch ftype {
		case entity.FrameTypeI, entity.FrameTypeP, entity.FrameTypeB:
		default:
			ftype = entity.FrameTypeUnknown
		}

		frames = append(frames, entity.FrameRecord{
			Index:     i,
			Timestamp: ts,
			Type:      ftype,
			SizeBytes: size,
		})
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: no frames with timestamps in %s", entity.ErrDecode, videoPath)
	}

	// Presentation order; stable sort keeps decode order on timestamp ties.
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Timestamp < frames[j].Timestamp
	})
	for i := range frames {
		frames[i].Index = i
	}

	a.logger.Info("frame analysis complete",
		zap.Int("frames", len(frames)),
		zap.Int("keyframes", len(entity.Keyframes(frames))),
	)
	return frames, nil
}

func (a *Analyzer) Probe(ctx context.Context, videoPath string) (port.VideoInfo, error) {
	return probeInfo(ctx, a.runner, "analyze", videoPath)
}

type probeStream struct {
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeInfoOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// probeInfo reads container-level shape with ffprobe. Shared by the
// analyzer and the renderer's dimension check.
func probeInfo(ctx context.Context, runner port.CommandRunner, stage, videoPath string) (port.VideoInfo, error) {
	output, err := runner.Run(ctx, stage, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,duration",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath,
	)
	if err != nil {
		return port.VideoInfo{}, fmt.Errorf("%w: %v", entity.ErrDecode, err)
	}

	var parsed probeInfoOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return port.VideoInfo{}, fmt.Errorf("%w: parse ffprobe info: %v", entity.ErrDecode, err)
	}
	if len(parsed.Streams) == 0 {
		return port.VideoInfo{}, fmt.Errorf("%w: no video stream in %s", entity.ErrDecode, videoPath)
	}

	stream := parsed.Streams[0]
	info := port.VideoInfo{
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: parseFrameRate(stream.AvgFrameRate),
	}
	if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		info.Duration = d
	} else if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
		info.Duration = d
	}
	return info, nil
}

// parseFrameRate parses ffprobe's rational frame rate, e.g. "30000/1001".
func parseFrameRate(rate string) float64 {
	num, den, ok := strings.Cut(rate, "/")
	if !ok {
		f, _ := strconv.ParseFloat(rate, 64)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
