package entity

// FrameType is the coding type of a decoded video frame.
type FrameType string

const (
	FrameTypeI       FrameType = "I"
	FrameTypeP       FrameType = "P"
	FrameTypeB       FrameType = "B"
	FrameTypeUnknown FrameType = "?"
)

// FrameRecord describes one decoded frame of the source video, in
// presentation order. Produced by the frame analyzer and never mutated.
type FrameRecord struct {
	Index     int
	Timestamp float64
	Type      FrameType
	SizeBytes int64
}

func (f FrameRecord) IsKeyframe() bool {
	return f.Type == FrameTypeI
}

// Keyframes returns the I-frames of the sequence, preserving order.
func Keyframes(frames []FrameRecord) []FrameRecord {
	var keys []FrameRecord
	for _, f := range frames {
		if f.IsKeyframe() {
			keys = append(keys, f)
		}
	}
	return keys
}
