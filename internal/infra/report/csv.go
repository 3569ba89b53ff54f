package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/neudestifanoes/Ghostify/internal/domain/entity"
)

// CSVWriter persists the frame index as a CSV report for operator
// inspection (index, timestamp, type, size_bytes, size_kb).
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

func (w *CSVWriter) WriteReport(ctx context.Context, frames []entity.FrameRecord, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{"index", "timestamp", "type", "size_bytes", "size_kb"}); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, f := range frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row := []string{
			strconv.Itoa(f.Index),
			strconv.FormatFloat(f.Timestamp, 'f', 4, 64),
			string(f.Type),
			strconv.FormatInt(f.SizeBytes, 10),
			strconv.FormatFloat(float64(f.SizeBytes)/1024, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row %d: %w", f.Index, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}
