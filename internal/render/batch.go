package render

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"sync"

	"certforge/internal/dataset"
	"certforge/internal/imaging"
	"certforge/internal/region"
)

// outputPattern numbers certificates by dataset row, one-based, independent
// of worker completion order.
const outputPattern = "certificate_%03d.jpg"

// BatchOptions tunes a batch run. The zero value renders every row with one
// worker per CPU.
type BatchOptions struct {
	// Workers is the number of rows rendered concurrently. Zero or
	// negative means runtime.NumCPU().
	Workers int

	// SampleOnly renders only the first row, as a preview.
	SampleOnly bool
}

// Output is one generated certificate file.
type Output struct {
	Row  int // one-based dataset row
	Path string
}

// RowFailure is a row that could not be rendered or saved. The batch
// continues past it.
type RowFailure struct {
	Row int
	Err error
}

// RowOverflow is a text-overflow warning attributed to its row.
type RowOverflow struct {
	Row     int
	Warning OverflowWarning
}

// Report summarizes a batch run. Slices are ordered by row.
type Report struct {
	Generated []Output
	Skipped   []RowFailure
	Overflows []RowOverflow
}

// RenderBatch renders every dataset row against the template and writes the
// results into outDir as certificate_001.jpg, certificate_002.jpg and so on,
// numbered strictly by row order regardless of which worker finishes first.
//
// Rows are independent: a failing row is logged, recorded in the report and
// skipped, and the batch continues. Cancelling ctx stops the batch between
// rows; rows already dispatched finish, and the partial report is returned
// together with the context's error.
func (r *Renderer) RenderBatch(ctx context.Context, tpl *imaging.Template, regions []region.Region, ds *dataset.Dataset, outDir string, opts BatchOptions) (*Report, error) {
	if tpl == nil {
		return nil, fmt.Errorf("render: nil template")
	}
	if ds == nil || len(ds.Rows) == 0 {
		return &Report{}, nil
	}

	rows := ds.Rows
	if opts.SampleOnly {
		rows = rows[:1]
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}

	type rowResult struct {
		attempted bool
		path      string
		warnings  []OverflowWarning
		err       error
	}
	results := make([]rowResult, len(rows))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				img, warnings, err := r.renderRow(tpl, regions, rows[idx])
				path := ""
				if err == nil {
					path = filepath.Join(outDir, fmt.Sprintf(outputPattern, idx+1))
					err = imaging.SaveJPEG(img, path)
				}
				if err != nil {
					log.Printf("render: row %d skipped: %v", idx+1, err)
				}
				results[idx] = rowResult{attempted: true, path: path, warnings: warnings, err: err}
			}
		}()
	}

	var ctxErr error
dispatch:
	for idx := range rows {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	report := &Report{}
	for idx, res := range results {
		if !res.attempted {
			continue
		}
		if res.err != nil {
			report.Skipped = append(report.Skipped, RowFailure{Row: idx + 1, Err: res.err})
			continue
		}
		report.Generated = append(report.Generated, Output{Row: idx + 1, Path: res.path})
		for _, w := range res.warnings {
			report.Overflows = append(report.Overflows, RowOverflow{Row: idx + 1, Warning: w})
		}
	}

	log.Printf("render: generated %d certificate(s), skipped %d", len(report.Generated), len(report.Skipped))
	return report, ctxErr
}
