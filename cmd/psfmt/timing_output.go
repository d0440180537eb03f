package main

import (
	"fmt"
	"io"

	"psfmt/internal/observ"
	"psfmt/internal/pipeline"
)

// recordStageTimings adds per-stage totals (summed over workers) to timer.
func recordStageTimings(timer *observ.Timer, timings *pipeline.Timings) {
	for _, st := range []pipeline.Stage{pipeline.StageRead, pipeline.StageParse, pipeline.StageFormat, pipeline.StageWrite} {
		if timings.Has(st) {
			timer.Record("  "+string(st), timings.Duration(st), "sum over files")
		}
	}
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
}
