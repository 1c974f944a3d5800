// Package parallel provides row-sliced parallel execution for the software
// compositor. The output frame is split into contiguous row bands, one per
// worker, which keeps writes cache-friendly and avoids false sharing on the
// pixel buffer.
package parallel

import (
	"runtime"
	"sync"
)

// minRowsPerWorker avoids spawning goroutines for tiny bands where the
// scheduling overhead exceeds the pixel work.
const minRowsPerWorker = 16

// ForRows executes fn over [0, height) split into contiguous bands across
// up to workers goroutines. fn receives a half-open row range [y0, y1).
// If workers is 0 or negative, GOMAXPROCS is used. ForRows returns when all
// bands are done.
//
// fn must be safe to run concurrently for disjoint row ranges.
func ForRows(workers, height int, fn func(y0, y1 int)) {
	if height <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if max := (height + minRowsPerWorker - 1) / minRowsPerWorker; workers > max {
		workers = max
	}
	if workers <= 1 {
		fn(0, height)
		return
	}

	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(a, b int) {
			defer wg.Done()
			fn(a, b)
		}(y0, y1)
	}
	wg.Wait()
}
