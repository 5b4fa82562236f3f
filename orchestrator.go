package pixfx

// runPasses executes filters in order on the backend st selected. The pass
// counter is shared by the whole pipeline: st.Passes starts at the filter
// count and each multi-pass filter adds its extra passes when it starts, so
// st.Passes == 1 always identifies the final pass.
//
// Every GPU pass swaps source and target. On the CPU only multi-pass filters
// swap; single-pass filters work on st.ImageData in place, so st.Swaps (and
// Result.Swaps) counts the passes of multi-pass CPU filters alone.
//
// There is no rollback: on error the buffers keep whatever earlier passes
// wrote.
func runPasses(filters []Filter, st *PipelineState) error {
	st.Passes = len(filters)
	for _, f := range filters {
		if err := runFilter(f, st); err != nil {
			return err
		}
	}
	return nil
}

// runFilter runs every pass of one filter, toggling directional filters
// between the horizontal and vertical axis.
func runFilter(f Filter, st *PipelineState) error {
	n := max(f.Passes(), 1)
	st.Passes += n - 1
	dir, directional := f.(directionalFilter)
	for i := 0; i < n; i++ {
		if directional {
			dir.setHorizontal(i%2 == 0)
		}
		if err := runPass(f, st, n > 1); err != nil {
			return err
		}
	}
	if directional {
		dir.setHorizontal(true)
	}
	return nil
}

// runPass prepares the target buffer, runs one pass and swaps buffers.
// Single-pass CPU filters work in place and do not swap.
func runPass(f Filter, st *PipelineState, multiPass bool) error {
	if st.GPU {
		st.lastWritten = nil
		if err := f.ApplyTo(st); err != nil {
			return err
		}
		st.swapTextures(st.lastWritten)
		return nil
	}
	if multiPass {
		st.setupCPUTarget()
	}
	if err := f.ApplyTo(st); err != nil {
		return err
	}
	if multiPass {
		st.swapImages()
	} else {
		st.advance()
	}
	return nil
}
