package main

import "time"

type timing struct {
	Start time.Time
	End   time.Time
	Wall  time.Duration // measured on the monotonic clock
	CPU   time.Duration // user+system time of the whole process
}

type stopwatch struct {
	start    time.Time
	startCPU time.Duration
}

func startStopwatch() *stopwatch {
	return &stopwatch{
		startCPU: processCPUTime(),
		start:    time.Now(),
	}
}

func (sw *stopwatch) stop() timing {
	end := time.Now()
	cpu := processCPUTime()
	return timing{
		Start: sw.start,
		End:   end,
		Wall:  end.Sub(sw.start),
		CPU:   cpu - sw.startCPU,
	}
}
