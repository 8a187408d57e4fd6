package engine

import "time"

// replayTimes builds the timestamp ladder for a replay run: count points
// starting at start, step apart.
func replayTimes(start time.Time, count int, step time.Duration) []time.Time {
	if count <= 0 {
		return nil
	}

	times := make([]time.Time, count)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * step)
	}
	return times
}
