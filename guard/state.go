package guard

// State is one of the four resource-pressure levels the guard broadcasts.
// Levels only ever move by one step at a time, in either direction.
type State int

const (
	Normal State = iota
	Reduced
	Minimal
	Emergency
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Reduced:
		return "reduced"
	case Minimal:
		return "minimal"
	case Emergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Thresholds configures the enter/exit pressure bands for each level. Enter
// thresholds trigger escalation; exit thresholds (10% below enter, per
// spec's hysteresis band) trigger de-escalation, so the guard does not
// flap around a boundary value.
type Thresholds struct {
	// RSSBytes is the resident-set-size enter threshold for Reduced,
	// Minimal, and Emergency respectively.
	RSSBytes [3]uint64
	// DiskFreeBytes is the minimum free disk space; falling below a level's
	// entry escalates, exactly as RSS does, just inverted (lower = worse).
	DiskFreeBytes [3]uint64
	// CPULoad is the runnable-goroutines-per-core enter threshold.
	CPULoad [3]float64
}

// DefaultThresholds is a reasonable profile for a generation host; callers
// size it to the machine via config.
var DefaultThresholds = Thresholds{
	RSSBytes:      [3]uint64{2 << 30, 4 << 30, 6 << 30},
	DiskFreeBytes: [3]uint64{20 << 30, 10 << 30, 2 << 30},
	CPULoad:       [3]float64{4.0, 8.0, 16.0},
}

const hysteresisBand = 0.10

// levelFor returns the highest level whose enter-threshold the sample
// crosses; exitLevel is used for de-escalation instead, since exit
// thresholds sit 10% inside the enter thresholds.
func (t Thresholds) levelFor(rss, diskFree uint64, cpu float64) State {
	level := Normal
	for i := 2; i >= 0; i-- {
		if rss >= t.RSSBytes[i] || diskFree <= t.DiskFreeBytes[i] || cpu >= t.CPULoad[i] {
			level = State(i + 1)
			break
		}
	}
	return level
}

// exitLevelFor mirrors levelFor but against thresholds relaxed by the
// hysteresis band, used to decide de-escalation so a value oscillating
// right at a boundary doesn't cause state flapping.
func (t Thresholds) exitLevelFor(rss, diskFree uint64, cpu float64) State {
	level := Normal
	for i := 2; i >= 0; i-- {
		rssExit := uint64(float64(t.RSSBytes[i]) * (1 - hysteresisBand))
		diskExit := uint64(float64(t.DiskFreeBytes[i]) * (1 + hysteresisBand))
		cpuExit := t.CPULoad[i] * (1 - hysteresisBand)
		if rss >= rssExit || diskFree <= diskExit || cpu >= cpuExit {
			level = State(i + 1)
			break
		}
	}
	return level
}
