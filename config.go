package rowdedup

// TempConfig describes where a Deduper's spill file lives. Dir is a
// process-wide configuration input (the host's scratch directory); when
// multiple Dedupers share a Dir concurrently, each must get a unique
// Prefix. Leaving Prefix empty lets spillfile.Open generate one from
// github.com/google/uuid, satisfying that uniqueness requirement without
// the host having to coordinate names itself.
type TempConfig struct {
	Dir    string
	Prefix string
}

// defaultFanIn and defaultFanInThreshold are the conventional constants
// the merge driver reduces runs with: merge 7 runs at a time once more
// than 15 runs are outstanding.
const (
	defaultFanIn          = 7
	defaultFanInThreshold = 15
)

// Config parameterises a Deduper. Width, MemBudget and Comparator are
// required; Temp, FanIn and FanInThreshold have usable zero values.
type Config struct {
	// Width is the fixed key width in bytes. Must be > 0.
	Width int
	// MemBudget is the in-memory ceiling in bytes. Must be large enough
	// to hold at least one key plus its ordered-set overhead.
	MemBudget int64
	// Comparator and Context define the total order over keys.
	Comparator Comparator
	Context    any

	Temp TempConfig

	// FanIn and FanInThreshold override the merge driver's bounded
	// fan-in reduction constants. Zero means "use the conventional
	// default" (7 and 15 respectively).
	FanIn          int
	FanInThreshold int

	// ForceSlowPath makes ExtractInto skip the fast, all-in-memory path
	// even when no run has spilled, exercising the same fallback the
	// fast path takes on an output-buffer allocation failure. Go slice
	// allocation panics rather than returning an error for any buffer
	// size this package would plausibly be asked for, so this flag is
	// the only practical way to drive that fallback from a test.
	ForceSlowPath bool
}

func (c Config) fanIn() int {
	if c.FanIn > 0 {
		return c.FanIn
	}
	return defaultFanIn
}

func (c Config) fanInThreshold() int {
	if c.FanInThreshold > 0 {
		return c.FanInThreshold
	}
	return defaultFanInThreshold
}
