package waveform

// Change is a single (time index, raw value) pair as produced by a
// SignalSource's lazy change iterator.
type Change struct {
	TimeIdx uint32
	Raw     VariableValue
}

// SignalSource is the abstract signal-producing collaborator the core
// consumes. Concrete implementations (VCD/FST/GHW/FTR/CXXRTL parsers) live
// outside this module's scope; the core only relies on this interface.
type SignalSource interface {
	// IterChanges returns every (time_idx, raw value) change for a signal,
	// in ascending time order.
	IterChanges(signalID uint64) []Change
	// TimeTable returns the full table mapping time index to timestamp.
	TimeTable() []uint64
	// LoadSignals fulfils a batch load request, optionally using multiple
	// worker goroutines.
	LoadSignals(ids []uint64, multiThreaded bool) map[uint64]Signal
	// IsSignalLoaded reports whether a signal's change stream is resident.
	IsSignalLoaded(id uint64) bool
}

// Signal is the minimal in-memory signal representation the core needs:
// its own id and its change stream.
type Signal struct {
	ID      uint64
	Changes []Change
}
