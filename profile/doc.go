// Package profile provides pprof capture for CLI runs.
//
// It exists to answer "where does a slow parse spend its time": union
// fan-out and candidate scoring are the usual suspects, and a CPU profile
// of a real input settles it. Wire [Config.RegisterFlags] into a command
// and bracket the work with [Profiler.Start] and [Profiler.Stop].
package profile
