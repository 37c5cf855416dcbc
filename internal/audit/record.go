package audit

import "github.com/fluxgraph/fluxgraph/internal/ir"

// CommandRecord is the JSON-serializable projection of an ir.Command used
// in tick records: device/function are recorded by name (resolved by the
// caller through the namespaces in effect at record time) rather than by
// id, since ids are only stable for the lifetime of one loaded program and
// a replay reader has no namespace to resolve them against.
type CommandRecord struct {
	Device   string         `json:"device"`
	Function string         `json:"function"`
	Args     map[string]any `json:"args"`
}

// NewCommandRecord converts a compiled Command plus its resolved names
// into a CommandRecord.
func NewCommandRecord(cmd ir.Command, deviceName, functionName string) CommandRecord {
	args := make(map[string]any, len(cmd.Args))
	for k, v := range cmd.Args {
		args[k] = ir.ToAny(v)
	}
	return CommandRecord{Device: deviceName, Function: functionName, Args: args}
}

// TickRecord is one row of the tick journal, as returned by Replay.
type TickRecord struct {
	Generation uint64
	SimTime    float64
	ConfigHash string
	Commands   []CommandRecord
	RecordedAt int64
}
