package compiler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fluxgraph/fluxgraph/internal/ir"
	"github.com/fluxgraph/fluxgraph/internal/namespace"
)

// conditionPattern matches "<signal_path> <op> <number>" per spec.md §4.5 and
// §6's external rule-condition grammar.
var conditionPattern = regexp.MustCompile(
	`^([A-Za-z0-9_./-]+)\s*(<=|>=|==|!=|<|>)\s*([-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?)$`,
)

// compareOp is one of the six comparison operators the condition grammar
// supports.
type compareOp string

const (
	opLT compareOp = "<"
	opLE compareOp = "<="
	opGT compareOp = ">"
	opGE compareOp = ">="
	opEQ compareOp = "=="
	opNE compareOp = "!="
)

func compare(op compareOp, lhs, rhs float64) bool {
	switch op {
	case opLT:
		return lhs < rhs
	case opLE:
		return lhs <= rhs
	case opGT:
		return lhs > rhs
	case opGE:
		return lhs >= rhs
	case opEQ:
		return lhs == rhs
	case opNE:
		return lhs != rhs
	default:
		return false
	}
}

// compileCondition parses a rule's condition string and returns a closure
// that evaluates it against the store, along with the signal id it reads.
// ruleID is used only for error context.
func compileCondition(ruleID, expr string, signalNS *namespace.Namespace[ir.SignalId]) (ir.RuleCondition, ir.SignalId, error) {
	trimmed := strings.TrimSpace(expr)
	matches := conditionPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return nil, ir.InvalidSignalId, ir.NewCompileError(ir.ErrInvalidCondition, ruleID,
			"unsupported rule condition syntax, expected \"<signal_path> <op> <number>\"")
	}

	path := matches[1]
	op := compareOp(matches[2])
	rhs, err := strconv.ParseFloat(matches[3], 64)
	if err != nil {
		return nil, ir.InvalidSignalId, ir.NewCompileError(ir.ErrInvalidCondition, ruleID,
			"malformed numeric literal in condition: "+matches[3])
	}

	signalID := signalNS.Intern(path)
	condition := func(store ir.Store) bool {
		return compare(op, store.ReadValue(signalID), rhs)
	}
	return condition, signalID, nil
}
