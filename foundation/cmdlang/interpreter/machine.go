// File: machine.go
// Title: Control-Flow State Machine
// Description: Consumes script lines one at a time, evaluates IF and FOR
//              conditions, records loop bodies during their first pass and
//              hands them back for replay while the loop condition holds.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package interpreter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/msto63/cmdscript/foundation/cmdlang/expression"
	"github.com/msto63/cmdscript/foundation/cmdlang/variables"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwlog "github.com/msto63/cmdscript/foundation/core/log"
)

// State is the run state of the machine
type State int

const (
	StateSequential State = iota
	StateLooping
	StateSkipping
)

// String returns the name of the state
func (s State) String() string {
	switch s {
	case StateLooping:
		return "LOOPING"
	case StateSkipping:
		return "SKIPPING"
	default:
		return "SEQUENTIAL"
	}
}

// DefaultMaxLoopIterations bounds the replays of a single loop
const DefaultMaxLoopIterations = 10000

var (
	ifPattern  = regexp.MustCompile(`(?i)^\s*IF\s+(.+?)\s+THEN\s*$`)
	forPattern = regexp.MustCompile(`(?i)^\s*FOR\s+WHILE\s+(.+?)\s+LOOP\s*$`)
)

// Options configures a Machine
type Options struct {
	Logger *mdwlog.Logger
	// MaxLoopIterations bounds loop replays. Zero uses the default,
	// a negative value disables the limit.
	MaxLoopIterations int
}

// Machine is the control-flow state of one interpreter session
type Machine struct {
	store         *variables.Store
	evaluator     expression.Evaluator
	logger        *mdwlog.Logger
	maxIterations int

	state     State
	insideIf  bool
	insideFor bool
	// aborted keeps the open block skipped until its terminator, even
	// across ELSE
	aborted bool

	loopCondition     string
	loopCompletedOnce bool
	loopBuffer        []string
	iterations        int
}

// NewMachine creates a machine in SEQUENTIAL state
func NewMachine(store *variables.Store, evaluator expression.Evaluator, options Options) *Machine {
	if options.Logger == nil {
		options.Logger = mdwlog.GetDefault()
	}
	if options.MaxLoopIterations == 0 {
		options.MaxLoopIterations = DefaultMaxLoopIterations
	}
	return &Machine{
		store:         store,
		evaluator:     evaluator,
		logger:        options.Logger.WithField("component", "cmdlang-interpreter"),
		maxIterations: options.MaxLoopIterations,
	}
}

// State returns the current run state
func (m *Machine) State() State {
	return m.state
}

// InsideIf reports whether an IF block is open
func (m *Machine) InsideIf() bool {
	return m.insideIf
}

// InsideFor reports whether a FOR block is open
func (m *Machine) InsideFor() bool {
	return m.insideFor
}

// Reset closes any open block and returns to SEQUENTIAL
func (m *Machine) Reset() {
	m.state = StateSequential
	m.insideIf = false
	m.aborted = false
	m.exitLoop()
}

// Process classifies line and applies it to the machine
func (m *Machine) Process(line string) (Statement, error) {
	switch kind := Classify(line); kind {
	case KindIf:
		return m.handleIf(line)
	case KindElse:
		return m.handleElse()
	case KindEndIf:
		return m.handleEndIf()
	case KindFor:
		return m.handleFor(line)
	case KindEndFor:
		if !m.insideFor {
			m.logger.Warn("END FOR without open FOR ignored")
			return Control(), nil
		}
		return m.ContinueLoop()
	case KindAssignment:
		return m.handleAssignment(line)
	default:
		return m.handlePlain(line)
	}
}

// ContinueLoop applies the END FOR of the open loop. While the loop
// condition holds it returns the loop body for another replay; otherwise
// the loop is closed and a Control statement is returned.
func (m *Machine) ContinueLoop() (Statement, error) {
	if !m.insideFor {
		return Control(), nil
	}
	if m.state != StateLooping {
		m.logger.Debug("leaving skipped loop")
		m.state = StateSequential
		m.exitLoop()
		return Control(), nil
	}

	ok, err := m.evaluate(m.loopCondition, "interpreter.ContinueLoop")
	if err != nil {
		m.state = StateSequential
		m.exitLoop()
		return Control(), err
	}
	if !ok {
		m.logger.Debug("loop finished", mdwlog.Fields{"iterations": m.iterations})
		m.state = StateSequential
		m.exitLoop()
		return Control(), nil
	}

	m.iterations++
	if m.maxIterations > 0 && m.iterations > m.maxIterations {
		limit := m.maxIterations
		m.state = StateSequential
		m.exitLoop()
		return Control(), controlFlowError(fmt.Sprintf("loop exceeded %d iterations", limit), "interpreter.ContinueLoop").
			WithDetail("limit", limit)
	}
	m.loopCompletedOnce = true
	return LoopBody(m.loopBuffer), nil
}

func (m *Machine) handlePlain(line string) (Statement, error) {
	if m.state == StateSkipping {
		return Control(), nil
	}
	m.record(line)

	text, err := m.store.Substitute(line)
	if err != nil {
		return Control(), err
	}
	return Plain(text), nil
}

// handleAssignment binds the value of an expression right away, or
// returns an Assignment when the right-hand side is a command
func (m *Machine) handleAssignment(line string) (Statement, error) {
	if m.state == StateSkipping {
		return Control(), nil
	}
	m.record(line)

	parts := strings.Split(line, AssignmentOperator)
	if len(parts) != 2 {
		return Control(), mdwerror.New("invalid assignment, expected: $variable := statement").
			WithCode(mdwerror.CodeParseError).
			WithOperation("interpreter.handleAssignment").
			WithDetail("line", line)
	}
	target := strings.TrimPrefix(strings.TrimSpace(parts[0]), "$")
	if err := variables.ValidateName(target); err != nil {
		return Control(), err
	}
	rhs := strings.TrimSpace(parts[1])
	if rhs == "" {
		return Control(), mdwerror.New("missing statement in assignment to '$"+target+"'").
			WithCode(mdwerror.CodeParseError).
			WithOperation("interpreter.handleAssignment").
			WithDetail("variable", target)
	}

	rhs, err := m.store.Substitute(rhs)
	if err != nil {
		return Control(), err
	}
	if value, evalErr := m.evaluator.EvaluateExpr(rhs, m.store.Snapshot()); evalErr == nil {
		if err := m.store.Set(target, value); err != nil {
			return Control(), err
		}
		m.logger.Debug("variable assigned", mdwlog.Fields{"variable": target})
		return Control(), nil
	}
	return Assignment(rhs, target), nil
}

func (m *Machine) handleIf(line string) (Statement, error) {
	if m.insideIf || m.insideFor {
		m.abortBlock()
		return Control(), controlFlowError("nesting not allowed: IF inside an open block", "interpreter.handleIf")
	}

	m.insideIf = true
	condition, err := extract(ifPattern, line, "IF <condition> THEN")
	if err == nil {
		var ok bool
		if ok, err = m.evaluate(condition, "interpreter.handleIf"); err == nil {
			if !ok {
				m.state = StateSkipping
			}
			m.logger.Debug("IF opened", mdwlog.Fields{"condition": condition, "result": ok})
			return Control(), nil
		}
	}
	m.abortBlock()
	return Control(), err
}

func (m *Machine) handleElse() (Statement, error) {
	if !m.insideIf {
		if m.insideFor {
			m.abortBlock()
		}
		return Control(), controlFlowError("ELSE without IF", "interpreter.handleElse")
	}
	if m.aborted {
		return Control(), nil
	}
	if m.state == StateSkipping {
		m.state = StateSequential
	} else {
		m.state = StateSkipping
	}
	return Control(), nil
}

func (m *Machine) handleEndIf() (Statement, error) {
	if !m.insideIf {
		m.logger.Warn("END IF without open IF ignored")
		return Control(), nil
	}
	m.state = StateSequential
	m.insideIf = false
	m.aborted = false
	return Control(), nil
}

func (m *Machine) handleFor(line string) (Statement, error) {
	if m.insideIf || m.insideFor {
		m.abortBlock()
		return Control(), controlFlowError("nesting not allowed: FOR inside an open block", "interpreter.handleFor")
	}

	m.insideFor = true
	m.loopBuffer = []string{}
	m.loopCompletedOnce = false
	m.iterations = 0

	condition, err := extract(forPattern, line, "FOR WHILE <condition> LOOP")
	if err == nil {
		var ok bool
		if ok, err = m.evaluate(condition, "interpreter.handleFor"); err == nil {
			if ok {
				m.state = StateLooping
				m.loopCondition = condition
			} else {
				m.state = StateSkipping
			}
			m.logger.Debug("FOR opened", mdwlog.Fields{"condition": condition, "result": ok})
			return Control(), nil
		}
	}
	m.abortBlock()
	return Control(), err
}

// record appends line to the loop buffer during a loop's first pass
func (m *Machine) record(line string) {
	if m.state == StateLooping && !m.loopCompletedOnce {
		m.loopBuffer = append(m.loopBuffer, line)
	}
}

// abortBlock skips the rest of the open block up to its terminator
func (m *Machine) abortBlock() {
	if m.insideIf || m.insideFor {
		m.state = StateSkipping
		m.aborted = true
	}
}

func (m *Machine) exitLoop() {
	m.insideFor = false
	m.loopCondition = ""
	m.loopCompletedOnce = false
	m.loopBuffer = nil
	m.iterations = 0
	if !m.insideIf {
		m.aborted = false
	}
}

func (m *Machine) evaluate(condition, operation string) (bool, error) {
	ok, err := m.evaluator.EvaluateBool(variables.StripPrefix(condition), m.store.Snapshot())
	if err != nil {
		return false, mdwerror.Wrap(err, "cannot evaluate condition").
			WithCode(mdwerror.CodeConditionEvaluation).
			WithOperation(operation).
			WithDetail("condition", condition)
	}
	return ok, nil
}

func extract(pattern *regexp.Regexp, line, form string) (string, error) {
	match := pattern.FindStringSubmatch(line)
	if match == nil {
		return "", controlFlowError("unable to parse statement, expected: "+form, "interpreter.extract").
			WithDetail("line", strings.TrimSpace(line))
	}
	return strings.TrimSpace(match[1]), nil
}

func controlFlowError(message, operation string) *mdwerror.Error {
	return mdwerror.New(message).
		WithCode(mdwerror.CodeInvalidControlFlow).
		WithOperation(operation)
}
