package rules

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MarchPhase represents the broad phases of a Dragon Dice player turn.
type MarchPhase int

const (
	PhaseFirstMarch MarchPhase = iota
	PhaseSecondMarch
	PhaseReserves
)

var marchPhaseNames = map[MarchPhase]string{
	PhaseFirstMarch:  "FIRST_MARCH",
	PhaseSecondMarch: "SECOND_MARCH",
	PhaseReserves:    "RESERVES",
}

func (p MarchPhase) String() string {
	if name, ok := marchPhaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarchPhaseByName resolves a phase from its wire name.
func MarchPhaseByName(name string) (MarchPhase, bool) {
	for phase, n := range marchPhaseNames {
		if n == name {
			return phase, true
		}
	}
	return PhaseFirstMarch, false
}

// MarchStep represents the individual steps within a march.
type MarchStep int

const (
	StepDecideManeuver MarchStep = iota
	StepAwaitingManeuverInput
	StepRollForMarch
	StepResolveMarch
)

var marchStepNames = map[MarchStep]string{
	StepDecideManeuver:        "DECIDE_MANEUVER",
	StepAwaitingManeuverInput: "AWAITING_MANEUVER_INPUT",
	StepRollForMarch:          "ROLL_FOR_MARCH",
	StepResolveMarch:          "RESOLVE_MARCH",
}

func (s MarchStep) String() string {
	if name, ok := marchStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// MarchStepByName resolves a step from its wire name.
func MarchStepByName(name string) (MarchStep, bool) {
	for step, n := range marchStepNames {
		if n == name {
			return step, true
		}
	}
	return StepDecideManeuver, false
}

// marchPhaseSequence is the phase order within one player turn. Completing
// the last phase hands the turn to the next player.
var marchPhaseSequence = []MarchPhase{
	PhaseFirstMarch,
	PhaseSecondMarch,
	PhaseReserves,
}

// MarchEngine drives the march-phase state machine for the active player's
// turn. Maneuver input content is accepted but not validated here; the
// physical dice are the authority and validation belongs to the table.
type MarchEngine struct {
	mu         sync.Mutex
	turn       *TurnState
	bus        *EventBus
	logger     *zap.Logger
	phaseIndex int
	step       MarchStep
}

// NewMarchEngine creates a march engine at first march, decide-maneuver, with
// the first player in turn order active.
func NewMarchEngine(turn *TurnState, bus *EventBus, logger *zap.Logger) *MarchEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	me := &MarchEngine{
		turn:   turn,
		bus:    bus,
		logger: logger,
		step:   StepDecideManeuver,
	}
	if names := turn.PlayerNames(); len(names) > 0 {
		turn.SetCurrentPlayer(names[0])
	}
	turn.SetCurrentPhase(me.CurrentPhase().String())
	return me
}

// CurrentPhase returns the march phase currently in progress.
func (me *MarchEngine) CurrentPhase() MarchPhase {
	me.mu.Lock()
	defer me.mu.Unlock()
	return marchPhaseSequence[me.phaseIndex]
}

// CurrentStep returns the march step currently in progress.
func (me *MarchEngine) CurrentStep() MarchStep {
	me.mu.Lock()
	defer me.mu.Unlock()
	return me.step
}

// DecideManeuver records whether the active player wants to maneuver.
// Wanting to maneuver moves to awaiting-input; declining skips straight to
// the march roll.
func (me *MarchEngine) DecideManeuver(wantsToManeuver bool) {
	me.mu.Lock()
	if wantsToManeuver {
		me.step = StepAwaitingManeuverInput
	} else {
		me.step = StepRollForMarch
	}
	step := me.step
	me.mu.Unlock()

	me.logger.Debug("maneuver decision",
		zap.Bool("maneuver", wantsToManeuver),
		zap.String("step", step.String()),
	)
	me.publishStep(step)
}

// SubmitManeuverInput accepts the maneuver details and moves to the march
// roll unconditionally.
func (me *MarchEngine) SubmitManeuverInput(details string) {
	me.mu.Lock()
	me.step = StepRollForMarch
	step := me.step
	me.mu.Unlock()

	me.logger.Debug("maneuver input submitted",
		zap.String("details", details),
		zap.String("step", step.String()),
	)
	me.publishStep(step)
}

// RecordMarchRoll marks the march roll as taken and moves to resolution.
func (me *MarchEngine) RecordMarchRoll() {
	me.mu.Lock()
	me.step = StepResolveMarch
	step := me.step
	me.mu.Unlock()

	me.publishStep(step)
}

// CompleteMarch finishes the current phase. Advancing past the reserves
// phase hands the turn to the next player in order and bumps the turn
// number. Returns the phase now in progress.
func (me *MarchEngine) CompleteMarch() MarchPhase {
	me.mu.Lock()
	me.phaseIndex++
	handoff := false
	if me.phaseIndex >= len(marchPhaseSequence) {
		me.phaseIndex = 0
		handoff = true
	}
	me.step = StepDecideManeuver
	phase := marchPhaseSequence[me.phaseIndex]
	me.mu.Unlock()

	if handoff {
		current := me.turn.CurrentPlayer()
		next := me.turn.NextPlayer(current)
		me.logger.Info("turn handoff",
			zap.String("from", current),
			zap.String("to", next),
			zap.Int("turn", me.turn.Turn()+1),
		)
		me.turn.AdvanceTurn()
		if next != "" {
			me.turn.SetCurrentPlayer(next)
		}
	}
	me.turn.SetCurrentPhase(phase.String())
	me.publishStep(StepDecideManeuver)
	return phase
}

// Restore sets the machine to the given phase and step without emitting
// transition events. Used when loading a saved game over a live one; the
// turn state's phase label is kept in step with the machine.
func (me *MarchEngine) Restore(phase MarchPhase, step MarchStep) {
	me.mu.Lock()
	me.phaseIndex = 0
	for i, p := range marchPhaseSequence {
		if p == phase {
			me.phaseIndex = i
			break
		}
	}
	me.step = step
	me.mu.Unlock()

	me.turn.SetCurrentPhase(phase.String())
}

func (me *MarchEngine) publishStep(step MarchStep) {
	if me.bus == nil {
		return
	}
	evt := NewEvent(EventMarchStepChanged, me.turn.CurrentPlayer())
	evt.Data = step.String()
	me.bus.Publish(evt)
	me.bus.Publish(NewEvent(EventStateUpdated, ""))
}
