// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tamzrod/scb-bridge/internal/command"
	"github.com/tamzrod/scb-bridge/internal/device"
)

// mirrorWriter is not safe for concurrent use; one goroutine owns it.
type mirrorWriter struct {
	plan Plan
	cli  Client

	// last delivered values; cleared after any failure so the next
	// update re-asserts everything
	regs  map[uint16]uint16
	coils map[uint16]bool
}

func New(plan Plan, cli Client) Writer {
	return &mirrorWriter{
		plan:  plan,
		cli:   cli,
		regs:  make(map[uint16]uint16),
		coils: make(map[uint16]bool),
	}
}

// Write pushes the mapped variables and feedbacks of u. Variables missing
// from u or not numeric are left untouched on the target.
func (w *mirrorWriter) Write(u device.Update) error {
	if w.cli == nil {
		return fmt.Errorf("writer: missing client for endpoint %s", w.plan.Endpoint)
	}

	var errs []string
	unitID := w.plan.UnitID

	// ------------------------------------------------------------
	// VARIABLES -> HOLDING REGISTERS
	// ------------------------------------------------------------

	if len(w.plan.Registers) > 0 && len(u.Variables) > 0 {
		values := make(map[string]string, len(u.Variables))
		for _, v := range u.Variables {
			values[v.Name] = v.Value
		}

		for _, r := range w.plan.Registers {
			raw, ok := values[r.Variable]
			if !ok {
				continue
			}
			reg, ok := Scale(raw, r.Scale)
			if !ok {
				continue
			}
			if prev, seen := w.regs[r.Address]; seen && prev == reg {
				continue
			}
			if err := w.cli.WriteRegisters(unitID, r.Address, []uint16{reg}); err != nil {
				errs = append(errs, fmt.Sprintf(
					"ep=%s unit=%d var=%s addr=%d err=%v",
					w.plan.Endpoint, unitID, r.Variable, r.Address, err,
				))
				continue
			}
			w.regs[r.Address] = reg
		}
	}

	// ------------------------------------------------------------
	// FEEDBACKS -> COILS
	// ------------------------------------------------------------

	if len(w.plan.Coils) > 0 && len(u.Feedbacks) > 0 {
		matches := make(map[string]bool, len(u.Feedbacks))
		for _, f := range u.Feedbacks {
			matches[f.ID] = f.Match
		}

		for _, c := range w.plan.Coils {
			match, ok := matches[c.Feedback]
			if !ok {
				continue
			}
			if prev, seen := w.coils[c.Address]; seen && prev == match {
				continue
			}
			if err := w.cli.WriteCoils(unitID, c.Address, []bool{match}); err != nil {
				errs = append(errs, fmt.Sprintf(
					"ep=%s unit=%d feedback=%s addr=%d err=%v",
					w.plan.Endpoint, unitID, c.Feedback, c.Address, err,
				))
				continue
			}
			w.coils[c.Address] = match
		}
	}

	if len(errs) > 0 {
		w.regs = make(map[uint16]uint16)
		w.coils = make(map[uint16]bool)
		return errors.New("writer: " + strings.Join(errs, " | "))
	}
	return nil
}

// Scale converts a projected value into a register: value*scale, rounded
// half up and clamped to 0..65535. Non-numeric values report false.
func Scale(raw string, scale float64) (uint16, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if scale == 0 {
		scale = 1
	}

	v := command.Round(f * scale)
	switch {
	case v <= 0:
		return 0, true
	case v >= math.MaxUint16:
		return math.MaxUint16, true
	default:
		return uint16(v), true
	}
}
