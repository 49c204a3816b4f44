package lockcov

import (
	"errors"
	"fmt"
)

// ErrMonitorUnderflow means a method released more monitors than the single
// unmatched cleanup exit the classifier tolerates.
var ErrMonitorUnderflow = errors.New("monitor depth underflow")

// LockState is the lock context of one method.
type LockState struct {
	InSyncMethod bool
	Depth        int
}

// MethodCount is the classified instruction count of one method.
type MethodCount struct {
	Total  int
	Locked int
}

func (c *MethodCount) add(locked bool) {
	c.Total++

	if locked {
		c.Locked++
	}
}

// held reports whether an instruction at this point runs under a lock.
func (s *LockState) held() bool {
	return s.InSyncMethod || s.Depth > 0
}

// Step applies one event and reports whether it counts as locked.
func (s *LockState) Step(ev InstructionEvent) (bool, error) {
	if s.InSyncMethod {
		return true, nil
	}

	switch ev.Kind {
	case OpMonitorEnter:
		s.Depth++

		return true, nil
	case OpMonitorExit:
		s.Depth--

		switch {
		case s.Depth == -1:
			// Unmatched exit from a compiler-generated exception handler.
			s.Depth = 0

			return false, nil
		case s.Depth < -1:
			return false, fmt.Errorf("%w: depth %d", ErrMonitorUnderflow, s.Depth)
		default:
			return true, nil
		}
	default:
		return s.held(), nil
	}
}

// ClassifyMethod counts the instructions of m and how many of them run under
// a lock. Every comparison branch also counts the loop increment the decoder
// does not report, locked the same as the branch.
func ClassifyMethod(m MethodUnit) (MethodCount, error) {
	state := LockState{InSyncMethod: m.Synchronized}

	var count MethodCount

	for i, ev := range m.Events {
		locked, err := state.Step(ev)
		if err != nil {
			return MethodCount{}, fmt.Errorf("method %s%s event %d: %w", m.Name, m.Descriptor, i, err)
		}

		count.add(locked)

		if ev.Kind == OpCompareJump {
			count.add(locked)
		}
	}

	return count, nil
}
