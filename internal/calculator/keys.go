package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownKey is returned for keypad tokens with no matching event.
var ErrUnknownKey = errors.New("unknown key")

// EventKind identifies a keypad event.
type EventKind int

const (
	EventDigit EventKind = iota + 1
	EventDecimalPoint
	EventTripleZero
	EventOperator
	EventBackspace
	EventClear
	EventConfirm
)

// Event is one keypad press.
type Event struct {
	Kind  EventKind
	Digit byte // '0'..'9' for EventDigit
	Op    Operator
}

func Digit(d byte) Event  { return Event{Kind: EventDigit, Digit: d} }
func DecimalPoint() Event { return Event{Kind: EventDecimalPoint} }
func TripleZero() Event   { return Event{Kind: EventTripleZero} }
func Op(o Operator) Event { return Event{Kind: EventOperator, Op: o} }
func Backspace() Event    { return Event{Kind: EventBackspace} }
func Clear() Event        { return Event{Kind: EventClear} }
func ConfirmEvent() Event { return Event{Kind: EventConfirm} }

var namedKeys = map[string]Event{
	"000":       TripleZero(),
	".":         DecimalPoint(),
	",":         DecimalPoint(),
	"+":         Op(OpAdd),
	"-":         Op(OpSubtract),
	"−":         Op(OpSubtract),
	"*":         Op(OpMultiply),
	"x":         Op(OpMultiply),
	"×":         Op(OpMultiply),
	"/":         Op(OpDivide),
	"÷":         Op(OpDivide),
	"c":         Clear(),
	"⌫":         Backspace(),
	"<":         Backspace(),
	"bs":        Backspace(),
	"backspace": Backspace(),
	"=":         ConfirmEvent(),
	"enter":     ConfirmEvent(),
}

// ParseKey maps a single keypad token to its event.
func ParseKey(token string) (Event, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	if len(t) == 1 && t[0] >= '0' && t[0] <= '9' {
		return Digit(t[0]), nil
	}
	if e, ok := namedKeys[t]; ok {
		return e, nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrUnknownKey, token)
}

// ParseKeys expands a token into events. Named keys map to one event; any
// other token is read one character at a time, so "12.5" and "5+3×2" work.
func ParseKeys(token string) ([]Event, error) {
	if e, err := ParseKey(token); err == nil {
		return []Event{e}, nil
	}
	var events []Event
	for _, r := range strings.TrimSpace(token) {
		e, err := ParseKey(string(r))
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %q", ErrUnknownKey, r, token)
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: empty token", ErrUnknownKey)
	}
	return events, nil
}

// Run feeds tokens through a fresh calculator and confirms the result. A
// division by zero anywhere in the sequence stops the run.
func Run(tokens []string) (State, decimal.Decimal, error) {
	s := New()
	for _, tok := range tokens {
		events, err := ParseKeys(tok)
		if err != nil {
			return s, decimal.Zero, err
		}
		for _, e := range events {
			var cond Condition
			s, cond = Apply(s, e)
			switch cond {
			case ConditionDivisionByZero:
				return s, decimal.Zero, ErrDivisionByZero
			case ConditionMalformedDisplay:
				return s, decimal.Zero, fmt.Errorf("calculator display %q is not a number", s.DisplayValue)
			}
		}
	}
	return Confirm(s)
}
