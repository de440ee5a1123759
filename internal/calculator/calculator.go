// Package calculator turns keypad events into a monetary amount. It is a
// four-function calculator with left-to-right chaining: each operator is
// applied to the running result as soon as the next operator or Confirm
// arrives, so 5 + 3 × 2 is 16.
package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cicil-dev/cicil/internal/money"
)

const (
	// maxDigits caps the digits typed into one operand.
	maxDigits = 18
	// resultPlaces bounds the fractional digits kept from × and ÷.
	resultPlaces = 16
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrNegativeAmount = errors.New("amount is negative")
)

// Operator is a pending binary operation. The zero value means none.
type Operator int

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	case OpDivide:
		return "÷"
	default:
		return ""
	}
}

// Condition is reported by Apply for events the caller should surface to the
// user. It is never fatal.
type Condition int

const (
	ConditionNone Condition = iota
	ConditionDivisionByZero
	ConditionMalformedDisplay
)

// State is the full calculator state. It is a value: Apply returns a new one.
type State struct {
	DisplayValue    string
	PendingOperand  decimal.NullDecimal
	PendingOperator Operator
	AwaitingOperand bool
}

// New returns the initial state.
func New() State {
	return State{DisplayValue: "0"}
}

// Apply interprets one event against s.
func Apply(s State, e Event) (State, Condition) {
	s = s.normalized()

	switch e.Kind {
	case EventDigit:
		return s.digit(e.Digit), ConditionNone
	case EventDecimalPoint:
		return s.decimalPoint(), ConditionNone
	case EventTripleZero:
		return s.tripleZero(), ConditionNone
	case EventOperator:
		return s.operator(e.Op)
	case EventBackspace:
		return s.backspace(), ConditionNone
	case EventClear:
		return New(), ConditionNone
	case EventConfirm:
		next, _, err := Confirm(s)
		switch {
		case errors.Is(err, ErrDivisionByZero):
			return next, ConditionDivisionByZero
		case errors.Is(err, money.ErrMalformedAmount):
			return next, ConditionMalformedDisplay
		}
		return next, ConditionNone
	}
	return s, ConditionNone
}

// Confirm finalizes the amount. A pending operation with an entered operand
// is resolved first. The returned state is not reset; callers issue Clear
// when they want a fresh entry.
func Confirm(s State) (State, decimal.Decimal, error) {
	s = s.normalized()

	if s.PendingOperator != OpNone && !s.AwaitingOperand {
		result, err := s.resolve()
		if errors.Is(err, ErrDivisionByZero) {
			return New(), decimal.Zero, err
		}
		if err != nil {
			return s, decimal.Zero, err
		}
		s = State{DisplayValue: result.String(), AwaitingOperand: true}
		if result.IsNegative() {
			return s, decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeAmount, result)
		}
		return s, result, nil
	}

	v, err := s.value()
	if err != nil {
		return s, decimal.Zero, err
	}
	if v.IsNegative() {
		return s, decimal.Zero, fmt.Errorf("%w: %s", ErrNegativeAmount, v)
	}
	return s, v, nil
}

// Display renders DisplayValue with f's separators, keeping exactly the
// fractional digits typed so far, e.g. "1234567.5" -> "1.234.567,5".
func (s State) Display(f money.Format) string {
	s = s.normalized()
	intPart, frac, hasPoint := strings.Cut(s.DisplayValue, ".")
	whole, err := decimal.NewFromString(intPart)
	if err != nil {
		return s.DisplayValue
	}
	out := money.Format{Grouping: f.Grouping}.Amount(whole)
	if strings.HasPrefix(intPart, "-") && whole.IsZero() {
		out = "-" + out
	}
	if hasPoint {
		out += string(f.Decimal) + frac
	}
	return out
}

func (s State) normalized() State {
	if s.DisplayValue == "" {
		s.DisplayValue = "0"
	}
	return s
}

func (s State) digit(d byte) State {
	if d < '0' || d > '9' {
		return s
	}
	if s.AwaitingOperand {
		s.DisplayValue = string(d)
		s.AwaitingOperand = false
		return s
	}
	if s.DisplayValue == "0" {
		s.DisplayValue = string(d)
		return s
	}
	if digitCount(s.DisplayValue) >= maxDigits {
		return s
	}
	s.DisplayValue += string(d)
	return s
}

func (s State) decimalPoint() State {
	if s.AwaitingOperand {
		s.DisplayValue = "0."
		s.AwaitingOperand = false
		return s
	}
	if strings.Contains(s.DisplayValue, ".") {
		return s
	}
	s.DisplayValue += "."
	return s
}

func (s State) tripleZero() State {
	if s.AwaitingOperand {
		s.DisplayValue = "0"
		s.AwaitingOperand = false
		return s
	}
	if s.DisplayValue == "0" || digitCount(s.DisplayValue)+3 > maxDigits {
		return s
	}
	s.DisplayValue += "000"
	return s
}

func (s State) operator(op Operator) (State, Condition) {
	if op == OpNone {
		return s, ConditionNone
	}

	// Pressing a second operator before any operand only swaps the operator.
	if s.PendingOperator != OpNone && s.AwaitingOperand {
		s.PendingOperator = op
		return s, ConditionNone
	}

	var operand decimal.Decimal
	if s.PendingOperator != OpNone {
		result, err := s.resolve()
		if errors.Is(err, ErrDivisionByZero) {
			return New(), ConditionDivisionByZero
		}
		if err != nil {
			return New(), ConditionMalformedDisplay
		}
		operand = result
		s.DisplayValue = result.String()
	} else {
		v, err := s.value()
		if err != nil {
			return New(), ConditionMalformedDisplay
		}
		operand = v
	}

	s.PendingOperand = decimal.NewNullDecimal(operand)
	s.PendingOperator = op
	s.AwaitingOperand = true
	return s, ConditionNone
}

func (s State) backspace() State {
	if s.AwaitingOperand {
		// The operand being started becomes 0; the pending operator stays.
		s.DisplayValue = "0"
		s.AwaitingOperand = false
		return s
	}
	v := s.DisplayValue[:len(s.DisplayValue)-1]
	if v == "" || v == "-" {
		v = "0"
	}
	s.DisplayValue = v
	return s
}

// resolve applies the pending operator to the pending operand and the display.
func (s State) resolve() (decimal.Decimal, error) {
	right, err := s.value()
	if err != nil {
		return decimal.Zero, err
	}
	left := s.PendingOperand.Decimal

	switch s.PendingOperator {
	case OpAdd:
		return left.Add(right), nil
	case OpSubtract:
		return left.Sub(right), nil
	case OpMultiply:
		return left.Mul(right).Round(resultPlaces), nil
	case OpDivide:
		if right.IsZero() {
			return decimal.Zero, ErrDivisionByZero
		}
		return left.DivRound(right, resultPlaces), nil
	default:
		return right, nil
	}
}

func (s State) value() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSuffix(s.DisplayValue, "."))
	if err != nil {
		return decimal.Zero, &money.MalformedAmountError{Input: s.DisplayValue, Reason: "not a number"}
	}
	return d, nil
}

func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
