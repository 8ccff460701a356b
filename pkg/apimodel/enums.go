package apimodel

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/bindinfo/pkg/cdecl"
)

// DefaultSentinelSuffix marks bookkeeping enumerators that bound an enumeration.
const DefaultSentinelSuffix = "_MAX"

// EnumValue is one evaluated enumerator.
type EnumValue struct {
	Name  string
	Value int64
}

// enumCounter is the implicit-value state threaded through one enumeration.
type enumCounter struct {
	next     int64
	overflow bool
}

// EvaluateEnumerators computes enumerator values with C rules: an explicit
// literal, a negated literal, or one more than the previous value.
// The implicit counter starts at zero for every call.
func EvaluateEnumerators(enumerators []cdecl.Enumerator) ([]EnumValue, error) {
	values := make([]EnumValue, 0, len(enumerators))
	counter := enumCounter{}

	for _, e := range enumerators {
		value, next, err := evaluateEnumerator(counter, e)
		if err != nil {
			return nil, fmt.Errorf("enumerator %s: %w", e.Name, err)
		}

		values = append(values, EnumValue{Name: e.Name, Value: value})
		counter = next
	}

	return values, nil
}

func evaluateEnumerator(counter enumCounter, e cdecl.Enumerator) (int64, enumCounter, error) {
	var value int64

	switch expr := e.Value.(type) {
	case nil:
		if counter.overflow {
			return 0, counter, fmt.Errorf("%w: implicit value overflows int64", cdecl.ErrUnsupportedConstruct)
		}

		value = counter.next
	case *cdecl.Constant:
		parsed, err := ParseIntegerLiteral(expr.Value)
		if err != nil {
			return 0, counter, err
		}

		value = parsed
	case *cdecl.UnaryOp:
		literal, ok := expr.Operand.(*cdecl.Constant)
		if expr.Op != "-" || !ok {
			return 0, counter, fmt.Errorf("%w: value %s", cdecl.ErrUnsupportedConstruct, cdecl.DescribeExpr(expr))
		}

		magnitude, err := parseMagnitude(literal.Value)
		if err != nil {
			return 0, counter, err
		}

		if magnitude > 1<<63 {
			return 0, counter, fmt.Errorf("%w: integer literal -%s overflows int64", cdecl.ErrUnsupportedConstruct, literal.Value)
		}

		value = -int64(magnitude) //nolint:gosec // 1<<63 wraps to math.MinInt64.
	case *cdecl.OtherExpr:
		return 0, counter, fmt.Errorf("%w: value %s", cdecl.ErrUnsupportedConstruct, cdecl.DescribeExpr(expr))
	default:
		return 0, counter, fmt.Errorf("%w: value node %T", cdecl.ErrUnsupportedConstruct, e.Value)
	}

	if value == math.MaxInt64 {
		return value, enumCounter{overflow: true}, nil
	}

	return value, enumCounter{next: value + 1}, nil
}

// ParseIntegerLiteral parses a C integer literal: decimal, 0x hex, 0b binary
// or leading-zero octal, with optional u/U/l/L suffixes.
func ParseIntegerLiteral(text string) (int64, error) {
	magnitude, err := parseMagnitude(text)
	if err != nil {
		return 0, err
	}

	if magnitude > math.MaxInt64 {
		return 0, fmt.Errorf("%w: integer literal %q overflows int64", cdecl.ErrUnsupportedConstruct, text)
	}

	return int64(magnitude), nil
}

// parseMagnitude parses an unsigned literal. A negated literal may reach
// 1<<63, one past math.MaxInt64.
func parseMagnitude(text string) (uint64, error) {
	digits := strings.TrimRight(strings.TrimSpace(text), "uUlL")
	if digits == "" || strings.ContainsAny(digits, "_+-") || strings.HasPrefix(digits, "0o") || strings.HasPrefix(digits, "0O") {
		return 0, fmt.Errorf("%w: integer literal %q", cdecl.ErrUnsupportedConstruct, text)
	}

	value, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: integer literal %q: %w", cdecl.ErrUnsupportedConstruct, text, err)
	}

	return value, nil
}

// FlattenConstants merges all enumerations into one mapping. Groups are
// merged in order, so a later enumerator silently replaces an earlier one
// with the same name.
func FlattenConstants(groups *Ordered[*Ordered[int64]]) *Ordered[int64] {
	flat := NewOrdered[int64]()

	for _, group := range groups.All() {
		for name, value := range group.All() {
			flat.Set(name, value)
		}
	}

	return flat
}

// FilterSentinels returns a copy of groups without enumerators whose name ends
// in suffix. The input is left untouched.
func FilterSentinels(groups *Ordered[*Ordered[int64]], suffix string) *Ordered[*Ordered[int64]] {
	filtered := NewOrdered[*Ordered[int64]]()

	for enumName, group := range groups.All() {
		kept := NewOrdered[int64]()

		for name, value := range group.All() {
			if suffix != "" && strings.HasSuffix(name, suffix) {
				continue
			}

			kept.Set(name, value)
		}

		filtered.Set(enumName, kept)
	}

	return filtered
}
