package data

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

// ErrInvalidFilter marks filter expressions that cannot be compiled or
// evaluated, so callers can detect the category without string matching.
var ErrInvalidFilter = errors.New("invalid filter expression")

// QuoteFilter is a compiled quote admission policy.
//
// The expression language is govaluate's. Each source evaluates the policy
// with its own parameter set: the CSV source exposes per-row parameters
// (strike, days, call_bid, call_ask, put_bid, put_ask), the Massive source
// per-contract parameters (strike, days, bid, ask, type). All monetary
// parameters are in dollars.
type QuoteFilter struct {
	expr *govaluate.EvaluableExpression
	src  string
}

// NewQuoteFilter compiles an admission expression, e.g.
// "call_bid > 0 && put_bid > 0".
func NewQuoteFilter(expr string) (*QuoteFilter, error) {
	compiled, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return &QuoteFilter{expr: compiled, src: expr}, nil
}

func (f *QuoteFilter) String() string { return f.src }

// Keep evaluates the policy against one quote. The expression must produce
// a boolean.
func (f *QuoteFilter) Keep(params map[string]interface{}) (bool, error) {
	result, err := f.expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	keep, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q is not a boolean expression", ErrInvalidFilter, f.src)
	}
	return keep, nil
}
