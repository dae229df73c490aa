package validator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/blogkit/pkg/logger"
)

// ErrNoLookup is logged when a unique or exists rule runs on an engine
// without a Lookup.
var ErrNoLookup = errors.New("validator: no lookup configured")

// Input is the submitted form: field name to raw value. A missing key is an
// absent value.
type Input map[string]string

// Value returns the value of field and whether it was submitted.
func (in Input) Value(field string) (string, bool) {
	v, ok := in[field]
	return v, ok
}

// Lookup answers whether a row with column = value exists in table.
// *query.Builder implements it.
type Lookup interface {
	Exists(ctx context.Context, table, column string, value any) (bool, error)
}

// Engine evaluates rule sets against input. It keeps no state between calls.
type Engine struct {
	lookup Lookup
	log    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLookup enables the unique and exists rules.
func WithLookup(l Lookup) Option {
	return func(e *Engine) { e.lookup = l }
}

// WithLogger sets the logger for lookup failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: logger.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate checks input against rules. Fields are validated independently;
// within a field the first failing rule ends that field's evaluation. A
// password rule reports every violated requirement at once.
func (e *Engine) Validate(ctx context.Context, input Input, rules RuleSet) Result {
	res := newResult()

	for _, fr := range rules.fields {
		value := input[fr.Field]
		for _, spec := range fr.Rules {
			var failed []ValidationError
			for _, r := range e.rulesFor(ctx, fr.Field, value, input, spec) {
				if !r.Check() {
					failed = append(failed, r.Error)
				}
			}
			if len(failed) > 0 {
				res.add(fr.Field, failed...)
				break
			}
		}
	}

	return res
}

func (e *Engine) rulesFor(ctx context.Context, field, value string, input Input, spec RuleSpec) []Rule {
	switch spec.Name {
	case RuleRequired:
		return []Rule{Required(field, value)}
	case RuleEmail:
		return []Rule{Email(field, value)}
	case RuleMin:
		return []Rule{MinLen(field, value, spec.n)}
	case RuleMax:
		return []Rule{MaxLen(field, value, spec.n)}
	case RuleNumeric:
		return []Rule{Numeric(field, value)}
	case RuleInteger:
		return []Rule{Integer(field, value)}
	case RuleAlpha:
		return []Rule{Alpha(field, value)}
	case RuleAlphaNum:
		return []Rule{AlphaNum(field, value)}
	case RuleAlphaDash:
		return []Rule{AlphaDash(field, value)}
	case RuleURL:
		return []Rule{URL(field, value)}
	case RuleRegex:
		return []Rule{Matches(field, value, spec.re)}
	case RuleIn:
		return []Rule{In(field, value, spec.Params)}
	case RuleConfirmed:
		return []Rule{Confirmed(field, value, input[field+"_confirmation"])}
	case RulePassword:
		return Password(field, value)
	case RuleUnique:
		if value == "" {
			return nil
		}
		table, column := lookupTarget(field, spec)
		return []Rule{Unique(field, e.exists(ctx, table, column, value))}
	case RuleExists:
		if value == "" {
			return nil
		}
		table, column := lookupTarget(field, spec)
		return []Rule{Exists(field, e.exists(ctx, table, column, value))}
	default:
		return nil
	}
}

// exists reports false when the lookup fails, so unique passes and exists
// fails on store errors.
func (e *Engine) exists(ctx context.Context, table, column, value string) bool {
	if e.lookup == nil {
		e.log.WarnContext(ctx, "lookup rule skipped",
			logger.Error(ErrNoLookup),
			logger.Component("validator"),
			logger.Table(table),
		)
		return false
	}

	found, err := e.lookup.Exists(ctx, table, column, value)
	if err != nil {
		e.log.ErrorContext(ctx, "lookup rule failed",
			logger.Error(err),
			logger.Component("validator"),
			logger.Table(table),
		)
		return false
	}
	return found
}

func lookupTarget(field string, spec RuleSpec) (table, column string) {
	table = strings.TrimSpace(spec.Params[0])
	column = field
	if len(spec.Params) > 1 && strings.TrimSpace(spec.Params[1]) != "" {
		column = strings.TrimSpace(spec.Params[1])
	}
	return table, column
}
