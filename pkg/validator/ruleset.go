package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule names understood by the engine. Any other name parses and is ignored.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMin       = "min"
	RuleMax       = "max"
	RuleNumeric   = "numeric"
	RuleInteger   = "integer"
	RuleAlpha     = "alpha"
	RuleAlphaNum  = "alpha_num"
	RuleAlphaDash = "alpha_dash"
	RuleURL       = "url"
	RuleRegex     = "regex"
	RuleIn        = "in"
	RuleConfirmed = "confirmed"
	RulePassword  = "password"
	RuleUnique    = "unique"
	RuleExists    = "exists"
)

const (
	defaultMin = 0
	defaultMax = 255
)

// RuleSpec is one parsed rule with its parameters.
type RuleSpec struct {
	Name   string
	Params []string

	n  int
	re *regexp.Regexp
}

// FieldRules holds the ordered rules of one field.
type FieldRules struct {
	Field string
	Rules []RuleSpec
}

// RuleSet is an ordered list of field rules. It is immutable once built and
// can be shared between goroutines and requests.
type RuleSet struct {
	fields []FieldRules
}

// NewRuleSet assembles a rule set from already parsed fields. Rules given for
// the same field twice are concatenated.
func NewRuleSet(fields ...FieldRules) RuleSet {
	var rs RuleSet
	for _, f := range fields {
		rs.add(f)
	}
	return rs
}

// Parse builds a rule set from field/spec pairs:
//
//	validator.Parse("email", "required|email", "password", "required|min:8")
func Parse(pairs ...string) (RuleSet, error) {
	if len(pairs)%2 != 0 {
		return RuleSet{}, errors.Join(ErrInvalidRuleSpec, errors.New("odd number of field/spec arguments"))
	}

	var rs RuleSet
	for i := 0; i < len(pairs); i += 2 {
		fr, err := ParseField(pairs[i], pairs[i+1])
		if err != nil {
			return RuleSet{}, err
		}
		rs.add(fr)
	}
	return rs, nil
}

// MustParse is Parse that panics on error. Use it for rule sets declared as
// package variables.
func MustParse(pairs ...string) RuleSet {
	rs, err := Parse(pairs...)
	if err != nil {
		panic(err)
	}
	return rs
}

// ParseField parses the rule string of a single field. Rules are separated by
// "|", a rule name is followed by ":" and comma separated parameters. The
// parameter of "regex" is the rest of the rule and may contain commas; it may
// not contain "|".
func ParseField(field, spec string) (FieldRules, error) {
	fr := FieldRules{Field: field}
	if field == "" {
		return fr, errors.Join(ErrInvalidRuleSpec, errors.New("empty field name"))
	}

	for raw := range strings.SplitSeq(spec, "|") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		rule, err := parseRule(raw)
		if err != nil {
			return fr, errors.Join(ErrInvalidRuleSpec, fmt.Errorf("field %q: %w", field, err))
		}
		fr.Rules = append(fr.Rules, rule)
	}
	return fr, nil
}

func parseRule(raw string) (RuleSpec, error) {
	name, param, hasParam := strings.Cut(raw, ":")
	rule := RuleSpec{Name: strings.TrimSpace(name)}

	if rule.Name == RuleRegex {
		if !hasParam || param == "" {
			return rule, errors.New("regex: pattern is required")
		}
		re, err := compilePattern(param)
		if err != nil {
			return rule, fmt.Errorf("regex: %w", err)
		}
		rule.Params = []string{param}
		rule.re = re
		return rule, nil
	}

	if hasParam {
		rule.Params = strings.Split(param, ",")
	}

	switch rule.Name {
	case RuleMin, RuleMax:
		rule.n = defaultMin
		if rule.Name == RuleMax {
			rule.n = defaultMax
		}
		if len(rule.Params) > 0 && rule.Params[0] != "" {
			n, err := strconv.Atoi(strings.TrimSpace(rule.Params[0]))
			if err != nil {
				return rule, fmt.Errorf("%s: parameter %q is not an integer", rule.Name, rule.Params[0])
			}
			rule.n = n
		}
	case RuleUnique, RuleExists:
		if len(rule.Params) == 0 || strings.TrimSpace(rule.Params[0]) == "" {
			return rule, fmt.Errorf("%s: table is required", rule.Name)
		}
	}
	return rule, nil
}

// compilePattern accepts both bare patterns and /pattern/ delimited ones.
func compilePattern(p string) (*regexp.Regexp, error) {
	if len(p) >= 2 && p[0] == '/' {
		if end := strings.LastIndexByte(p, '/'); end > 0 {
			flags := p[end+1:]
			p = p[1:end]
			if strings.Contains(flags, "i") {
				p = "(?i)" + p
			}
		}
	}
	return regexp.Compile(p)
}

func (rs *RuleSet) add(fr FieldRules) {
	for i := range rs.fields {
		if rs.fields[i].Field == fr.Field {
			rs.fields[i].Rules = append(rs.fields[i].Rules, fr.Rules...)
			return
		}
	}
	rs.fields = append(rs.fields, FieldRules{Field: fr.Field, Rules: append([]RuleSpec(nil), fr.Rules...)})
}

// Fields returns a copy of the field rules in declaration order.
func (rs RuleSet) Fields() []FieldRules {
	out := make([]FieldRules, len(rs.fields))
	for i, f := range rs.fields {
		out[i] = FieldRules{Field: f.Field, Rules: append([]RuleSpec(nil), f.Rules...)}
	}
	return out
}

// Len returns the number of fields.
func (rs RuleSet) Len() int {
	return len(rs.fields)
}

// Merge returns a new rule set with other's fields appended.
func (rs RuleSet) Merge(other RuleSet) RuleSet {
	out := NewRuleSet(rs.fields...)
	for _, f := range other.fields {
		out.add(f)
	}
	return out
}
