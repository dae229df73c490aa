package validator

// Result is the outcome of one Validate call. A Result with no entries is the
// only valid outcome.
type Result struct {
	order  []string
	errors map[string][]ValidationError
}

func newResult() Result {
	return Result{errors: make(map[string][]ValidationError)}
}

func (r *Result) add(field string, errs ...ValidationError) {
	if _, ok := r.errors[field]; !ok {
		r.order = append(r.order, field)
	}
	r.errors[field] = append(r.errors[field], errs...)
}

// Errors returns field to messages. The map is a copy.
func (r Result) Errors() map[string][]string {
	out := make(map[string][]string, len(r.errors))
	for field, errs := range r.errors {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Message
		}
		out[field] = msgs
	}
	return out
}

// Fields returns the failed fields in rule-set order.
func (r Result) Fields() []string {
	return append([]string(nil), r.order...)
}

// Get returns the messages of field.
func (r Result) Get(field string) []string {
	errs := r.errors[field]
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return msgs
}

// First returns the first message of field, or of the first failed field when
// field is "". It returns "" when there is none.
func (r Result) First(field string) string {
	if field == "" {
		if len(r.order) == 0 {
			return ""
		}
		field = r.order[0]
	}
	if errs := r.errors[field]; len(errs) > 0 {
		return errs[0].Message
	}
	return ""
}

func (r Result) HasErrors() bool {
	return len(r.order) > 0
}

func (r Result) Valid() bool {
	return !r.HasErrors()
}

// Err returns nil for a valid result, otherwise the errors as ValidationErrors
// in rule-set order.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	var errs ValidationErrors
	for _, field := range r.order {
		errs = append(errs, r.errors[field]...)
	}
	return errs
}
