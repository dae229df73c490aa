// Package validator checks untrusted form input.
//
// Two APIs share one set of rules and messages.
//
// The rule engine evaluates string-encoded rule sets, parsed once and reused:
//
//	var registerRules = validator.MustParse(
//	    "username", "required|alpha_dash|min:3|max:50|unique:users",
//	    "email", "required|email|unique:users",
//	    "password", "required|password|confirmed",
//	)
//
//	res := engine.Validate(ctx, validator.Input(form), registerRules)
//	if res.HasErrors() {
//	    return res.Err()
//	}
//
// Within a field rules run in order and the first failure ends that field.
// Other fields are still evaluated. Every rule except required accepts an
// empty value, so optional fields only need format rules. Unknown rule names
// are ignored.
//
// The programmatic API builds Rule values for typed checks and runs them with
// Apply, which reports every failure:
//
//	err := validator.Apply(
//	    validator.Required("title", title),
//	    validator.MaxLen("title", title, 255),
//	)
//
// Failures are ValidationErrors, which carry translation keys and satisfy
// errors.Is(err, ErrValidationFailed).
package validator
