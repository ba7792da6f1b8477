// Package validator checks nested documents against declarative rule sets.
//
// A rule set maps field patterns to ordered rule sequences. Patterns are
// dotted paths into the document where a "*" segment matches every element of
// a list, so "items.*.price" addresses the price of each item. Rules are
// referenced by name, with arguments given either in shorthand ("min:3") or as
// a list (["between", 1, 10]). A ["when", condition, then, else] entry applies
// one of two rule sequences depending on other values of the same document.
//
// # Architecture
//
// Documents are held as Value trees (null, bool, int, float, string, list,
// map). FromAny converts plain Go data (maps, slices, structs and scalars)
// into that form.
//
// A Validator is compiled once from declarations: every rule name is resolved
// against a Registry and every argument is bound, so malformed rule sets fail
// with a *ConfigError wrapping one of the package sentinel errors and never at
// validation time. The compiled Validator holds no mutable state and may be
// shared between goroutines.
//
// Validate resolves each pattern against the document, runs the rule sequence
// for every concrete path and returns a Result holding:
//   - failures keyed by concrete path ("items.1.price"), in rule order
//   - the validated subset: declared fields that passed, pruned of everything else
//
// Built-in rule families live in one file each (presence_rules.go,
// size_rules.go, date_rules.go and so on). Custom rules are added through
// NewRegistry with Registration functions calling Register or RegisterFunc.
//
// # Usage
//
//	v, err := validator.New(validator.Rules{
//	    "email":         {"required", "email"},
//	    "items.*.price": {"required", []any{"gt", 0}},
//	    "company":       {[]any{"when", []any{"type", "=", "business"}, []any{"required", "string"}}},
//	})
//	if err != nil {
//	    return err // configuration problem
//	}
//
//	res := v.Validate(payload)
//	if res.Failed() {
//	    for field, errs := range res.Errors() {
//	        // errs[i].TranslationKey is "validation.<rule>"
//	    }
//	}
//	clean := res.Validated()
//
// # Error Handling
//
// Validation failures are data, not errors. Result.Err converts a failed
// result into ValidationErrors, which satisfies error and works with
// ExtractValidationErrors and IsValidationError.
package validator
