// Package document decodes JSON and YAML input into validator.Value trees.
//
// JSON is read with the jsontext streaming decoder so that integers stay
// integers and duplicate object keys are rejected instead of silently
// overwritten. YAML is read with gopkg.in/yaml.v3; mapping keys must be
// scalars and are converted to their string form.
//
//	doc, err := document.DecodeJSON(body)
//	if err != nil {
//		return err
//	}
//	res := v.ValidateValue(doc)
package document
