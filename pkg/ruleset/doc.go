// Package ruleset loads, stores and compiles named rule sets.
//
// A rule set file is JSON or YAML:
//
//	name: signup
//	description: Account signup payload
//	rules:
//	  email: [required, email]
//	  age: [integer, [min, 18]]
//	  company_name:
//	    - [when, [type, "=", business], [required, string]]
//
// A document without a rules key is read as the rules mapping itself.
// Parse keeps the order of the fields as written, which is the order the
// validator evaluates them in.
//
// Rule sets live in a Store: MemoryStore for tests and single-process use,
// RedisStore for shared deployments, and DirStore for a directory of files
// that Watch reloads through fsnotify. Catalog sits in front of a store and
// caches compiled validators keyed by rule set name and content digest.
package ruleset
