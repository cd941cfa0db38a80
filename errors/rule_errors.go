// errors/rule_errors.go
package errors

import "errors"

var (
	ErrRuleInvalid     = errors.New("access rule failed validation")
	ErrDeleteRejected  = errors.New("delete upload rejected by remote service")
	ErrImportRejected  = errors.New("import upload rejected by remote service")
	ErrRuleBuildFailed = errors.New("could not build access rule document")
	ErrPartialSave     = errors.New("delete succeeded but import failed; the rule is removed remotely until a retry succeeds")
)
