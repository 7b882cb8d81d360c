// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Source issues: the file needs a human before it can be migrated.
	CodeUnmappedIdentifier Code = "UNMAPPED_IDENTIFIER"
	CodeUnsupportedImport  Code = "UNSUPPORTED_IMPORT"
	CodeUnhandledReference Code = "UNHANDLED_REFERENCE"
	CodeNameConflict       Code = "NAME_CONFLICT"

	// File failures
	CodeParseFailed Code = "PARSE_FAILED"
	CodeReadFailed  Code = "READ_FAILED"
	CodeWriteFailed Code = "WRITE_FAILED"

	// Configuration errors
	CodeMappingInvalid Code = "MAPPING_INVALID"
	CodeRootInvalid    Code = "ROOT_INVALID"
)

// Category groups codes by how a batch run must react to them.
type Category int

const (
	// CategoryInternal covers unknown codes.
	CategoryInternal Category = iota
	// CategoryIssue marks source content the mapping cannot migrate safely.
	CategoryIssue
	// CategoryFailure marks a file that could not be read, parsed or written.
	CategoryFailure
	// CategoryConfig marks a run that cannot start.
	CategoryConfig
)

// Category maps domain codes to their category.
func (c Code) Category() Category {
	switch c {
	case CodeUnmappedIdentifier,
		CodeUnsupportedImport,
		CodeUnhandledReference,
		CodeNameConflict:
		return CategoryIssue

	case CodeParseFailed,
		CodeReadFailed,
		CodeWriteFailed:
		return CategoryFailure

	case CodeMappingInvalid,
		CodeRootInvalid:
		return CategoryConfig

	default:
		return CategoryInternal
	}
}
