package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnmappedIdentifier = "UNMAPPED_IDENTIFIER"
	CodeUnsupportedImport  = "UNSUPPORTED_IMPORT"
	CodeUnhandledReference = "UNHANDLED_REFERENCE"
	CodeNameConflict       = "NAME_CONFLICT"
	CodeParseFailed        = "PARSE_FAILED"
	CodeReadFailed         = "READ_FAILED"
	CodeWriteFailed        = "WRITE_FAILED"
	CodeMappingInvalid     = "MAPPING_INVALID"
	CodeRootInvalid        = "ROOT_INVALID"
)

var enUS = map[Code]string{
	CodeUnmappedIdentifier: `{{.Name}} imported from {{.Source}} has no mapping to {{.Target}}`,
	CodeUnsupportedImport:  `{{.Kind}} import of {{.Source}} cannot be migrated automatically`,
	CodeUnhandledReference: `{{.Source}} is referenced outside an import declaration`,
	CodeNameConflict:       `{{.Name}} would replace {{.Old}} but is already bound in this file`,
	CodeParseFailed:        `cannot parse file: {{.Detail}}`,
	CodeReadFailed:         `cannot read file: {{.Detail}}`,
	CodeWriteFailed:        `cannot write file: {{.Detail}}`,
	CodeMappingInvalid:     `mapping table is invalid: {{.Detail}}`,
	CodeRootInvalid:        `root {{.Root}} is not a directory`,
}
