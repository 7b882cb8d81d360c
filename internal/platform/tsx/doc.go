// Package tsx performs the structural analysis the icon migration needs on
// TypeScript and JavaScript sources, with or without JSX.
//
// It is not a full parser. The lexer understands enough of the grammar to
// never mistake text inside strings, comments, template literals, regular
// expressions or JSX children for code, and the analysis on top of it finds
// static import declarations and the identifier occurrences that refer to an
// imported binding. Every result carries byte offsets into the unmodified
// source so callers can splice edits without disturbing anything else.
package tsx
