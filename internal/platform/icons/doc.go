// Package icons holds the icon migration table: the single mapping from icon
// component names exported by the retired libraries to their replacements in
// the target library.
//
// The embedded default table covers every name the dashboard used. Callers may
// load an override from TOML or YAML; both go through the same validation so a
// table is always a pure, conflict-free function from old names to new names.
package icons
