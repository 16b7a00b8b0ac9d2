// Package registry extracts symbols from a parsed registry document and
// decides which of them a binding exposes.
//
// Extraction builds one Table per declaration kind (types, constants,
// commands, groups). Resolve then applies the <feature> and <extension>
// require/remove blocks for the selected version, Touch pulls in every type
// an exposed command needs, and the allow-list narrows constants and
// commands when a partial binding is wanted.
package registry
