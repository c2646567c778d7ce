// Package taxonomy defines the closed enumerations shared by the knowledge
// graph and the pattern weaver: the capability kinds a project can provide and
// the relation kinds an edge can carry.
//
// Both enumerations are deliberately closed. Unknown kinds are rejected at the
// taxonomy boundary via Parse functions rather than accepted as free-form
// strings, so a typo in a dataset surfaces as a validation error instead of an
// unreachable graph node. Adding a new kind means adding a constant here, not
// feeding new strings through the data path.
package taxonomy
