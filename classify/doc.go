// Package classify holds the rule sets that decide which activity variant
// a state change produces: the member-change diff engine and the metadata
// change classifier. Both are pure decision logic; posting the resulting
// seeds belongs to the command package.
package classify
