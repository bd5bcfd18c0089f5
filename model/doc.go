// Package model contains the value types shared by every layer of the
// scheduler: submission modes, execution-path kinds, request parameters,
// the completion-check contract and the sentinel errors surfaced at the
// package boundary.
//
// The types are deliberately plain so that they can be decoded from YAML or
// JSON configuration documents and passed across package boundaries without
// conversion.
package model
