// Package node provides the data model for dovetail slot resolution.
//
// This package contains type definitions and canonical encoding only. All
// other internal packages import node; node imports nothing internal. This
// keeps the data model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - prop numbers are int64
//   - Renderable, Value, ChildData, and Payload are sealed interfaces;
//     exhaustive type switches are safe
//   - Transforms never mutate their input; use Clone helpers to produce
//     fresh nodes so repeated render passes stay pure
package node
