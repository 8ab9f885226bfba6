// Package tskit provides functionality for locating and overriding a
// value inside the memory of a running process.
//
// APIs are separated into subpackages, and documented accordingly.
// The pattern package finds instruction signatures, the memory package
// follows them to a live cell and writes it, and the override package
// drives those writes from keyboard and controller input.
//
// For scripting convenience, "OrExit" functions and methods are provided.
// Any errors encountered by these functions are treated as fatal. In such
// cases, an exit handler function is invoked.
package tskit
