// Package gcode renders machine moves as G-code text.
//
// Every emission function takes an explicit Context holding the feed rates,
// the safe retract height and the numeric precision. The Context is a value:
// it is built once per compile and never changes afterwards.
//
// Arcs are always written with the center as an I/J offset relative to the
// arc's start point (G91.1 incremental arc centers).
package gcode
