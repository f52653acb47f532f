// Package plunge plans how the tool enters the material at the start of a
// curve. Three strategies are tried in strict priority order: a helical
// descent inside the curve, a back-and-forth ramp along the curve's first
// segment, and a straight vertical plunge. A strategy either succeeds with a
// complete move sequence or declines; it never emits partially.
package plunge
