// Package render draws refinement frames as 3D bar charts: one prism per
// cell rising to the midpoint sample, translucent bases, and the integrand
// surface overlaid as a coarse mesh. Frames can be written as a PNG
// sequence or collected into an animated GIF.
package render
