// Package render draws game snapshots.
//
// Surface is the small drawing contract the game needs: clear, fill a
// rectangle and draw a line. Painter paints a snapshot onto any Surface in a
// fixed order (grass checkerboard, grid lines, apple, snake) using a palette
// parsed from hex strings.
//
// ImageSurface backs the PNG frame endpoint; the terminal subpackage draws on
// a tcell screen.
package render
