// Package viz is the terminal renderer for rigid2d scenes.
//
// [Model] is a Bubble Tea model that owns one simulation, calls Tick once
// per frame at the configured FPS and redraws every circle, rectangle and
// the boundary onto a braille [Canvas].
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single tick while paused
//	R     - Rebuild the scene from its config
//	↑/↓   - Adjust gravity
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
