package editor

import "anno-studio/pkg/geometry"

// Tool represents the current interaction tool.
type Tool int

const (
	ToolPan Tool = iota
	ToolSelect
	ToolPolygon
	ToolBox
	ToolBrush
	ToolEraser
	ToolKnife
)

func (t Tool) String() string {
	switch t {
	case ToolPan:
		return "pan"
	case ToolSelect:
		return "select"
	case ToolPolygon:
		return "polygon"
	case ToolBox:
		return "box"
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolKnife:
		return "knife"
	default:
		return "unknown"
	}
}

// gestureState is the tool state machine's current state.
type gestureState int

const (
	stateIdle gestureState = iota
	statePanning
	stateDrawing
	stateDragging
	stateErasing
	stateCutting
)

// gesture holds the transient data of an in-progress interaction. It is
// discarded without committing on tool switch or cancel.
type gesture struct {
	state gestureState

	// statePanning: last pointer position in screen space.
	panAnchor geometry.Point2D

	// stateDrawing: accumulated polygon vertices or the box anchor corner
	// plus the live opposite corner, all in image space.
	drawPoints []geometry.Point2D
	boxAnchor  geometry.Point2D
	boxCorner  geometry.Point2D

	// stateDragging: the vertex being reshaped.
	dragShape  string
	dragVertex int

	// stateErasing: whether this stroke has removed anything yet.
	erasedAny bool

	// stateCutting: the cut segment endpoints in image space. cutEnd
	// tracks the pointer for the preview line.
	cutStart geometry.Point2D
	cutEnd   geometry.Point2D
}
