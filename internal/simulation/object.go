package simulation

import "slam-robot-sim/internal/common"

// Object defines the interface for anything placed in the world that a display can draw.
type Object interface {
	// GetPosition returns the current position of the object.
	GetPosition() common.Vector
	// GetID returns the identifier of the object.
	GetID() string
}

var (
	_ Object = (*Robot)(nil)
	_ Object = Landmark{}
)
