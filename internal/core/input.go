package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // W, Up arrow - move build cursor up
	ActionDown             // S, Down arrow - move build cursor down
	ActionLeft             // A, Left arrow - move build cursor left
	ActionRight            // D, Right arrow - move build cursor right
	ActionBuild            // Space - begin or complete a wall
	ActionCancel           // X - abandon the wall in progress
	ActionPowerUp1         // 1 - activate slow motion
	ActionPowerUp2         // 2 - activate speed boost
	ActionPowerUp3         // 3 - activate multi-wall
	ActionPowerUp4         // 4 - activate shield
	ActionBuy1             // ! - buy slow motion
	ActionBuy2             // @ - buy speed boost
	ActionBuy3             // # - buy multi-wall
	ActionBuy4             // $ - buy shield
	ActionNextLevel        // N - advance after clearing the target
	ActionConfirm          // Enter - confirm selection in menu
	ActionBack             // B, Escape - go back to menu
	ActionRestart          // R key - restart game after game over
	ActionQuit             // Q, Ctrl+C - exit game/session
	ActionPause            // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionBuild:
		return "Build"
	case ActionCancel:
		return "Cancel"
	case ActionPowerUp1, ActionPowerUp2, ActionPowerUp3, ActionPowerUp4:
		return "PowerUp"
	case ActionBuy1, ActionBuy2, ActionBuy3, ActionBuy4:
		return "Buy"
	case ActionNextLevel:
		return "NextLevel"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// PointerKind distinguishes the phases of a pointer gesture.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMove
	PointerRelease
)

// PointerEvent is a mouse event in screen cell coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Moves counts repeated cursor moves so fast key repeat is not lost
	// between ticks.
	Moves map[Action]int

	// Pointer holds mouse events in arrival order.
	Pointer []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
		Moves:   make(map[Action]int),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true

	switch a {
	case ActionUp, ActionDown, ActionLeft, ActionRight:
		if f.Moves == nil {
			f.Moves = make(map[Action]int)
		}
		f.Moves[a]++
	}
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Count returns how many times a cursor move was pressed this frame.
func (f InputFrame) Count(a Action) int {
	if f.Moves == nil {
		return 0
	}
	return f.Moves[a]
}

// AddPointer appends a mouse event to the frame.
func (f *InputFrame) AddPointer(ev PointerEvent) {
	f.Pointer = append(f.Pointer, ev)
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	for k := range f.Moves {
		delete(f.Moves, k)
	}
	f.Pointer = f.Pointer[:0]
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	for k, v := range f.Moves {
		clone.Moves[k] = v
	}
	clone.Pointer = append(clone.Pointer, f.Pointer...)
	return clone
}
