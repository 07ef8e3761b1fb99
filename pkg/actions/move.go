package actions

// DefaultMoveSpeed is the movement speed used when a command does not set one.
const DefaultMoveSpeed = 0.5

// MoveCommand describes one requested robot motion: a forward distance, a
// yaw rotation target, and the pose the motion starts from. It carries no
// behavior; the motion connector consumes it.
type MoveCommand struct {
	// DX is the distance to move along the x axis
	DX float64 `json:"dx"`
	// Yaw is the rotation target in the yaw axis
	Yaw float64 `json:"yaw"`
	// StartX and StartY are the starting coordinates
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
	// TurnComplete reports whether the turn portion has finished
	TurnComplete bool `json:"turn_complete"`
	// Speed is the movement speed
	Speed float64 `json:"speed"`
}

// MoveOption customizes a MoveCommand beyond the required fields.
type MoveOption func(*MoveCommand)

// WithStart sets the starting coordinates of the motion.
func WithStart(x, y float64) MoveOption {
	return func(cmd *MoveCommand) {
		cmd.StartX = x
		cmd.StartY = y
	}
}

// WithSpeed overrides the default movement speed.
func WithSpeed(speed float64) MoveOption {
	return func(cmd *MoveCommand) {
		cmd.Speed = speed
	}
}

// WithTurnComplete marks the turn portion of the motion as already done.
func WithTurnComplete(complete bool) MoveOption {
	return func(cmd *MoveCommand) {
		cmd.TurnComplete = complete
	}
}

// NewMoveCommand builds a MoveCommand from the required distance and yaw,
// applying defaults for everything else: start at the origin, turn not
// complete, speed DefaultMoveSpeed.
func NewMoveCommand(dx, yaw float64, opts ...MoveOption) MoveCommand {
	cmd := MoveCommand{
		DX:    dx,
		Yaw:   yaw,
		Speed: DefaultMoveSpeed,
	}

	for _, opt := range opts {
		opt(&cmd)
	}

	return cmd
}
