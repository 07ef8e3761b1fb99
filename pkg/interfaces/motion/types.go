package motion

import "time"

// MoveRequest is the motion command payload the gateway accepts.
type MoveRequest struct {
	DX           float64 `json:"dx"`
	Yaw          float64 `json:"yaw"`
	StartX       float64 `json:"start_x"`
	StartY       float64 `json:"start_y"`
	TurnComplete bool    `json:"turn_complete"`
	Speed        float64 `json:"speed"`
}

// SpeechRequest asks the gateway to play an utterance through the speaker.
type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

// Pose is the robot's position and heading in the map frame.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// RobotStatus is the gateway's view of the robot.
type RobotStatus struct {
	State      string    `json:"state"`
	Pose       Pose      `json:"pose"`
	BatteryPct float64   `json:"battery_pct"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type commandResponse struct {
	Accepted  bool   `json:"accepted"`
	CommandID string `json:"command_id"`
}
