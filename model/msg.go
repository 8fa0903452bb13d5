package model

// Msg websocket envelope
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// RunRequest content of a "run" or "compare" message.
type RunRequest struct {
	Material string  `json:"material"`
	Fast     bool    `json:"fast"`
	Velocity float64 `json:"velocity"` // ramp target, m/s; 0 uses the trajectory
	Duration float64 `json:"duration"`
	Altitude float64 `json:"altitude"`
}
