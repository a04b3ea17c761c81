package config

const (
	WindowWidth  = 480
	WindowHeight = 480

	TicksPerSecond    = 40
	GrowthTickDivisor = 2

	// Button row layout
	ButtonWidth  = 72
	ButtonHeight = 22
	ButtonGap    = 8
	ButtonX      = 8
	ButtonY      = 8

	// Sound cues
	SampleRate        = 44100
	CueDurationMillis = 60
	PopFrequency      = 880
	DepartFrequency   = 392
)
