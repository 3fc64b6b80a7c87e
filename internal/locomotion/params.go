package locomotion

// Animator parameter names written to a ParamSink.
const (
	ParamMoveX     = "MoveX"
	ParamMoveY     = "MoveY"
	ParamVelocity  = "Velocity"
	ParamSprinting = "Sprinting"
	ParamInAir     = "InAir"
	ParamMoving    = "Moving"
	ParamCrouching = "Crouching"
	ParamProning   = "Proning"
)

// ParamSink receives animator parameters. Writes are fire-and-forget.
type ParamSink interface {
	SetFloat(name string, v float32)
	SetBool(name string, v bool)
}

// WriteParams pushes every parameter of p into sink.
func WriteParams(sink ParamSink, p AnimParams) {
	sink.SetFloat(ParamMoveX, p.MoveX)
	sink.SetFloat(ParamMoveY, p.MoveY)
	sink.SetFloat(ParamVelocity, p.SpeedMagnitude)
	sink.SetFloat(ParamSprinting, p.SprintWeight)
	sink.SetBool(ParamInAir, p.InAir)
	sink.SetBool(ParamMoving, p.Moving)
	sink.SetBool(ParamCrouching, p.Crouching)
	sink.SetBool(ParamProning, p.Prone)
}
