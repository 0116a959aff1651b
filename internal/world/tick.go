package world

// Step advances the match by one fixed tick. Phases run in a fixed order;
// each depends on the state left by the one before.
func (w *World) Step(input TickInput) {
	w.tick++

	w.resolveControls(input.Controls)
	w.resolveActions(input.Actions)
	w.applyCasts()

	w.runBehaviours(prePhysicsPhase)
	w.flushMotions()
	w.stepPhysics()
	w.runBehaviours(postPhysicsPhase)

	w.resolveCollisions()
	w.runBehaviours(decayPhase)

	w.applyEnvironment()
	w.reap()
	w.captureSnapshot()
}
