package nav

// EffectKind discriminates the navigation effect union.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectPush
	EffectPop
	EffectReplace
	EffectAction
)

// ActionKind names a side effect a view asks the controller to run.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCheckout
	ActionPull
	ActionRefresh
	ActionToggleHelp
	ActionSaveQuery
)

// Effect is what a view returns from key handling. Views never mutate
// the stack themselves; they declare intent and the controller applies
// it. The zero value means "stay here".
type Effect struct {
	Kind   EffectKind
	Next   Context    // Target frame for EffectPush and EffectReplace
	Action ActionKind // Set for EffectAction
	Arg    string     // Action argument, e.g. the ref to check out
}

// None keeps the current view.
func None() Effect {
	return Effect{}
}

// Push asks the controller to push next onto the stack.
func Push(next Context) Effect {
	return Effect{Kind: EffectPush, Next: next}
}

// Pop asks the controller to go back one frame.
func Pop() Effect {
	return Effect{Kind: EffectPop}
}

// Replace asks the controller to swap the current frame for next.
func Replace(next Context) Effect {
	return Effect{Kind: EffectReplace, Next: next}
}

// Action asks the controller to run a side effect.
func Action(kind ActionKind, arg string) Effect {
	return Effect{Kind: EffectAction, Action: kind, Arg: arg}
}
