package entity

// PlannerState is the free-text planning metadata that accompanies a
// batch of actions. It is carried through unchanged; nothing in this
// process interprets it.
type PlannerState struct {
	EvaluationPreviousGoal string `json:"evaluation_previous_goal"`
	Memory                 string `json:"memory"`
	NextGoal               string `json:"next_goal"`
}

// ExecutionPlan is an ordered batch of actions submitted for sequential
// execution against the live session.
type ExecutionPlan struct {
	CurrentState PlannerState
	Actions      []Action
}
