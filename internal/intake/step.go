package intake

// Step is one of the four ordered sections of the intake flow. Advancing is
// gated on validation; moving back is always allowed.
type Step int

const (
	StepPersonal Step = iota
	StepAcademic
	StepGuardian
	StepReview
)

var stepNames = [...]string{"Personal", "Academic", "Guardian", "Review"}

func (s Step) String() string {
	if s < StepPersonal || s > StepReview {
		return "Unknown"
	}
	return stepNames[s]
}
