package preference

// Behavioral signals that drive interest-weight updates.
const (
	ActionView     = "view"
	ActionEnroll   = "enroll"
	ActionComplete = "complete"
	ActionRate     = "rate"
	ActionReview   = "review"
)

// ActionIncrement maps an action to its interest-weight delta. Unknown
// actions still count as a weak positive signal rather than an error.
func ActionIncrement(action string) float64 {
	switch action {
	case ActionView:
		return 0.1
	case ActionEnroll:
		return 0.5
	case ActionComplete:
		return 1.0
	case ActionRate:
		return 0.3
	case ActionReview:
		return 0.4
	default:
		return 0.1
	}
}
