package models

// Intention classifies the purpose of a queue or group chat.
type Intention string

const (
	IntentionPrayer       Intention = "prayer"
	IntentionBibleStudy   Intention = "bible_study"
	IntentionEvangelizing Intention = "evangelizing"
	IntentionFellowship   Intention = "fellowship"
	IntentionWorship      Intention = "worship"
)

// Valid reports whether the intention is one of the known tags.
func (i Intention) Valid() bool {
	switch i {
	case IntentionPrayer, IntentionBibleStudy, IntentionEvangelizing, IntentionFellowship, IntentionWorship:
		return true
	}
	return false
}
