package models

// Difficulty labels a challenge. The set is closed.
const (
	Beginner     = "Beginner"
	Intermediate = "Intermediate"
	Expert       = "Expert"
)
