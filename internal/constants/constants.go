package constants

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

const (
	SubmissionStatusCompleted     = "completed"
	SubmissionStatusAutoSubmitted = "auto_submitted"
)

const (
	ActionQuizCreated   = "quiz_created"
	ActionQuizUpdated   = "quiz_updated"
	ActionQuizDeleted   = "quiz_deleted"
	ActionQuizAssigned  = "quiz_assigned"
	ActionQuizSubmitted = "quiz_submitted"
)

const (
	NotificationTypeQuizAssigned  = "quiz_assigned"
	NotificationTypeQuizSubmitted = "quiz_submitted"
)

// Unanswered is the sentinel stored in place of an option index when a
// student never picked one. It can never match a valid correct-answer
// index, so an unanswered question is never scored correct.
const Unanswered = -1
