package util

// EncouragementMessages rotate through the in-progress assessment responses,
// one per answered question.
var EncouragementMessages = []string{
	"You're doing great!",
	"Keep going, you're amazing!",
	"Excellent work!",
	"You're stronger than you think!",
	"One step at a time, you've got this!",
	"Proud of you for being here!",
	"Your honesty is your strength!",
	"You're not alone in this journey!",
}

// CompletionMessages are shown once an assessment completes.
var CompletionMessages = []string{
	"Awesome! You've completed the assessment!",
	"Well done! Your responses help us support you better!",
	"Thank you for being honest and brave!",
	"Great job! Remember, seeking help is a sign of strength!",
}

func EncouragementFor(answered int) string {
	if answered <= 0 {
		return EncouragementMessages[0]
	}
	return EncouragementMessages[(answered-1)%len(EncouragementMessages)]
}

func CompletionFor(score int) string {
	return CompletionMessages[score%len(CompletionMessages)]
}
