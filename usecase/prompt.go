package usecase

import (
	"englishtalk/domain"
	"fmt"
	"strings"
)

type PromptInput struct {
	Teacher    domain.TeacherProfile
	Level      domain.LevelProfile
	Topic      domain.TopicProfile
	RepeatMode bool
}

const deliveryInstructions = `IMPORTANT: Speak naturally with emotion and personality!
- Use contractions (I'm, don't, can't).
- Add emotional words (wow, amazing, oh, hmm).
- Show enthusiasm with exclamation marks!
- Ask questions to engage the student.
- Be friendly and encouraging.

Instructions:
1. Speak naturally with feeling.
2. Keep responses to 1-2 sentences.
`

const grammarCheckClause = `3. Check every sentence for grammar errors. If a mistake is found, point it out kindly and ask them to repeat. Example: "Almost there! Just say 'I am happy' instead of 'I is happy'. Can you try that again?"
`

const repeatEvaluationClause = `The student is repeating their sentence. Evaluate if it is now correct (80% accuracy).
If correct, praise them enthusiastically and continue the conversation.
If still has errors, encourage them to try again.
`

// BuildSystemPrompt renders the system instruction for the current selections.
func BuildSystemPrompt(in PromptInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, an enthusiastic English teacher.\n", in.Teacher.Name)
	fmt.Fprintf(&b, "Student level: %s.\n", in.Level.Label)
	fmt.Fprintf(&b, "Topic: %s.\n\n", in.Topic.Name)
	b.WriteString(deliveryInstructions)

	switch {
	case in.RepeatMode:
		b.WriteString("\n")
		b.WriteString(repeatEvaluationClause)
	case in.Level.ID.NeedsGrammarCheck():
		b.WriteString("\n")
		b.WriteString(grammarCheckClause)
	}
	return b.String()
}
