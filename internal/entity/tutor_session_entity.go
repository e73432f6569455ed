package entity

import (
	"time"

	"ai-flashcard-be/pkg/llm"
)

// TutorSession is a chat about one flashcard. History excludes the system
// instruction, which is rebuilt from Card on every turn.
type TutorSession struct {
	Id        string
	UserId    string
	Card      Flashcard
	History   []llm.Message
	CreatedAt time.Time
}
