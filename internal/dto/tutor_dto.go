package dto

import (
	"time"

	"github.com/google/uuid"
)

type TutorCard struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type ExplainCardRequest struct {
	Card TutorCard `json:"card" validate:"required"`
}

type ExplainCardResponse struct {
	Explanation string `json:"explanation"`
}

type StartTutorSessionRequest struct {
	Card TutorCard `json:"card" validate:"required"`
}

type StartTutorSessionResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type TutorChatRequest struct {
	SessionId uuid.UUID
	Message   string `json:"message" validate:"required,max=4000"`
}

type TutorChatResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Reply     string    `json:"reply"`
	Turns     int       `json:"turns"`
}
