package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/entity"
	"ai-flashcard-be/internal/pkg/logger"
	"ai-flashcard-be/internal/pkg/serverutils"
	"ai-flashcard-be/internal/repository/memory"
	"ai-flashcard-be/pkg/llm"
	"ai-flashcard-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

const (
	TutorOverloadedMessage = "The AI service is currently overloaded. Please try again in a moment."
	TutorFallbackMessage   = "Sorry, I couldn't fetch a detailed explanation at this time. Please try again later."
)

type ITutorService interface {
	// Explain never fails on provider errors; it answers with a friendly
	// message instead.
	Explain(ctx context.Context, req *dto.ExplainCardRequest) (*dto.ExplainCardResponse, error)
	StartChat(ctx context.Context, userId uuid.UUID, req *dto.StartTutorSessionRequest) (*dto.StartTutorSessionResponse, error)
	Chat(ctx context.Context, userId uuid.UUID, req *dto.TutorChatRequest) (*dto.TutorChatResponse, error)
}

type tutorService struct {
	llm         llm.LLMProvider
	sessionRepo *memory.TutorSessionRepository
	logger      logger.ILogger
}

func NewTutorService(retrying *llm.RetryProvider, sessionRepo *memory.TutorSessionRepository, log logger.ILogger) ITutorService {
	return &tutorService{
		llm:         retrying.WithPolicy(llm.RetryPolicy{MaxAttempts: 2, BaseDelay: time.Second}),
		sessionRepo: sessionRepo,
		logger:      log,
	}
}

func toFlashcard(card dto.TutorCard) entity.Flashcard {
	return entity.Flashcard{Question: card.Question, Answer: card.Answer}
}

func (s *tutorService) Explain(ctx context.Context, req *dto.ExplainCardRequest) (*dto.ExplainCardResponse, error) {
	text, err := s.llm.Generate(ctx, prompt.BuildExplanationPrompt(toFlashcard(req.Card)))
	if err != nil {
		s.logger.Warn("TutorService", "Explanation failed", map[string]interface{}{
			"error": err.Error(),
		})
		if llm.ClassifyError(err) == llm.KindOverloaded {
			return &dto.ExplainCardResponse{Explanation: TutorOverloadedMessage}, nil
		}
		return &dto.ExplainCardResponse{Explanation: TutorFallbackMessage}, nil
	}

	return &dto.ExplainCardResponse{Explanation: strings.TrimSpace(text)}, nil
}

func (s *tutorService) StartChat(ctx context.Context, userId uuid.UUID, req *dto.StartTutorSessionRequest) (*dto.StartTutorSessionResponse, error) {
	session := &entity.TutorSession{
		Id:        uuid.NewString(),
		UserId:    userId.String(),
		Card:      toFlashcard(req.Card),
		History:   make([]llm.Message, 0),
		CreatedAt: time.Now(),
	}
	s.sessionRepo.Save(session)

	return &dto.StartTutorSessionResponse{
		SessionId: uuid.MustParse(session.Id),
		CreatedAt: session.CreatedAt,
	}, nil
}

func (s *tutorService) Chat(ctx context.Context, userId uuid.UUID, req *dto.TutorChatRequest) (*dto.TutorChatResponse, error) {
	session, ok := s.sessionRepo.Get(req.SessionId.String())
	if !ok || session.UserId != userId.String() {
		return nil, fmt.Errorf("tutor session %s: %w", req.SessionId, serverutils.ErrNotFound)
	}

	// Snapshot the history so a slow call does not hold the session lock.
	history := make([]llm.Message, 0, len(session.History)+2)
	history = append(history, llm.Message{Role: llm.RoleSystem, Content: prompt.BuildTutorInstruction(session.Card)})
	history = append(history, session.History...)
	history = append(history, llm.Message{Role: llm.RoleUser, Content: req.Message})

	reply, err := s.llm.Chat(ctx, history)
	if err != nil {
		return nil, llm.ToGenerationError(err)
	}
	reply = strings.TrimSpace(reply)

	var turns int
	err = s.sessionRepo.Update(session.Id, func(ts *entity.TutorSession) error {
		ts.History = append(ts.History,
			llm.Message{Role: llm.RoleUser, Content: req.Message},
			llm.Message{Role: llm.RoleAssistant, Content: reply},
		)
		turns = len(ts.History) / 2
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tutor session %s: %w", req.SessionId, serverutils.ErrNotFound)
	}

	return &dto.TutorChatResponse{SessionId: req.SessionId, Reply: reply, Turns: turns}, nil
}
