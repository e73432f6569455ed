package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-flashcard-be/internal/dto"
	"ai-flashcard-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUser = uuid.MustParse("8d3c1a4e-0b1f-4f59-9a55-3f9e2a6b7c10")

func fakeAuth(ctx *fiber.Ctx) error {
	ctx.Locals("user_id", testUser.String())
	return ctx.Next()
}

func newTestApp(register func(r fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	register(app.Group("/api"))
	return app
}

type fakeFlashcardService struct {
	generated  *dto.GenerateFlashcardsRequest
	pdfRequest *dto.GeneratePDFRequest
	err        error
}

func (f *fakeFlashcardService) Generate(_ context.Context, _ uuid.UUID, req *dto.GenerateFlashcardsRequest) (*dto.GenerateFlashcardsResponse, error) {
	f.generated = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.GenerateFlashcardsResponse{}, nil
}

func (f *fakeFlashcardService) GeneratePDF(_ context.Context, _ uuid.UUID, req *dto.GeneratePDFRequest) (*dto.GenerateFlashcardsResponse, error) {
	f.pdfRequest = req
	return &dto.GenerateFlashcardsResponse{}, nil
}

func (f *fakeFlashcardService) CacheStats(context.Context) (*dto.CacheStatsResponse, error) {
	return &dto.CacheStatsResponse{DeckCacheSize: 2, ContentCacheItems: 5}, nil
}

func (f *fakeFlashcardService) ClearCache(context.Context) error { return nil }

func (f *fakeFlashcardService) ListDocumentChunks(context.Context, uuid.UUID, string) ([]*dto.DocumentChunkResponse, error) {
	return nil, nil
}

func (f *fakeFlashcardService) ClearDocumentChunks(_ context.Context, _ uuid.UUID, documentId string) (*dto.ClearDocumentChunksResponse, error) {
	return &dto.ClearDocumentChunksResponse{DocumentId: documentId, Deleted: 3}, nil
}

func jsonRequest(method, target string, body interface{}) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestFlashcardController_Generate(t *testing.T) {
	svc := &fakeFlashcardService{}
	app := newTestApp(NewFlashcardController(svc, fakeAuth, 1).RegisterRoutes)

	t.Run("valid request reaches the service", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/api/flashcard/v1/generate", map[string]interface{}{
			"text":      "Photosynthesis converts light into chemical energy.",
			"file_name": "bio.txt",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.NotNil(t, svc.generated)
		assert.Equal(t, "bio.txt", svc.generated.FileName)
	})

	t.Run("missing text fails validation", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/api/flashcard/v1/generate", map[string]interface{}{
			"file_name": "bio.txt",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var body serverutils.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Errors, "text")
	})

	t.Run("invalid filters fail validation", func(t *testing.T) {
		resp, err := app.Test(jsonRequest("POST", "/api/flashcard/v1/generate", map[string]interface{}{
			"text":      "some text",
			"file_name": "bio.txt",
			"filters":   map[string]interface{}{"study_goal": "cramming"},
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestFlashcardController_GeneratePDF(t *testing.T) {
	svc := &fakeFlashcardService{}
	app := newTestApp(NewFlashcardController(svc, fakeAuth, 1).RegisterRoutes)

	upload := func(content []byte, filters string) *http.Request {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, _ := w.CreateFormFile("file", "notes.pdf")
		_, _ = part.Write(content)
		if filters != "" {
			_ = w.WriteField("filters", filters)
		}
		_ = w.Close()

		req := httptest.NewRequest("POST", "/api/flashcard/v1/generate/pdf", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req
	}

	t.Run("file and filters are forwarded", func(t *testing.T) {
		filters := `{"study_goal":"quick-review","content_type":["definitions"],"depth":"short","organization":"chapter-wise","limit_per_chapter":5}`
		resp, err := app.Test(upload([]byte("%PDF-1.4 body"), filters))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		require.NotNil(t, svc.pdfRequest)
		assert.Equal(t, "notes.pdf", svc.pdfRequest.FileName)
		require.NotNil(t, svc.pdfRequest.Filters)
		assert.Equal(t, 5, svc.pdfRequest.Filters.LimitPerChapter)
	})

	t.Run("malformed filters are rejected", func(t *testing.T) {
		resp, err := app.Test(upload([]byte("%PDF-1.4"), "{not json"))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("oversized upload is rejected", func(t *testing.T) {
		resp, err := app.Test(upload(bytes.Repeat([]byte("a"), 2<<20), ""), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/flashcard/v1/generate/pdf", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestFlashcardController_DocumentChunks(t *testing.T) {
	app := newTestApp(NewFlashcardController(&fakeFlashcardService{}, fakeAuth, 0).RegisterRoutes)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/flashcard/v1/documents/bio.txt/chunks", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body serverutils.BaseResponse[dto.ClearDocumentChunksResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "bio.txt", body.Data.DocumentId)
	assert.Equal(t, int64(3), body.Data.Deleted)
}

type fakeDeckService struct {
	lastCard string
	undo     *dto.UndoCardRequest
	err      error
}

func (f *fakeDeckService) Save(context.Context, uuid.UUID, *dto.SaveDeckRequest) (*dto.SaveDeckResponse, error) {
	return &dto.SaveDeckResponse{Id: uuid.New()}, f.err
}

func (f *fakeDeckService) GetAll(context.Context, uuid.UUID) ([]*dto.DeckSummaryResponse, error) {
	return []*dto.DeckSummaryResponse{}, f.err
}

func (f *fakeDeckService) Show(_ context.Context, _ uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DeckResponse{Id: id}, nil
}

func (f *fakeDeckService) Delete(context.Context, uuid.UUID, uuid.UUID) error { return f.err }

func (f *fakeDeckService) card(id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	f.lastCard = cardId
	if f.err != nil {
		return nil, f.err
	}
	return &dto.DeckResponse{Id: id}, nil
}

func (f *fakeDeckService) MarkKnown(_ context.Context, _ uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return f.card(id, cardId)
}

func (f *fakeDeckService) MarkRevise(_ context.Context, _ uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return f.card(id, cardId)
}

func (f *fakeDeckService) Undo(_ context.Context, _ uuid.UUID, id uuid.UUID, cardId string, req *dto.UndoCardRequest) (*dto.DeckResponse, error) {
	f.undo = req
	return f.card(id, cardId)
}

func (f *fakeDeckService) Promote(_ context.Context, _ uuid.UUID, id uuid.UUID, cardId string) (*dto.DeckResponse, error) {
	return f.card(id, cardId)
}

func (f *fakeDeckService) Reset(_ context.Context, _ uuid.UUID, id uuid.UUID) (*dto.DeckResponse, error) {
	return &dto.DeckResponse{Id: id}, f.err
}

func TestDeckController(t *testing.T) {
	deckId := uuid.New()

	t.Run("card routes pass the card id", func(t *testing.T) {
		svc := &fakeDeckService{}
		app := newTestApp(NewDeckController(svc, fakeAuth).RegisterRoutes)

		for _, action := range []string{"known", "revise", "promote"} {
			resp, err := app.Test(httptest.NewRequest("PUT", "/api/deck/v1/"+deckId.String()+"/cards/card-7/"+action, nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode, action)
			assert.Equal(t, "card-7", svc.lastCard)
		}
	})

	t.Run("undo accepts an optional chapter", func(t *testing.T) {
		svc := &fakeDeckService{}
		app := newTestApp(NewDeckController(svc, fakeAuth).RegisterRoutes)

		resp, err := app.Test(jsonRequest("PUT", "/api/deck/v1/"+deckId.String()+"/cards/c1/undo", map[string]string{"chapter_title": "Cells"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Cells", svc.undo.ChapterTitle)

		resp, err = app.Test(httptest.NewRequest("PUT", "/api/deck/v1/"+deckId.String()+"/cards/c1/undo", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Empty(t, svc.undo.ChapterTitle)
	})

	t.Run("invalid deck id", func(t *testing.T) {
		app := newTestApp(NewDeckController(&fakeDeckService{}, fakeAuth).RegisterRoutes)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/deck/v1/not-a-uuid", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing deck maps to 404", func(t *testing.T) {
		app := newTestApp(NewDeckController(&fakeDeckService{err: serverutils.ErrNotFound}, fakeAuth).RegisterRoutes)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/deck/v1/"+deckId.String(), nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("save requires decks", func(t *testing.T) {
		app := newTestApp(NewDeckController(&fakeDeckService{}, fakeAuth).RegisterRoutes)

		resp, err := app.Test(jsonRequest("POST", "/api/deck/v1", map[string]interface{}{"pdf_name": "bio.pdf"}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
