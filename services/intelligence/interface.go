package ai

import (
	"context"
	"fmt"
	"strings"

	"travelagency/models"
	"travelagency/utils"

	"go.uber.org/zap"
)

// Reply sources.
const (
	SourceGemini = "gemini"
	SourceLocal  = "local"
)

// Catalog lists the live packages the assistant may talk about.
type Catalog interface {
	GetPackages(ctx context.Context) ([]models.TravelPackage, error)
}

// AIService answers storefront chat messages.
type AIService interface {
	ProcessUserInput(ctx context.Context, req models.AIRequest) (*models.AIResponse, error)
	ClearContext(ctx context.Context, userID string) error
}

// DefaultAIService asks Gemini when configured and falls back to the local
// keyword responder when it is not or when the call fails.
type DefaultAIService struct {
	Generator TextGenerator
	Contexts  ContextStore
	Catalog   Catalog
}

func NewAIService(gen TextGenerator, contexts ContextStore, catalog Catalog) *DefaultAIService {
	if contexts == nil {
		contexts = NewMemoryContextStore()
	}
	return &DefaultAIService{Generator: gen, Contexts: contexts, Catalog: catalog}
}

func (s *DefaultAIService) ProcessUserInput(ctx context.Context, req models.AIRequest) (*models.AIResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, utils.NewValidationError("text", "message is empty")
	}
	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}

	aiCtx, err := s.Contexts.Get(ctx, userID)
	if err != nil {
		utils.GetLogger().Warn("Failed to load chat context", zap.String("user", userID), zap.Error(err))
		aiCtx = &models.AIContext{}
	}

	var catalog []models.TravelPackage
	if s.Catalog != nil {
		if catalog, err = s.Catalog.GetPackages(ctx); err != nil {
			utils.GetLogger().Warn("Failed to load catalog for chat", zap.Error(err))
		}
	}

	resp := s.generate(ctx, text, aiCtx, catalog)

	aiCtx.History = append(aiCtx.History,
		models.ChatTurn{Role: "user", Text: text},
		models.ChatTurn{Role: "model", Text: resp.ResponseText},
	)
	if err := s.Contexts.Set(ctx, userID, aiCtx); err != nil {
		utils.GetLogger().Warn("Failed to save chat context", zap.String("user", userID), zap.Error(err))
	}
	return resp, nil
}

func (s *DefaultAIService) generate(ctx context.Context, text string, aiCtx *models.AIContext, catalog []models.TravelPackage) *models.AIResponse {
	local := LocalResponse(text, catalog)
	if s.Generator == nil {
		return local
	}
	reply, err := s.Generator.GenerateContent(ctx, buildPrompt(text, aiCtx.History, catalog))
	if err != nil {
		utils.GetLogger().Warn("Gemini unavailable, answering locally", zap.Error(err))
		return local
	}
	// Keep the locally detected intent and actions so the UI can still link offers.
	return &models.AIResponse{
		Intent:       local.Intent,
		ResponseText: strings.TrimSpace(reply),
		Source:       SourceGemini,
		Actions:      local.Actions,
	}
}

func (s *DefaultAIService) ClearContext(ctx context.Context, userID string) error {
	return s.Contexts.Clear(ctx, userID)
}

func buildPrompt(text string, history []models.ChatTurn, catalog []models.TravelPackage) string {
	var sb strings.Builder
	sb.WriteString("Catalog:\n")
	if len(catalog) == 0 {
		sb.WriteString("(no packages available)\n")
	}
	for _, p := range catalog {
		fmt.Fprintf(&sb, "- [%s] %s (%s), %s, %d places left\n", p.ID, p.Title, p.Type, formatPrice(p), p.Stock)
	}
	if len(history) > 0 {
		sb.WriteString("\nConversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Text)
		}
	}
	fmt.Fprintf(&sb, "\nuser: %s\n", text)
	return sb.String()
}
