package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/serviceops-labs/fabric-studio/internal/core/domain"
	"github.com/serviceops-labs/fabric-studio/internal/core/ports/driven"
)

// ChatHandler serves the chat and feedback endpoints.
type ChatHandler struct {
	log           *Logger
	fabrics       driven.FabricStore
	conversations driven.ConversationStore
	feedback      driven.FeedbackStore
}

// NewChatHandler creates the chat endpoint handler.
func NewChatHandler(log *Logger, fabrics driven.FabricStore, conversations driven.ConversationStore, feedback driven.FeedbackStore) *ChatHandler {
	return &ChatHandler{
		log:           log.With("handler", "ChatHandler"),
		fabrics:       fabrics,
		conversations: conversations,
		feedback:      feedback,
	}
}

// Send runs one conversation turn: full log in, full log out. The
// retrieval and generation are mocked; the protocol is real.
func (h *ChatHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.FabricID == "" {
		respondError(c, http.StatusBadRequest, "fabricId is required")
		return
	}
	if len(req.Messages) == 0 {
		respondError(c, http.StatusBadRequest, "messages must not be empty")
		return
	}

	fabric, err := h.fabrics.Get(ctx, req.FabricID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Fabric not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load fabric")
		return
	}

	// Only a Ready fabric can answer. The status is named in the reply
	// so the user knows what they are waiting for.
	if fabric.Status != domain.StatusReady {
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("Fabric is not ready. Current status: %s", fabric.Status))
		return
	}

	convID := req.ConversationID
	if convID == "" {
		convID = uuid.NewString()
	}

	last := req.Messages[len(req.Messages)-1]
	answer := domain.ChatMessage{
		ID:        "msg-" + uuid.NewString(),
		Role:      domain.RoleAssistant,
		Content:   mockAnswer(fabric, last.Content),
		CreatedAt: time.Now().UTC(),
		Sources:   mockCitations(fabric),
	}

	log := make([]domain.ChatMessage, 0, len(req.Messages)+1)
	log = append(log, req.Messages...)
	log = append(log, answer)

	if err := h.conversations.Append(ctx, convID, []domain.ChatMessage{last, answer}); err != nil {
		h.log.Error("persisting conversation failed", "conversation_id", convID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to record conversation")
		return
	}

	h.log.Info("chat turn served", "fabric_id", fabric.ID, "conversation_id", convID)
	c.JSON(http.StatusOK, domain.ChatResponse{Messages: log, ConversationID: convID})
}

// Feedback records a verdict on an assistant message.
func (h *ChatHandler) Feedback(c *gin.Context) {
	var fb domain.Feedback
	if err := c.ShouldBindJSON(&fb); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if fb.MessageID == "" {
		respondError(c, http.StatusBadRequest, "messageId is required")
		return
	}
	if !fb.Rating.IsValid() {
		respondError(c, http.StatusBadRequest, "rating must be \"up\" or \"down\"")
		return
	}
	if fb.Timestamp.IsZero() {
		fb.Timestamp = time.Now().UTC()
	}

	if err := h.feedback.Save(c.Request.Context(), fb); err != nil {
		h.log.Error("saving feedback failed", "message_id", fb.MessageID, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to record feedback")
		return
	}

	h.log.Info("feedback recorded", "message_id", fb.MessageID, "rating", fb.Rating)
	c.Status(http.StatusNoContent)
}

// mockAnswer produces a canned grounded-sounding response.
func mockAnswer(fabric *domain.Fabric, question string) string {
	return fmt.Sprintf(
		"Based on the %s knowledge fabric, here is what I found for %q: "+
			"the indexed documents describe the relevant procedures and known resolutions. "+
			"See the cited sources for the full detail.",
		fabric.Name, question)
}

// mockCitations fabricates citations consistent with the fabric's source.
func mockCitations(fabric *domain.Fabric) []domain.Citation {
	switch fabric.Sources.Primary() {
	case domain.SourceTypeUploads:
		names := fabric.Sources.Uploads.FileNames
		citations := make([]domain.Citation, 0, 2)
		for i, name := range names {
			if i == 2 {
				break
			}
			citations = append(citations, domain.Citation{
				ID:      fmt.Sprintf("doc-%d", i+1),
				Title:   name,
				Snippet: "Relevant excerpt from the uploaded document.",
				Link:    "#" + name,
			})
		}
		return citations
	case domain.SourceTypeServiceNow:
		return []domain.Citation{
			{ID: "doc-1", Title: "KB0010021: Known error workaround", Snippet: "Documented resolution steps.", Link: fabric.Sources.ServiceNow.InstanceURL + "/kb_view.do?sys_kb_id=doc-1"},
			{ID: "doc-2", Title: "INC0012345: Similar resolved incident", Snippet: "Close notes from a matching incident.", Link: fabric.Sources.ServiceNow.InstanceURL + "/incident.do?sys_id=doc-2"},
		}
	case domain.SourceTypeSharePoint:
		return []domain.Citation{
			{ID: "doc-1", Title: "Operations Runbook.docx", Snippet: "Procedure section 4.2.", Link: fabric.Sources.SharePoint.SiteURL},
		}
	default:
		return nil
	}
}
