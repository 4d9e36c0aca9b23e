package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fleetflow/support-engine/internal/api/dto"
	"github.com/fleetflow/support-engine/internal/domain"
	"github.com/fleetflow/support-engine/internal/service"
	"github.com/fleetflow/support-engine/pkg/util"
)

// SupportHandler exposes the ticket, chatbot, and knowledge base endpoints.
type SupportHandler struct {
	service *service.SupportService
}

// NewSupportHandler constructs handler.
func NewSupportHandler(supportService *service.SupportService) *SupportHandler {
	return &SupportHandler{service: supportService}
}

// CreateTicket POST /support/tickets.
func (h *SupportHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Description) == "" {
		return util.NewValidationError("description required", nil)
	}

	ticket, err := h.service.CreateSupportTicket(c.UserContext(), service.TicketCreateInput{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Subject:       req.Subject,
		Description:   req.Description,
		Category:      req.Category,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /support/tickets. An optional ?status= filter narrows
// the result; tickets come back newest first.
func (h *SupportHandler) ListTickets(c *fiber.Ctx) error {
	var tickets []domain.SupportTicket
	if status := c.Query("status"); status != "" {
		tickets = h.service.GetTicketsByStatus(domain.TicketStatus(status))
	} else {
		tickets = h.service.GetAllSupportTickets()
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets)})
}

// GetTicket GET /support/tickets/:id.
func (h *SupportHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateStatus PATCH /support/tickets/:id/status.
func (h *SupportHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return util.NewValidationError("status required", nil)
	}

	ticket, err := h.service.UpdateTicketStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// RateTicket POST /support/tickets/:id/satisfaction.
func (h *SupportHandler) RateTicket(c *fiber.Ctx) error {
	var req dto.SatisfactionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.RateTicket(c.Params("id"), req.Score)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Chat POST /support/chat.
func (h *SupportHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return util.NewValidationError("message required", nil)
	}

	interaction, err := h.service.ProcessChatbotInteraction(c.UserContext(), req.CustomerID, req.CustomerName, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewChatInteractionResponse(interaction)})
}

// RecentChats GET /support/chat/recent.
func (h *SupportHandler) RecentChats(c *fiber.Ctx) error {
	interactions := h.service.GetRecentChatbotInteractions()
	items := make([]dto.ChatInteractionResponse, 0, len(interactions))
	for i := range interactions {
		items = append(items, dto.NewChatInteractionResponse(&interactions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Metrics GET /support/metrics.
func (h *SupportHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.GetSupportMetrics()})
}

// ListArticles GET /support/knowledge-base.
func (h *SupportHandler) ListArticles(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.ListKnowledgeBase()})
}

// GetArticle GET /support/knowledge-base/:id.
func (h *SupportHandler) GetArticle(c *fiber.Ctx) error {
	article, err := h.service.GetKnowledgeBaseArticle(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": article})
}
