// ABOUTME: HTTP handlers for quiz submission, type lookup and chat
// ABOUTME: Maps classifier and validation errors to 4xx/5xx JSON responses
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/2jang/Pawsonality/internal/core"
	"github.com/2jang/Pawsonality/internal/models"
)

type chatRequest struct {
	Message             string            `json:"message"`
	TypeCode            string            `json:"type_code"`
	ConversationHistory []models.ChatTurn `json:"conversation_history"`
	Model               string            `json:"model"`
}

type typeResponse struct {
	models.PersonalityType
	Best []models.PersonalityType `json:"best_match_types"`
	Good []models.PersonalityType `json:"good_match_types"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"service": "Pawsonality",
		"version": s.version,
		"endpoints": []string{
			"GET /api/pawna/questions",
			"POST /api/pawna/submit",
			"GET /api/pawna/types",
			"GET /api/pawna/types/:code",
			"POST /api/chat",
			"POST /api/chat/explain/:code",
			"GET /api/chat/greeting",
			"GET /api/chat/health",
		},
	})
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}

func (s *Server) handleQuestions(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Questions())
}

func (s *Server) handleSubmit(c echo.Context) error {
	var sub models.Submission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}

	result, err := s.catalog.Result(sub)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, result)
	case errors.Is(err, models.ErrIncompleteSubmission),
		errors.Is(err, models.ErrUnknownQuestion),
		errors.Is(err, models.ErrInvalidSelection):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		s.logger.Error("classification failed", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func (s *Server) handleTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Types())
}

func (s *Server) handleType(c echo.Context) error {
	code := normalizeCode(c.Param("code"))
	pt, ok := s.catalog.Type(code)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown personality type: " + code})
	}
	best, good, err := s.catalog.Matches(code)
	if err != nil {
		s.logger.Error("match lookup failed", "type", code, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, typeResponse{PersonalityType: pt, Best: best, Good: good})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
	}
	if err := validateChatRequest(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.TypeCode != "" {
		if _, ok := s.catalog.Type(req.TypeCode); !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown personality type: " + req.TypeCode})
		}
	}

	answer := s.chat.ComposeWith(c.Request().Context(), core.Request{
		Message:  req.Message,
		History:  req.ConversationHistory,
		TypeCode: req.TypeCode,
		Model:    req.Model,
	})
	return c.JSON(http.StatusOK, answer)
}

func (s *Server) handleExplain(c echo.Context) error {
	code := normalizeCode(c.Param("code"))
	if _, ok := s.catalog.Type(code); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown personality type: " + code})
	}
	return c.JSON(http.StatusOK, s.chat.Explain(c.Request().Context(), code))
}

func (s *Server) handleGreeting(c echo.Context) error {
	code := normalizeCode(c.QueryParam("type"))
	if code != "" {
		if _, ok := s.catalog.Type(code); !ok {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown personality type: " + code})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   s.chat.Greeting(code),
		"type_code": code,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleChatHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status": "healthy",
		"chat":   s.chat.Status(),
	})
}
