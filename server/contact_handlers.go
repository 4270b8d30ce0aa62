package server

import (
	"context"
	"net/http"

	"github.com/example/bakeshop/pkg/models"
	"github.com/gin-gonic/gin"
)

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func (s *Server) createContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	msg := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contacts.Create(ctx, msg); err != nil {
		s.writeError(c, err)
		return
	}

	// TODO: notify the shop inbox once a mail provider is wired up.

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Thanks for reaching out, we'll get back to you soon"})
}
