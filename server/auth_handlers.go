package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/bakeshop/pkg/auth"
	"github.com/example/bakeshop/pkg/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		s.writeError(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hash,
		Phone:    req.Phone,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registration can slip past the lookup above and
		// land on the unique email index.
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		s.writeError(c, err)
		return
	}

	s.logger.Info("User registered", zap.String("email", user.Email))
	s.issueSession(c, user, http.StatusCreated)
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		s.writeError(c, err)
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	s.issueSession(c, user, http.StatusOK)
}

// issueSession signs a token for the user and delivers it both as an
// httpOnly cookie and in the response body.
func (s *Server) issueSession(c *gin.Context, user *models.User, status int) {
	token, err := s.auth.Generate(user.ID.Hex(), user.Role)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(s.auth.CookieName(), token, int(s.auth.TTL().Seconds()), "/", "", false, true)

	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

func (s *Server) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(s.auth.CookieName(), "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) me(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.GetString(auth.ContextUserID))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized"})
			return
		}
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
