package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jhs/backend/internal/service"
)

func (h HandlerSet) ListServices(c *gin.Context) {
	services, err := h.deps.Content.ListServices(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to load services")
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h HandlerSet) ListProjects(c *gin.Context) {
	projects, err := h.deps.Content.ListProjects(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to load projects")
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h HandlerSet) GetSiteConfig(c *gin.Context) {
	cfg, found, err := h.deps.Content.SiteConfig(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Failed to load config")
		return
	}
	if !found {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type contactRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"projectType"`
	Message     string `json:"message"`
}

func (h HandlerSet) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.deps.Inquiries.Submit(c.Request.Context(), service.InquiryInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ProjectType: req.ProjectType,
		Message:     req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidInquiry) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.serverError(c, err, "Failed to send message")
		return
	}

	if !result.Notified {
		c.JSON(http.StatusAccepted, gin.H{"success": true, "notified": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
