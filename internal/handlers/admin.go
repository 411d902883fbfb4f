package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jhs/backend/internal/models"
	"jhs/backend/internal/service"
)

func (h HandlerSet) Dashboard(c *gin.Context) {
	stats, err := h.deps.Dashboard.Stats(c.Request.Context())
	if err != nil {
		h.serverError(c, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h HandlerSet) AdminListServices(c *gin.Context) {
	services, err := h.deps.Content.ListServices(c.Request.Context())
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": services})
}

func (h HandlerSet) AdminGetService(c *gin.Context) {
	svc, err := h.deps.Content.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h HandlerSet) AdminCreateService(c *gin.Context) {
	var in service.ServiceInput
	if !bindJSON(c, &in) {
		return
	}
	created, err := h.deps.Content.CreateService(c.Request.Context(), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h HandlerSet) AdminUpdateService(c *gin.Context) {
	var in service.ServiceInput
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.Content.UpdateService(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) AdminDeleteService(c *gin.Context) {
	if err := h.deps.Content.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminListProjects(c *gin.Context) {
	projects, err := h.deps.Content.ListProjects(c.Request.Context())
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": projects})
}

func (h HandlerSet) AdminGetProject(c *gin.Context) {
	project, err := h.deps.Content.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h HandlerSet) AdminCreateProject(c *gin.Context) {
	var in service.ProjectInput
	if !bindJSON(c, &in) {
		return
	}
	created, err := h.deps.Content.CreateProject(c.Request.Context(), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h HandlerSet) AdminUpdateProject(c *gin.Context) {
	var in service.ProjectInput
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.Content.UpdateProject(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) AdminDeleteProject(c *gin.Context) {
	if err := h.deps.Content.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminListInquiries(c *gin.Context) {
	limit, offset := pagination(c)
	inquiries, err := h.deps.Inquiries.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": inquiries})
}

func (h HandlerSet) AdminGetInquiry(c *gin.Context) {
	inquiry, err := h.deps.Inquiries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, inquiry)
}

func (h HandlerSet) AdminDeleteInquiry(c *gin.Context) {
	if err := h.deps.Inquiries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminGetSiteConfig(c *gin.Context) {
	cfg, found, err := h.deps.Content.SiteConfig(c.Request.Context())
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h HandlerSet) AdminUpdateSiteConfig(c *gin.Context) {
	var in models.SiteConfig
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.deps.Content.UpdateSiteConfig(c.Request.Context(), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.deps.Users.List(c.Request.Context())
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users})
}

func (h HandlerSet) AdminGetUser(c *gin.Context) {
	user, err := h.deps.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) AdminCreateUser(c *gin.Context) {
	var in service.UserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.deps.Users.Create(c.Request.Context(), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h HandlerSet) AdminUpdateUser(c *gin.Context) {
	var in service.UserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.deps.Users.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h HandlerSet) AdminDeleteUser(c *gin.Context) {
	if err := h.deps.Users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeAdminError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return false
	}
	return true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit = 50
	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}
	return limit, offset
}
