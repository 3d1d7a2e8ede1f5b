package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"assessment-service/internal/models"
	"assessment-service/internal/service"
)

type DefinitionHandler struct {
	Service *service.DefinitionService
}

func NewDefinitionHandler(s *service.DefinitionService) *DefinitionHandler {
	return &DefinitionHandler{Service: s}
}

func (h *DefinitionHandler) Create(c *gin.Context) {
	var def models.AssessmentDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format", "details": err.Error()})
		return
	}
	if err := h.Service.Create(context.Background(), &def); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, def)
}

func (h *DefinitionHandler) Get(c *gin.Context) {
	def, err := h.Service.Get(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (h *DefinitionHandler) List(c *gin.Context) {
	defs, err := h.Service.List(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"definitions": defs})
}

func (h *DefinitionHandler) Publish(c *gin.Context) {
	def, err := h.Service.Publish(context.Background(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}
