package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/models"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/store"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

type CategoryHandler struct {
	Store *store.Store
	Log   *zap.Logger
}

func NewCategoryHandler(s *store.Store, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{Store: s, Log: log}
}

type createCategoryReq struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon" binding:"max=32"`
	Color string `json:"color" binding:"max=16"`
	Type  string `json:"type" binding:"omitempty,oneof=income expense other"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	var req createCategoryReq
	if err := bind(c, &req); err != nil {
		fail(c, h.Log, err)
		return
	}
	if err := util.ValidateName("name", req.Name, 64); err != nil {
		fail(c, h.Log, err)
		return
	}
	cat, err := h.Store.CreateCategory(c.Request.Context(), models.Category{
		TenantID: tenantID,
		Name:     req.Name,
		Icon:     req.Icon,
		Color:    req.Color,
		Type:     req.Type,
	})
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}

func (h *CategoryHandler) List(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	cats, err := h.Store.ListCategories(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"items": cats})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	tenantID, err := tenant(c)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	cat, err := h.Store.FindCategory(c.Request.Context(), tenantID, id)
	if err != nil {
		fail(c, h.Log, err)
		return
	}
	util.Success(c, util.Response{"category": cat})
}
