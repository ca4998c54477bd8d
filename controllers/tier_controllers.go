package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type TierController struct {
	DB *gorm.DB
}

func NewTierController(db *gorm.DB) *TierController {
	return &TierController{DB: db}
}

func (tc *TierController) GetAllTiers(c *gin.Context) {
	var tiers []models.Tier
	if err := tc.DB.Order("min_points ASC").Find(&tiers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tiers", tiers)
}

type TierRequest struct {
	Name            string  `json:"name" binding:"required"`
	MinPoints       int     `json:"min_points" binding:"min=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"min=0,max=100"`
}

func (tc *TierController) CreateTier(c *gin.Context) {
	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tier := models.Tier{
		Name:            req.Name,
		MinPoints:       req.MinPoints,
		DiscountPercent: req.DiscountPercent,
	}
	if err := tc.DB.Create(&tier).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("tier name already exists"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Tier created", tier)
}

func (tc *TierController) UpdateTier(c *gin.Context) {
	var tier models.Tier
	if err := tc.DB.First(&tier, c.Param("tier_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("tier not found"))
		return
	}

	var req TierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tier.Name = req.Name
	tier.MinPoints = req.MinPoints
	tier.DiscountPercent = req.DiscountPercent
	if err := tc.DB.Save(&tier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Tier updated", tier)
}

func (tc *TierController) DeleteTier(c *gin.Context) {
	if err := tc.DB.Delete(&models.Tier{}, c.Param("tier_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tier deleted", nil)
}
