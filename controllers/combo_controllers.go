package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type ComboController struct {
	DB *gorm.DB
}

func NewComboController(db *gorm.DB) *ComboController {
	return &ComboController{DB: db}
}

func (cc *ComboController) GetAllCombos(c *gin.Context) {
	var combos []models.Combo
	if err := cc.DB.Preload("Services.Service").
		Where("status = ?", "active").
		Order("price ASC").
		Find(&combos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Combos", combos)
}

func (cc *ComboController) GetComboByID(c *gin.Context) {
	var combo models.Combo
	if err := cc.DB.Preload("Services.Service").
		First(&combo, c.Param("combo_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("combo not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Combo detail", combo)
}

type ComboRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
	Services    []struct {
		ServiceID uint `json:"service_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,gt=0"`
	} `json:"services" binding:"required,min=1"`
}

func (cc *ComboController) CreateCombo(c *gin.Context) {
	var req ComboRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	combo := models.Combo{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Status:      "active",
	}
	for _, s := range req.Services {
		combo.Services = append(combo.Services, models.ComboService{
			ServiceID: s.ServiceID,
			Quantity:  s.Quantity,
		})
	}

	if err := cc.DB.Create(&combo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Combo created", combo)
}

func (cc *ComboController) UpdateCombo(c *gin.Context) {
	var combo models.Combo
	if err := cc.DB.First(&combo, c.Param("combo_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("combo not found"))
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	allowed := map[string]bool{"name": true, "price": true, "description": true, "status": true}
	updates := make(map[string]interface{})
	for k, v := range req {
		if allowed[k] {
			updates[k] = v
		}
	}

	if err := cc.DB.Model(&combo).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Combo updated", combo)
}

func (cc *ComboController) DeleteCombo(c *gin.Context) {
	tx := cc.DB.Begin()
	if err := tx.Where("combo_id = ?", c.Param("combo_id")).Delete(&models.ComboService{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Delete(&models.Combo{}, c.Param("combo_id")).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Combo deleted", nil)
}
