package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type ServiceController struct {
	DB *gorm.DB
}

func NewServiceController(db *gorm.DB) *ServiceController {
	return &ServiceController{DB: db}
}

func (sc *ServiceController) GetAllServices(c *gin.Context) {
	var svcs []models.Service
	if err := sc.DB.Where("status = ?", "active").Order("name ASC").Find(&svcs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Services", svcs)
}

func (sc *ServiceController) GetServiceByID(c *gin.Context) {
	var svc models.Service
	if err := sc.DB.First(&svc, c.Param("service_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service detail", svc)
}

type ServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Description string  `json:"description"`
}

func (sc *ServiceController) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	svc := models.Service{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Status:      "active",
	}
	if err := sc.DB.Create(&svc).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service created", svc)
}

func (sc *ServiceController) UpdateService(c *gin.Context) {
	var svc models.Service
	if err := sc.DB.First(&svc, c.Param("service_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
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

	if err := sc.DB.Model(&svc).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Service updated", svc)
}

func (sc *ServiceController) DeleteService(c *gin.Context) {
	if err := sc.DB.Delete(&models.Service{}, c.Param("service_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Service deleted", nil)
}
