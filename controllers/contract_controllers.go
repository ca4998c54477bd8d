package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type ContractController struct {
	DB *gorm.DB
}

func NewContractController(db *gorm.DB) *ContractController {
	return &ContractController{DB: db}
}

// GetContract returns the contract for one of the caller's bookings.
func (cc *ContractController) GetContract(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var contract models.Contract
	q := cc.DB.Where("booking_id = ?", c.Param("booking_id"))
	if role != "admin" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&contract).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("contract not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Contract", contract)
}

// SignContract marks a contract as signed. Signing is a precondition for
// any payment against the booking.
func (cc *ContractController) SignContract(c *gin.Context) {
	userID := c.GetUint("user_id")

	var contract models.Contract
	if err := cc.DB.Where("booking_id = ? AND user_id = ?", c.Param("booking_id"), userID).
		First(&contract).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("contract not found"))
		return
	}

	if contract.Status == "signed" {
		utils.RespondError(c, http.StatusConflict, errors.New("contract is already signed"))
		return
	}

	now := time.Now()
	contract.Status = "signed"
	contract.SignedAt = &now
	if err := cc.DB.Save(&contract).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Contract signed", contract)
}

// GetAllContracts lists contracts for staff review.
func (cc *ContractController) GetAllContracts(c *gin.Context) {
	var contracts []models.Contract
	q := cc.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&contracts).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Contracts", contracts)
}
