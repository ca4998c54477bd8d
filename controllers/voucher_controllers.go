package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type VoucherController struct {
	DB *gorm.DB
}

func NewVoucherController(db *gorm.DB) *VoucherController {
	return &VoucherController{DB: db}
}

// CheckVoucher lets the storefront validate a code before booking.
func (vc *VoucherController) CheckVoucher(c *gin.Context) {
	code := strings.ToUpper(c.Query("code"))
	if code == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("code is required"))
		return
	}

	var voucher models.Voucher
	if err := vc.DB.Where("code = ?", code).First(&voucher).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("voucher not found"))
		return
	}

	if !voucher.Usable(time.Now()) {
		utils.RespondError(c, http.StatusConflict, errors.New("voucher is no longer usable"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Voucher valid", gin.H{
		"code":             voucher.Code,
		"discount_percent": voucher.DiscountPercent,
	})
}

func (vc *VoucherController) GetAllVouchers(c *gin.Context) {
	var vouchers []models.Voucher
	if err := vc.DB.Order("created_at DESC").Find(&vouchers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vouchers", vouchers)
}

type VoucherRequest struct {
	Code            string    `json:"code" binding:"required"`
	DiscountPercent float64   `json:"discount_percent" binding:"required,gt=0,max=100"`
	Quantity        int       `json:"quantity" binding:"required,gt=0"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
}

func (vc *VoucherController) CreateVoucher(c *gin.Context) {
	var req VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !req.EndDate.After(req.StartDate) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("end_date must be after start_date"))
		return
	}

	voucher := models.Voucher{
		Code:            strings.ToUpper(req.Code),
		DiscountPercent: req.DiscountPercent,
		Quantity:        req.Quantity,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          "active",
	}
	if err := vc.DB.Create(&voucher).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("voucher code already exists"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Voucher created", voucher)
}

func (vc *VoucherController) UpdateVoucher(c *gin.Context) {
	var voucher models.Voucher
	if err := vc.DB.First(&voucher, c.Param("voucher_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("voucher not found"))
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	allowed := map[string]bool{
		"discount_percent": true, "quantity": true,
		"start_date": true, "end_date": true, "status": true,
	}
	updates := make(map[string]interface{})
	for k, v := range req {
		if allowed[k] {
			updates[k] = v
		}
	}

	if err := vc.DB.Model(&voucher).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Voucher updated", voucher)
}

func (vc *VoucherController) DeleteVoucher(c *gin.Context) {
	if err := vc.DB.Delete(&models.Voucher{}, c.Param("voucher_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Voucher deleted", nil)
}
