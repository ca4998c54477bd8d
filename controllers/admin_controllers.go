package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pdf/fpdf"
	chart "github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

type dashboardStats struct {
	TotalBookings     int64   `json:"total_bookings"`
	PendingBookings   int64   `json:"pending_bookings"`
	ConfirmedBookings int64   `json:"confirmed_bookings"`
	CancelledBookings int64   `json:"cancelled_bookings"`
	TotalCustomers    int64   `json:"total_customers"`
	TotalRooms        int64   `json:"total_rooms"`
	RevenueUSD        float64 `json:"revenue_usd"`
	PendingPayments   int64   `json:"pending_payments"`
	AverageRating     float64 `json:"average_rating"`
}

// GetDashboardStats aggregates the numbers shown on the admin dashboard.
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	var stats dashboardStats

	ac.DB.Model(&models.Booking{}).Count(&stats.TotalBookings)
	ac.DB.Model(&models.Booking{}).Where("status = ?", services.BookingStatusPending).Count(&stats.PendingBookings)
	ac.DB.Model(&models.Booking{}).Where("status = ?", services.BookingStatusConfirmed).Count(&stats.ConfirmedBookings)
	ac.DB.Model(&models.Booking{}).Where("status = ?", services.BookingStatusCancelled).Count(&stats.CancelledBookings)
	ac.DB.Model(&models.User{}).Where("role = ?", "customer").Count(&stats.TotalCustomers)
	ac.DB.Model(&models.Room{}).Count(&stats.TotalRooms)
	ac.DB.Model(&models.Payment{}).Where("status = ?", services.PaymentStatusPending).Count(&stats.PendingPayments)

	ac.DB.Model(&models.Payment{}).
		Where("status = ?", services.PaymentStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.RevenueUSD)
	ac.DB.Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating)

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats", stats)
}

type monthlyRevenue struct {
	Month   string
	Revenue float64
}

func (ac *AdminController) revenueByMonth(months int) ([]monthlyRevenue, error) {
	now := time.Now()
	out := make([]monthlyRevenue, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
			AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		var revenue float64
		err := ac.DB.Model(&models.Payment{}).
			Where("status = ? AND payment_date >= ? AND payment_date < ?",
				services.PaymentStatusSuccess, start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&revenue).Error
		if err != nil {
			return nil, err
		}
		out = append(out, monthlyRevenue{Month: start.Format("Jan 2006"), Revenue: revenue})
	}
	return out, nil
}

// GetRevenueReport streams a PDF with the last six months of settled
// revenue, including a bar chart.
func (ac *AdminController) GetRevenueReport(c *gin.Context) {
	rows, err := ac.revenueByMonth(6)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	bars := make([]chart.Value, 0, len(rows))
	var total, max float64
	for _, r := range rows {
		bars = append(bars, chart.Value{Label: r.Month, Value: r.Revenue})
		total += r.Revenue
		if r.Revenue > max {
			max = r.Revenue
		}
	}
	if max == 0 {
		// BarChart refuses an all-zero range.
		max = 1
	}

	graph := chart.BarChart{
		Title:    "Monthly Revenue (USD)",
		Height:   360,
		BarWidth: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max * 1.1},
		},
		Bars: bars,
	}

	var png bytes.Buffer
	if err := graph.Render(chart.PNG, &png); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Serenity Bay Resort", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Revenue Report", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 8, "Generated "+time.Now().Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("revenue-chart", opts, &png)
	pdf.ImageOptions("revenue-chart", 15, pdf.GetY(), 180, 0, true, opts, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 8, "Month", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, "Revenue", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, r := range rows {
		pdf.CellFormat(95, 8, r.Month, "1", 0, "L", false, 0, "")
		pdf.CellFormat(95, 8, utils.FormatUSD(r.Revenue), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(95, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(95, 8, utils.FormatUSD(total), "1", 1, "R", false, 0, "")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="revenue_report_%s.pdf"`, time.Now().Format("20060102")))
	if err := pdf.Output(c.Writer); err != nil {
		utils.ErrorLogger.Printf("Failed to write revenue report: %v", err)
	}
}
