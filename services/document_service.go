package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
	"gorm.io/gorm"
)

const dateLayout = "02 Jan 2006"

// DocumentService renders receipt and invoice PDFs into the uploads
// directory and maintains invoice rows. Rendering happens inside the
// settlement transaction: a failure aborts the whole settlement.
type DocumentService struct {
	db        *gorm.DB
	OutputDir string
}

// NewDocumentService creates a new instance of DocumentService
func NewDocumentService(db *gorm.DB) *DocumentService {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = filepath.Join("public", "uploads")
	}
	return &DocumentService{db: db, OutputDir: dir}
}

// GenerateReceipt renders the receipt PDF for a successful payment and
// returns its public path. payment.Booking must be preloaded with Room,
// User and BookingServices.Service.
func (ds *DocumentService) GenerateReceipt(payment *models.Payment) (string, error) {
	booking := &payment.Booking

	fileName := payment.OrderInfo + "_Receipt.pdf"
	if err := os.MkdirAll(ds.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Serenity Bay Resort", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Payment Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	writeRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	writeRow("Receipt No.", payment.OrderInfo)
	writeRow("Guest", booking.User.Name)
	writeRow("Room", fmt.Sprintf("%s (%s)", booking.Room.Name, booking.Room.Type))
	writeRow("Stay", fmt.Sprintf("%s - %s",
		booking.CheckInDate.Format(dateLayout),
		booking.CheckOutDate.Format(dateLayout)))
	if payment.PaymentDate != nil {
		writeRow("Paid at", payment.PaymentDate.Format("02 Jan 2006 15:04"))
	}
	writeRow("Transaction", payment.TransactionRef)
	pdf.Ln(4)

	// Service lines: qty x days x unit price
	if len(booking.BookingServices) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(70, 7, "Service", "B", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, "Qty", "B", 0, "R", false, 0, "")
		pdf.CellFormat(20, 7, "Days", "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "Price", "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, "Subtotal", "B", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		for i := range booking.BookingServices {
			bs := &booking.BookingServices[i]
			subtotal := float64(bs.Quantity) * float64(bs.Days()) * bs.Service.Price
			pdf.CellFormat(70, 7, bs.Service.Name, "", 0, "L", false, 0, "")
			pdf.CellFormat(20, 7, strconv.Itoa(bs.Quantity), "", 0, "R", false, 0, "")
			pdf.CellFormat(20, 7, strconv.Itoa(bs.Days()), "", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", bs.Service.Price), "", 0, "R", false, 0, "")
			pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", subtotal), "", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Amount paid: %.2f USD", payment.Amount), "", 1, "R", false, 0, "")
	if vnd, ok := settledVND(payment); ok {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, "Settled: "+utils.FormatVND(vnd), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Ln(6)
	pdf.CellFormat(0, 6, "Thank you for staying with us.", "", 1, "C", false, 0, "")

	fullPath := filepath.Join(ds.OutputDir, fileName)
	if err := pdf.OutputFileAndClose(fullPath); err != nil {
		return "", fmt.Errorf("failed to render receipt: %w", err)
	}

	return "uploads/" + fileName, nil
}

// settledVND extracts the whole-dong amount the gateway settled from the
// recorded callback payload. vnp_Amount is scaled by 100.
func settledVND(payment *models.Payment) (int64, bool) {
	if payment.GatewayResponse == "" {
		return 0, false
	}
	var fields struct {
		Amount string `json:"vnp_Amount"`
	}
	if err := json.Unmarshal([]byte(payment.GatewayResponse), &fields); err != nil {
		return 0, false
	}
	scaled, err := strconv.ParseInt(fields.Amount, 10, 64)
	if err != nil {
		return 0, false
	}
	return scaled / 100, true
}

// NextInvoiceNumber derives the next zero-padded 8-digit invoice number
// from the current maximum. Callers run it inside the settlement
// transaction; the unique index on invoice_number catches a concurrent
// duplicate and fails the transaction, which the gateway retry re-runs.
func NextInvoiceNumber(tx *gorm.DB) (string, error) {
	var last models.Invoice
	err := tx.Order("invoice_number DESC").First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "00000001", nil
		}
		return "", err
	}

	n, err := strconv.Atoi(last.InvoiceNumber)
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q: %w", last.InvoiceNumber, err)
	}
	return fmt.Sprintf("%08d", n+1), nil
}

// GenerateInvoice creates the invoice row for a successful final payment
// inside tx and renders its PDF.
func (ds *DocumentService) GenerateInvoice(tx *gorm.DB, payment *models.Payment) (*models.Invoice, error) {
	booking := &payment.Booking

	number, err := NextInvoiceNumber(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive invoice number: %w", err)
	}

	// Gross = nights x room price + add-on surcharge; the payment amount is
	// the authoritative net total, the difference is the applied discount.
	subTotal := float64(booking.Nights()) * booking.Room.Price
	for i := range booking.BookingServices {
		bs := &booking.BookingServices[i]
		if bs.ComboID != nil {
			continue
		}
		subTotal += float64(bs.Quantity) * float64(bs.Days()) * bs.Service.Price
	}
	discount := subTotal - payment.Amount
	if discount < 0 {
		discount = 0
	}

	invoice := models.Invoice{
		InvoiceNumber:  number,
		BookingID:      booking.ID,
		TransactionRef: payment.TransactionRef,
		SubTotalAmount: subTotal,
		DiscountAmount: discount,
		TotalAmount:    payment.Amount,
		FilePath:       "uploads/" + number + "_Invoice.pdf",
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := ds.renderInvoicePDF(&invoice, payment); err != nil {
		return nil, err
	}

	return &invoice, nil
}

func (ds *DocumentService) renderInvoicePDF(invoice *models.Invoice, payment *models.Payment) error {
	booking := &payment.Booking

	if err := os.MkdirAll(ds.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Serenity Bay Resort", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Invoice "+invoice.InvoiceNumber, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	rows := [][2]string{
		{"Invoice date", time.Now().Format(dateLayout)},
		{"Guest", booking.User.Name},
		{"Booking", fmt.Sprintf("#%d", booking.ID)},
		{"Room", booking.Room.Name},
		{"Stay", fmt.Sprintf("%s - %s",
			booking.CheckInDate.Format(dateLayout),
			booking.CheckOutDate.Format(dateLayout))},
	}
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(120, 7, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("%.2f USD", invoice.SubTotalAmount), "T", 1, "R", false, 0, "")
	pdf.CellFormat(120, 7, "Discount", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("-%.2f USD", invoice.DiscountAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("%.2f USD", invoice.TotalAmount), "T", 1, "R", false, 0, "")

	fullPath := filepath.Join(ds.OutputDir, invoice.InvoiceNumber+"_Invoice.pdf")
	if err := pdf.OutputFileAndClose(fullPath); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}
