package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

// DocsService menghasilkan PDF invoice booking untuk tamu.
type DocsService struct {
	Tracking  TrackingService
	RequestID string
	Now       func() time.Time
}

// GenerateInvoice renders the invoice of the guest booking that matches
// orderID and phone under the same rules as tracking.
func (s DocsService) GenerateInvoice(ctx context.Context, orderID, phone string) ([]byte, string, error) {
	s.Tracking.RequestID = s.RequestID
	b, err := s.Tracking.Track(ctx, TrackInput{OrderID: orderID, Phone: phone})
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "order_id="+b.OrderID)
	return buildInvoicePDF(b, nowOr(s.Now))
}

func buildInvoicePDF(b models.BookingWithVehicle, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+b.OrderID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "No Invoice  : INV-"+strings.TrimPrefix(b.OrderID, "ORD-"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Order ID    : "+b.OrderID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Tanggal     : "+issued.Format("2006-01-02 15:04"))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Status      : "+strings.ToUpper(string(b.Status)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Ditagihkan kepada:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Nama   : %s", safe(utils.Deref(b.GuestName), "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("No HP  : %s", safe(utils.Deref(b.GuestPhone), "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email  : %s", safe(utils.Deref(b.GuestEmail), "-")))
	pdf.Ln(10)

	vehicleName := "-"
	var rate int64
	if b.Vehicle != nil {
		vehicleName = strings.TrimSpace(b.Vehicle.Name + " " + b.Vehicle.Brand + " " + b.Vehicle.Model)
		rate = b.Vehicle.PricePerDay
	}
	if rate == 0 && b.TotalDays > 0 {
		rate = b.TotalPrice / int64(b.TotalDays)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Rincian:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, fmt.Sprintf("Sewa %s, %s s/d %s (%d hari)", vehicleName, b.StartDate, b.EndDate, b.TotalDays), "", "", false)
	pdf.Ln(2)
	pdf.Cell(0, 6, fmt.Sprintf("Harga per hari : %s x %d", utils.FormatRupiah(rate), b.TotalDays))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Subtotal       : "+utils.FormatRupiah(b.TotalPrice))
	pdf.Ln(6)
	if b.DiscountAmount > 0 {
		pdf.Cell(0, 6, fmt.Sprintf("Diskon (%s) : -%s", safe(utils.Deref(b.PromoCode), "promo"), utils.FormatRupiah(b.DiscountAmount)))
		pdf.Ln(6)
	}
	if loc := utils.Deref(b.PickupLocation); loc != "" {
		pdf.Cell(0, 6, "Lokasi ambil   : "+loc)
		pdf.Ln(6)
	}
	if loc := utils.Deref(b.DeliveryLocation); loc != "" {
		pdf.Cell(0, 6, "Lokasi antar   : "+loc)
		pdf.Ln(6)
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupiah(b.FinalPrice))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("INVOICE_%s.pdf", safeFilenamePart(b.OrderID))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
