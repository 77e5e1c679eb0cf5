package billing

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

type InvoiceRenderer struct {
	clinic   string
	currency string
}

func NewInvoiceRenderer(clinic, currency string) *InvoiceRenderer {
	return &InvoiceRenderer{clinic: clinic, currency: currency}
}

func (r *InvoiceRenderer) Render(rec Record, specialty string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle("Invoice "+rec.AppointmentID, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, r.clinic, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 12)
	title := "Consultation Invoice"
	if rec.Status == StatusRefunded {
		title = "Consultation Invoice (Refunded)"
	}
	pdf.CellFormat(0, 10, title, "1", 1, "C", false, 0, "")
	pdf.Ln(4)

	addRow(pdf, "Invoice No.", rec.AppointmentID)
	addRow(pdf, "Patient", rec.PatientName)
	addRow(pdf, "Email", rec.Email)
	addRow(pdf, "Doctor", rec.DoctorName)
	if specialty != "" {
		addRow(pdf, "Specialty", specialty)
	}
	addRow(pdf, "Date", rec.Date+" "+rec.Time)
	addRow(pdf, "Payment method", rec.PaymentMethod)
	if rec.Reference != "" {
		addRow(pdf, "Reference", rec.Reference)
	}
	addRow(pdf, "Status", rec.Status)
	if rec.RefundDate != nil {
		addRow(pdf, "Refunded on", rec.RefundDate.Format("2006-01-02"))
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(45, 10, "Total", "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("%s %.2f", r.currency, rec.Amount), "1", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetY(pdf.GetY() + 12)
	pdf.CellFormat(0, 10, "This is a computer generated invoice", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func addRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}
