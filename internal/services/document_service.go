package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"servicehub/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

const documentURLExpiry = 24 * time.Hour

// DocumentService renders invoice PDFs and stores them for download.
type DocumentService interface {
	// GenerateInvoicePDF renders the invoice, uploads it and returns a
	// presigned download URL.
	GenerateInvoicePDF(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) (string, error)
}

type documentService struct {
	storage StorageService
	bucket  string
}

func NewDocumentService(storage StorageService, bucket string) DocumentService {
	return &documentService{storage: storage, bucket: bucket}
}

func (s *documentService) GenerateInvoicePDF(ctx context.Context, invoice *models.Invoice, items []*models.InvoiceItem) (string, error) {
	data, err := renderInvoicePDF(invoice, items)
	if err != nil {
		return "", fmt.Errorf("render invoice pdf: %w", err)
	}

	objectName := invoiceObjectName(invoice.ID)
	if err := s.storage.UploadDocument(ctx, s.bucket, objectName, data, "application/pdf"); err != nil {
		return "", fmt.Errorf("upload invoice pdf: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectName, documentURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign invoice pdf: %w", err)
	}
	return url, nil
}

func invoiceObjectName(invoiceID uuid.UUID) string {
	return fmt.Sprintf("invoices/%s.pdf", invoiceID)
}

func renderInvoicePDF(invoice *models.Invoice, items []*models.InvoiceItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)

	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Issue Date: %s", invoice.IssueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Due Date: %s", invoice.DueDate.Format("02-Jan-2006")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, invoice.ClientName)
	pdf.Ln(6)
	if invoice.ClientEmail != "" {
		pdf.Cell(0, 6, invoice.ClientEmail)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Qty", "Unit Price", "Total"}
	colWidths := []float64{80, 20, 35, 35}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range items {
		pdf.CellFormat(colWidths[0], 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, item.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.Total.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(5)

	summaryX := marginX + colWidths[0] + colWidths[1]
	summary := []struct {
		label string
		value string
	}{
		{"Subtotal", invoice.Subtotal.StringFixed(2)},
		{fmt.Sprintf("Tax (%s%%)", invoice.TaxRate.StringFixed(2)), invoice.TaxAmount.StringFixed(2)},
		{"Total", invoice.TotalAmount.StringFixed(2)},
		{"Amount Paid", invoice.AmountPaid.StringFixed(2)},
		{"Balance Due", invoice.Balance().StringFixed(2)},
	}
	for _, line := range summary {
		pdf.SetX(summaryX)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(colWidths[2], 8, line.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(colWidths[3], 8, line.value, "", 0, "R", false, 0, "")
		pdf.Ln(8)
	}

	if invoice.Notes != "" {
		pdf.Ln(5)
		pdf.SetFont("Arial", "I", 9)
		pdf.MultiCell(0, 5, "Notes: "+invoice.Notes, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
