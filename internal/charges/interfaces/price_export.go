package interfaces

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	charges "charges-hub/internal/charges/domain"
)

// BuildPriceReportPDF renders a price report for one charge.
func BuildPriceReportPDF(charge *charges.Charge, points []charges.ChargePoint) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Charge Price Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Charge: %s", charge.Identity.SenderProvidedChargeID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Owner: %s", charge.Identity.OwnerID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Type: %s", charge.Identity.Type))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Resolution: %s", charge.Resolution))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("VAT: %s", charge.VatClassification))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Valid: %s - %s",
		charge.StartDateTime.Format(time.RFC3339), charge.EndDateTime.Format(time.RFC3339)))
	pdf.Ln(8)

	// Price table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(70, 6, "Time", "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Price", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, point := range points {
		pdf.CellFormat(70, 6, point.Time.Format(time.RFC3339), "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, point.Price.String(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildPriceReportXLSX renders a price report workbook for one charge.
func BuildPriceReportXLSX(charge *charges.Charge, points []charges.ChargePoint) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	pricesSheet := "prices"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(pricesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Charge Price Report")
	_ = f.SetCellValue(summarySheet, "A3", "Charge")
	_ = f.SetCellValue(summarySheet, "B3", charge.Identity.SenderProvidedChargeID)
	_ = f.SetCellValue(summarySheet, "A4", "Owner")
	_ = f.SetCellValue(summarySheet, "B4", charge.Identity.OwnerID)
	_ = f.SetCellValue(summarySheet, "A5", "Type")
	_ = f.SetCellValue(summarySheet, "B5", string(charge.Identity.Type))
	_ = f.SetCellValue(summarySheet, "A6", "Resolution")
	_ = f.SetCellValue(summarySheet, "B6", string(charge.Resolution))
	_ = f.SetCellValue(summarySheet, "A7", "VAT")
	_ = f.SetCellValue(summarySheet, "B7", string(charge.VatClassification))
	_ = f.SetCellValue(summarySheet, "A8", "Valid From")
	_ = f.SetCellValue(summarySheet, "B8", charge.StartDateTime.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A9", "Valid To")
	_ = f.SetCellValue(summarySheet, "B9", charge.EndDateTime.Format(time.RFC3339))
	_ = f.SetCellValue(summarySheet, "A10", "Points")
	_ = f.SetCellValue(summarySheet, "B10", len(points))

	_ = f.SetCellValue(pricesSheet, "A1", "Time")
	_ = f.SetCellValue(pricesSheet, "B1", "Price")
	for i, point := range points {
		row := i + 2
		_ = f.SetCellValue(pricesSheet, fmt.Sprintf("A%d", row), point.Time.Format(time.RFC3339))
		_ = f.SetCellValue(pricesSheet, fmt.Sprintf("B%d", row), point.Price.String())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
