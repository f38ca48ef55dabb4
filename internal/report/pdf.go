// Package report renders the downloadable credit assessment report.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"github.com/creditbridge/scoring-service/internal/ml"
	"github.com/creditbridge/scoring-service/internal/models"
)

type rgb struct{ r, g, b int }

var (
	brandColor   = rgb{79, 70, 229}
	headingColor = rgb{31, 41, 55}

	tierColors = map[string]rgb{
		string(ml.RiskLow):    {16, 185, 129},
		string(ml.RiskMedium): {245, 158, 11},
		string(ml.RiskHigh):   {239, 68, 68},
	}
)

// Filename builds a collision-free report file name for an assessment.
func Filename(assessmentID int64) string {
	return fmt.Sprintf("credit_report_%d_%s.pdf", assessmentID, uuid.NewString()[:8])
}

// Generate renders the full assessment report as PDF bytes.
func Generate(a *models.CreditAssessment, applicant *models.Applicant, profile *models.FinancialProfile,
	processorName string, features ml.FeatureVector, rec *ml.Recommendation) ([]byte, error) {

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Credit Assessment Report", true)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(brandColor.r, brandColor.g, brandColor.b)
	pdf.CellFormat(0, 12, "CreditBridge", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(124, 58, 237)
	pdf.CellFormat(0, 7, "Alternative Credit Risk Assessment Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Applicant block
	pdf.SetTextColor(headingColor.r, headingColor.g, headingColor.b)
	meta := [][2]string{
		{"Report ID", fmt.Sprintf("CB-%05d", a.ID)},
		{"Assessment Date", a.AssessmentDate.Format("January 2, 2006")},
		{"Applicant Name", applicant.Name},
		{"Phone", applicant.Phone},
		{"Email", orNA(applicant.Email)},
		{"PAN Card", orNA(applicant.PANCard)},
		{"Processed By", processorName},
		{"Status", a.Status},
	}
	pdf.SetFont("Helvetica", "", 9)
	for _, row := range meta {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(243, 244, 246)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	// Score summary
	tc := tierColors[a.RiskCategory]
	sectionHeading(pdf, "Credit Score Summary")
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(tc.r, tc.g, tc.b)
	pdf.CellFormat(60, 16, fmt.Sprintf("%d", a.CreditScore), "", 0, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(65, 16, a.RiskCategory, "", 0, "C", false, 0, "")
	pdf.SetTextColor(headingColor.r, headingColor.g, headingColor.b)
	pdf.CellFormat(0, 16, fmt.Sprintf("Repayment Probability: %.1f%%", a.RepaymentProbability*100), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// Indicator breakdown
	sectionHeading(pdf, "Behavioral Indicators")
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	pdf.CellFormat(70, 7, "Indicator", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "Value", "1", 0, "C", true, 0, "")
	pdf.CellFormat(0, 7, "Weight", "1", 1, "C", true, 0, "")

	labels := map[string]string{
		"ISI": "Income Stability Index",
		"ECR": "Expense Control Ratio",
		"PCS": "Payment Consistency Score",
		"DAS": "Digital Activity Score",
		"SDR": "Savings Discipline Ratio",
		"CHS": "Cashflow Health Score",
	}
	weights := ml.Weights()
	pdf.SetFont("Helvetica", "", 9)
	for i, name := range ml.FeatureNames {
		pdf.CellFormat(70, 7, fmt.Sprintf("%s (%s)", labels[name], name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.1f%%", features.Values()[i]*100), "1", 0, "C", false, 0, "")
		pdf.CellFormat(0, 7, fmt.Sprintf("%.0f%%", weights[name]*100), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	// Recommendations
	sectionHeading(pdf, "Assessment Highlights")
	bulletList(pdf, "Strengths:", rec.Positive)
	bulletList(pdf, "Areas for Improvement:", rec.Improvements)
	pdf.Ln(4)

	sectionHeading(pdf, "Indicative Loan Terms")
	terms := [][2]string{
		{"Eligible Amount", rec.LoanAmount},
		{"Interest Rate", rec.InterestRate},
		{"Tenure", rec.Tenure},
	}
	for _, row := range terms {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 7, latin(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(10)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.MultiCell(0, 4, fmt.Sprintf(
		"This report was generated on %s from alternative financial-behavior data and is advisory only. "+
			"It does not constitute a loan offer or a bureau credit report.",
		time.Now().Format("2006-01-02 15:04")), "", "L", false)

	if pdf.Err() {
		return nil, fmt.Errorf("failed to render report: %v", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(brandColor.r, brandColor.g, brandColor.b)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(headingColor.r, headingColor.g, headingColor.b)
}

func bulletList(pdf *fpdf.Fpdf, label string, items []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.CellFormat(0, 5, "  - "+latin(item), "", 1, "L", false, 0, "")
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// latin replaces characters outside the core PDF fonts' codepage.
func latin(s string) string {
	return strings.ReplaceAll(s, "₹", "Rs. ")
}
