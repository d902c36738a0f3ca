package payperiod

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

type CsvReconciliationRendererImpl struct {
}

func NewCsvReconciliationRenderer() *CsvReconciliationRendererImpl {
	return &CsvReconciliationRendererImpl{}
}

// RenderReport renders the reconciliation report as CSV: one row per budget
// item line, then a totals row and an unallocated row.
func (t *CsvReconciliationRendererImpl) RenderReport(report ReconciliationReport) (string, error) {
	data := make([][]string, 0, len(report.Lines)+3)
	data = append(data, []string{"Item", "Expected", "Actual", "Variance", "Variance %", "Status"})

	for _, line := range report.Lines {
		data = append(data, []string{
			line.BudgetItemName,
			line.ExpectedAmount.StringFixed(2),
			amountToString(line.ActualAmount),
			line.Variance.StringFixed(2),
			line.VariancePercentage.StringFixed(2),
			string(line.Status),
		})
	}

	data = append(data, []string{
		"Net income",
		report.ExpectedNet.StringFixed(2),
		amountToString(report.ActualNet),
		report.NetVariance.StringFixed(2),
		report.NetVariancePercent.StringFixed(2),
		string(report.Status),
	})
	data = append(data, []string{"Unallocated", "", report.UnallocatedAmount.StringFixed(2), "", "", ""})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func amountToString(amount *decimal.Decimal) string {
	if amount == nil {
		return ""
	}
	return amount.StringFixed(2)
}
