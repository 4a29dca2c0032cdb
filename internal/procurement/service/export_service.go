package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportService 比价表导出
type ExportService struct {
	comparisonService *ComparisonService
}

func NewExportService(comparisonService *ComparisonService) *ExportService {
	return &ExportService{comparisonService: comparisonService}
}

var comparisonExportHeaders = []string{
	"行项", "物料名称", "规格", "数量", "单位",
	"供应商", "单价", "总价", "交期(天)", "付款条件",
	"评分", "最低价", "最短交期", "优选", "中标", "中标理由",
}

// ExportComparison 导出询价单比价表为xlsx
// 每个报价一行，按行项分组，评分排序与比较视图一致
func (s *ExportService) ExportComparison(ctx context.Context, quotationID string) (*excelize.File, string, error) {
	comparison, err := s.comparisonService.BuildComparison(ctx, quotationID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "比价表"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	// 标题行: 询价单信息
	f.SetCellValue(sheet, "A1", fmt.Sprintf("%s %s", comparison.Quotation.Code, comparison.Quotation.Title))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	// 表头
	for i, h := range comparisonExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s2", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	yesNo := func(b bool) string {
		if b {
			return "是"
		}
		return ""
	}

	row := 3
	for _, ic := range comparison.Items {
		if len(ic.Proposals) == 0 {
			// 无报价行项也要出现在表里
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ic.Item.SortOrder)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ic.Item.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ic.Item.Specification)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ic.Item.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), ic.Item.Unit)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), "(无报价)")
			row++
			continue
		}

		for _, sp := range ic.Proposals {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ic.Item.SortOrder)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ic.Item.Name)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ic.Item.Specification)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ic.Item.Quantity)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), ic.Item.Unit)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), sp.SupplierName)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sp.Proposal.UnitPrice)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sp.Proposal.TotalPrice(ic.Item.Quantity))
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), sp.Proposal.LeadTimeDays)
			f.SetCellValue(sheet, fmt.Sprintf("J%d", row), sp.Proposal.PaymentTerms)
			f.SetCellValue(sheet, fmt.Sprintf("K%d", row), sp.Score)
			f.SetCellValue(sheet, fmt.Sprintf("L%d", row), yesNo(sp.IsBestPrice))
			f.SetCellValue(sheet, fmt.Sprintf("M%d", row), yesNo(sp.IsBestLeadTime))
			f.SetCellValue(sheet, fmt.Sprintf("N%d", row), yesNo(sp.IsPreferred))
			f.SetCellValue(sheet, fmt.Sprintf("O%d", row), yesNo(sp.Proposal.IsSelected))
			f.SetCellValue(sheet, fmt.Sprintf("P%d", row), sp.Proposal.Justification)
			row++
		}
	}

	// 列宽
	colWidths := []float64{6, 20, 20, 8, 6, 20, 10, 12, 10, 16, 6, 8, 8, 6, 6, 24}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("比价表_%s.xlsx", comparison.Quotation.Code)
	return f, filename, nil
}
