package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ChesterZhangz/questionbank-sub004/question"
)

// QuestionsXLSX renders questions as an XLSX workbook, one row per
// question with sub-questions flattened into a single cell.
func QuestionsXLSX(questions []question.Question) ([]byte, error) {
	f := excelize.NewFile()
	const sheet = "Questions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"ID",
		"Type",
		"Stem",
		"Options",
		"Answer",
		"Analysis",
		"Sub-Questions",
		"Difficulty",
		"Category",
		"Tags",
		"Source",
		"Confidence",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, q := range questions {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, q.ID)
		write(2, string(q.Type))
		write(3, q.Stem)
		write(4, joinOptions(q.Options))
		write(5, q.Answer)
		write(6, truncate(q.Analysis, 200))
		write(7, joinSubQuestions(q.SubQuestions))
		write(8, q.Difficulty)
		write(9, q.Category)
		write(10, strings.Join(q.Tags, ", "))
		write(11, q.Source)
		write(12, q.Confidence)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // id
	_ = f.SetColWidth(sheet, "B", "B", 10) // type
	_ = f.SetColWidth(sheet, "C", "C", 60) // stem
	_ = f.SetColWidth(sheet, "D", "D", 40) // options
	_ = f.SetColWidth(sheet, "E", "F", 30) // answer, analysis
	_ = f.SetColWidth(sheet, "G", "G", 40) // sub-questions
	_ = f.SetColWidth(sheet, "K", "K", 20) // source

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func joinOptions(opts []question.Option) string {
	if len(opts) == 0 {
		return ""
	}
	parts := make([]string, 0, len(opts))
	for i, o := range opts {
		label := string(rune('A' + i))
		if o.Correct {
			label += "*"
		}
		parts = append(parts, fmt.Sprintf("%s. %s", label, o.Text))
	}
	return strings.Join(parts, "\n")
}

func joinSubQuestions(subs []question.SubQuestion) string {
	if len(subs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(subs))
	for _, s := range subs {
		line := fmt.Sprintf("(%d) %s", s.Order, s.Content)
		if s.Answer != "" {
			line += " (" + s.Answer + ")"
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, "\n")
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
