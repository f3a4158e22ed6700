package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"timeclock.app/timeclock/web/common"
)

const summarySheet = "Summary"

// ExportSummary renders the same aggregation as Summary into an XLSX
// workbook for download: one row per completed shift, a totals row per
// user.
func (ep *AttendanceEndpoint) ExportSummary(c *gin.Context) {
	summaries, _, ok := ep.summarize(c)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", summarySheet)

	headers := []string{"User ID", "Username", "Date", "Clock In", "Clock Out", "Hours"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(summarySheet, cell, h)
	}

	row := 2
	for _, summary := range summaries {
		for _, shift := range summary.Shifts {
			values := []interface{}{
				summary.UserID,
				shift.User.Username,
				shift.Date,
				shift.Timestamp,
				shift.EndTime,
				shift.Hours,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(summarySheet, cell, v)
			}
			row++
		}

		totalCell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellValue(summarySheet, totalCell,
			fmt.Sprintf("Total for %s: %dh %dm", summary.UserID, summary.TotalHours, summary.TotalMinutes))
		row += 2
	}

	c.Header("Content-Disposition", `attachment; filename="attendance-summary.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
	}
}
