package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/utils"
	"timeclock.app/timeclock/web/common"
	"timeclock.app/timeclock/web/middlewares"
)

type AttendanceEndpoint struct {
	ledger *core.Ledger
	log    *zap.Logger
}

func RegisterAttendance(r *gin.RouterGroup, ledger *core.Ledger, log *zap.Logger) {
	ep := &AttendanceEndpoint{ledger: ledger, log: log}

	r.GET("/all", middlewares.RequireAdmin(), ep.All)
	r.GET("/summary", ep.Summary)
	r.GET("/summary/export", middlewares.RequireAdmin(), ep.ExportSummary)
	r.GET("/current", ep.Current)

	r.POST("/start", ep.Start)
	r.POST("/end", ep.End)
	r.PUT("/edit/:id", middlewares.RequireAdmin(), ep.Edit)
	r.DELETE("/delete/:id", middlewares.RequireAdmin(), ep.Delete)
}

// respondLedgerError maps the ledger's typed failures onto HTTP
// statuses. Conflicting open/close attempts are client errors, a
// concurrent write collision is a 409, store trouble a 500.
func respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrAlreadyOpen),
		errors.Is(err, core.ErrNoOpenShift),
		errors.Is(err, core.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
	case errors.Is(err, core.ErrWriteInProgress):
		c.JSON(http.StatusConflict, common.NewErrorResponse("Shift action already in progress. Please wait..."))
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Record not found"))
	default:
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
	}
}

func (ep *AttendanceEndpoint) Start(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("User not authenticated"))
		return
	}

	record, err := ep.ledger.OpenShift(c.Request.Context(), user)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewMessageResponse("Shift started", record))
}

func (ep *AttendanceEndpoint) End(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("User not authenticated"))
		return
	}

	record, err := ep.ledger.CloseShift(c.Request.Context(), user)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewMessageResponse("Shift ended", record))
}

func (ep *AttendanceEndpoint) Current(c *gin.Context) {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("User not authenticated"))
		return
	}

	status, err := ep.ledger.CurrentStatus(user.ID)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	switch {
	case !status.HasRecords:
		c.JSON(http.StatusOK, gin.H{"message": "No attendance records found, please start your shift."})
	case status.Active:
		c.JSON(http.StatusOK, gin.H{"message": "Active shift found", "shift": status.Shift})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "No active shift found.", "lastShift": status.LastShift})
	}
}

func (ep *AttendanceEndpoint) All(c *gin.Context) {
	events, err := ep.ledger.AllEvents()
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// summarize parses the shared from/to/userId query parameters of the
// summary and export endpoints and runs the aggregation.
func (ep *AttendanceEndpoint) summarize(c *gin.Context) ([]core.UserSummary, string, bool) {
	from := c.Query("from")
	to := c.Query("to")
	userID := c.Query("userId")

	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("From and To dates are required."))
		return nil, "", false
	}

	fromTime, err := utils.ParseISOTime(from)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid from date."))
		return nil, "", false
	}
	toTime, err := utils.ParseISOTime(to)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid to date."))
		return nil, "", false
	}

	events, err := ep.ledger.AllEvents()
	if err != nil {
		respondLedgerError(c, err)
		return nil, "", false
	}

	return core.Summarize(events, *fromTime, *toTime, userID, ep.log), userID, true
}

func (ep *AttendanceEndpoint) Summary(c *gin.Context) {
	summaries, userID, ok := ep.summarize(c)
	if !ok {
		return
	}

	// A requested user gets their summary alone; otherwise one entry
	// per user seen in range.
	if userID != "" {
		c.JSON(http.StatusOK, summaries[0])
		return
	}
	c.JSON(http.StatusOK, summaries)
}

type editRequest struct {
	Type      core.EventKind `json:"type" binding:"required"`
	Timestamp string         `json:"timestamp" binding:"required"`
}

func (ep *AttendanceEndpoint) Edit(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Missing fields: type and timestamp are required"))
		return
	}

	record, err := ep.ledger.EditEvent(c.Param("id"), req.Type, req.Timestamp)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewMessageResponse("Record updated successfully", record))
}

func (ep *AttendanceEndpoint) Delete(c *gin.Context) {
	record, err := ep.ledger.DeleteEvent(c.Param("id"))
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewMessageResponse("Shift deleted successfully", record))
}
