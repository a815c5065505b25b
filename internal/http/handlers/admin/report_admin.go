package admin

import (
	"strings"

	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentReport 成功收款明细
func (h *Handler) PaymentReport(c *gin.Context) {
	page, limit := h.pagination(c)
	from, ok := parseDateQuery(c, "startDate", "from")
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "endDate", "to")
	if !ok {
		return
	}
	items, total, err := h.ReportService.PaymentReport(c.Request.Context(), page, limit, from, to)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to build payment report")
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, limit, total))
}

// DailySummary 区间汇总
func (h *Handler) DailySummary(c *gin.Context) {
	input, ok := parseReportRange(c)
	if !ok {
		return
	}
	summary, err := h.ReportService.DailySummary(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to build daily summary")
		return
	}
	response.Success(c, summary)
}

// ItemBreakdown 洗涤项件数统计
func (h *Handler) ItemBreakdown(c *gin.Context) {
	input, ok := parseReportRange(c)
	if !ok {
		return
	}
	items, err := h.ReportService.ItemBreakdown(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, orderCommonErrorRules, "failed to build item breakdown")
		return
	}
	response.Success(c, items)
}

func parseReportRange(c *gin.Context) (service.ReportRangeInput, bool) {
	var input service.ReportRangeInput
	from, ok := parseDateQuery(c, "startDate", "from")
	if !ok {
		return input, false
	}
	to, ok := parseDateQuery(c, "endDate", "to")
	if !ok {
		return input, false
	}
	input.From = derefDate(from)
	input.To = derefDate(to)
	refresh := strings.ToLower(strings.TrimSpace(c.Query("refresh")))
	input.ForceRefresh = refresh == "1" || refresh == "true"
	return input, true
}

func derefDate(d *models.Date) models.Date {
	if d == nil {
		return models.Date{}
	}
	return *d
}
