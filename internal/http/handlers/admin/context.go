package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/laundry-pos/internal/http/handlers/shared"
	"github.com/laundry-pos/internal/http/response"
	"github.com/laundry-pos/internal/models"

	"github.com/gin-gonic/gin"
)

func parseOrderID(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || orderID == 0 {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, response.KindValidation,
			"invalid order id", gin.H{"fields": []string{"id"}}, nil)
		return 0, false
	}
	return uint(orderID), true
}

// parseDateQuery 解析可选日期参数，空值返回 nil
func parseDateQuery(c *gin.Context, keys ...string) (*models.Date, bool) {
	for _, key := range keys {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			handlershared.RespondErrorWithData(c, response.CodeBadRequest, response.KindValidation,
				"invalid date: "+key, gin.H{"fields": []string{key}}, nil)
			return nil, false
		}
		return &d, true
	}
	return nil, true
}

func parseUintQuery(c *gin.Context, key string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		handlershared.RespondErrorWithData(c, response.CodeBadRequest, response.KindValidation,
			"invalid number: "+key, gin.H{"fields": []string{key}}, nil)
		return 0, false
	}
	return uint(value), true
}

func (h *Handler) pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", c.Query("page_size")))
	return handlershared.NormalizePagination(page, limit, h.Config.Ledger.DefaultPageLimit, h.Config.Ledger.MaxPageLimit)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, response.CodeBadRequest, response.KindValidation, "invalid request body", err)
		return false
	}
	return true
}
