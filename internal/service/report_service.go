package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/laundry-pos/internal/cache"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/repository"

	"github.com/jinzhu/copier"
)

const reportCacheTTL = 60 * time.Second

// ReportRangeInput 区间报表查询参数
type ReportRangeInput struct {
	From         models.Date
	To           models.Date
	ForceRefresh bool
}

// ReportService 只读报表投影，导出渲染由外部完成
type ReportService struct {
	reportRepo repository.ReportRepository
	orderRepo  repository.OrderRepository
}

// NewReportService 创建报表服务
func NewReportService(reportRepo repository.ReportRepository, orderRepo repository.OrderRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, orderRepo: orderRepo}
}

// PaymentReportItem 收款报表行
type PaymentReportItem struct {
	SrNo          int          `json:"sr_no"`
	PaymentID     uint         `json:"payment_id"`
	PaidAt        time.Time    `json:"date"`
	OrderID       uint         `json:"order_id"`
	OrderCode     string       `json:"order_code"`
	CustomerName  string       `json:"customer"`
	DriverName    string       `json:"driver"`
	Amount        models.Money `json:"amount"`
	PaymentMethod string       `json:"payment_type"`
	PaymentStage  string       `json:"payment_stage"`
	Note          string       `json:"note"`
}

// DailySummary 区间汇总
type DailySummary struct {
	From             string       `json:"from"`
	To               string       `json:"to"`
	Orders           int64        `json:"orders"`
	DeliveredOrders  int64        `json:"delivered_orders"`
	CancelledOrders  int64        `json:"cancelled_orders"`
	TotalSales       models.Money `json:"total_sales"`
	TotalPaid        models.Money `json:"total_paid"`
	TotalOutstanding models.Money `json:"total_outstanding"`
}

// ItemSummary 按洗涤项聚合的件数
type ItemSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Orders   int    `json:"orders"`
}

// PaymentReport 成功收款明细，最新在前
func (s *ReportService) PaymentReport(ctx context.Context, page, pageSize int, from, to *models.Date) ([]PaymentReportItem, int64, error) {
	if err := validateRange(from, to); err != nil {
		return nil, 0, err
	}
	rows, total, err := s.reportRepo.WithContext(ctx).ListSuccessfulPayments(repository.PaymentReportFilter{
		Page:     page,
		PageSize: pageSize,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, 0, wrapStore("payment report", err)
	}
	items := make([]PaymentReportItem, 0, len(rows))
	if err := copier.Copy(&items, &rows); err != nil {
		return nil, 0, err
	}
	offset := 0
	if page > 1 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}
	for i := range items {
		items[i].SrNo = offset + i + 1
	}
	return items, total, nil
}

// DailySummary 按 order_date 区间汇总订单、销售额与应收余额，结果短暂缓存
func (s *ReportService) DailySummary(ctx context.Context, input ReportRangeInput) (*DailySummary, error) {
	if err := requireRange(input.From, input.To); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("report:daily:%s:%s", input.From.String(), input.To.String())
	if !input.ForceRefresh {
		var cached DailySummary
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	row, err := s.reportRepo.WithContext(ctx).GetDailySummary(repository.DateRange{From: input.From, To: input.To})
	if err != nil {
		return nil, wrapStore("daily summary", err)
	}
	summary := &DailySummary{
		From:             input.From.String(),
		To:               input.To.String(),
		Orders:           row.Orders,
		DeliveredOrders:  row.DeliveredOrders,
		CancelledOrders:  row.CancelledOrders,
		TotalSales:       row.TotalSales,
		TotalPaid:        row.TotalPaid,
		TotalOutstanding: row.TotalSales.Sub(row.TotalPaid),
	}
	_ = cache.SetJSON(ctx, cacheKey, summary, reportCacheTTL)
	return summary, nil
}

// ItemBreakdown 汇总区间内未取消订单的洗涤项件数，按件数倒序
func (s *ReportService) ItemBreakdown(ctx context.Context, input ReportRangeInput) ([]ItemSummary, error) {
	if err := requireRange(input.From, input.To); err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("report:items:%s:%s", input.From.String(), input.To.String())
	if !input.ForceRefresh {
		var cached []ItemSummary
		if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	orders, err := s.orderRepo.WithContext(ctx).ListItemsByDateRange(repository.DateRange{From: input.From, To: input.To})
	if err != nil {
		return nil, wrapStore("item breakdown", err)
	}
	items := aggregateItems(orders)
	_ = cache.SetJSON(ctx, cacheKey, items, reportCacheTTL)
	return items, nil
}

func aggregateItems(orders []models.Order) []ItemSummary {
	type key struct{ name, typ string }
	index := make(map[key]*ItemSummary)
	for _, order := range orders {
		seen := make(map[key]bool)
		for _, item := range order.ItemList {
			name := strings.TrimSpace(item.Name)
			if name == "" {
				continue
			}
			k := key{strings.ToLower(name), strings.ToLower(strings.TrimSpace(item.Type))}
			summary, ok := index[k]
			if !ok {
				summary = &ItemSummary{Name: name, Type: strings.TrimSpace(item.Type)}
				index[k] = summary
			}
			summary.Quantity += item.Quantity
			if !seen[k] {
				summary.Orders++
				seen[k] = true
			}
		}
	}
	result := make([]ItemSummary, 0, len(index))
	for _, summary := range index {
		result = append(result, *summary)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Type < result[j].Type
	})
	return result
}

func requireRange(from, to models.Date) error {
	var missing []string
	if from.IsZero() {
		missing = append(missing, "startDate")
	}
	if to.IsZero() {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return newValidationError(missing...)
	}
	return validateRange(&from, &to)
}

func validateRange(from, to *models.Date) error {
	if from != nil && to != nil && !from.IsZero() && !to.IsZero() && to.Before(from.Time) {
		return newValidationError("endDate")
	}
	return nil
}
