package service

import (
	"context"
	"errors"
	"testing"

	"github.com/laundry-pos/internal/models"
)

func TestAggregateItems(t *testing.T) {
	orders := []models.Order{
		{ItemList: models.ItemList{
			{Name: "Shirt", Type: "wash", Quantity: 3},
			{Name: "shirt", Type: "Wash", Quantity: 1},
			{Name: "Suit", Type: "dry_clean", Quantity: 1},
		}},
		{ItemList: models.ItemList{
			{Name: "Suit", Type: "dry_clean", Quantity: 1},
			{Name: " ", Quantity: 9},
		}},
		{ItemList: nil},
	}
	got := aggregateItems(orders)
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %+v", got)
	}
	if got[0].Name != "Shirt" || got[0].Quantity != 4 || got[0].Orders != 1 {
		t.Fatalf("unexpected shirt summary: %+v", got[0])
	}
	if got[1].Name != "Suit" || got[1].Quantity != 2 || got[1].Orders != 2 {
		t.Fatalf("unexpected suit summary: %+v", got[1])
	}
}

func TestReportRangeValidation(t *testing.T) {
	f := setupLedgerTest(t)
	ctx := context.Background()

	var verr *ValidationError
	_, err := f.reports.DailySummary(ctx, ReportRangeInput{To: *date("2026-10-19")})
	if !errors.As(err, &verr) || verr.Fields[0] != "startDate" {
		t.Fatalf("expected startDate validation error, got %v", err)
	}
	_, err = f.reports.ItemBreakdown(ctx, ReportRangeInput{From: *date("2026-10-20"), To: *date("2026-10-19")})
	if !errors.As(err, &verr) || verr.Fields[0] != "endDate" {
		t.Fatalf("expected endDate validation error, got %v", err)
	}
	_, _, err = f.reports.PaymentReport(ctx, 1, 10, date("2026-10-20"), date("2026-10-19"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for reversed payment range, got %v", err)
	}
}

func TestDailySummaryExcludesCancelledOrders(t *testing.T) {
	f := setupLedgerTest(t)
	ctx := context.Background()

	first := newCreateInput("100")
	first.PaidAmount = money("100")
	mustCreate(t, f, first)

	second := newCreateInput("40")
	second.PaidAmount = money("10")
	mustCreate(t, f, second)

	cancelled := newCreateInput("70")
	cancelled.PaidAmount = money("5")
	c := mustCreate(t, f, cancelled)
	if _, err := f.orders.CancelOrder(ctx, c.OrderID, "admin"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	outside := newCreateInput("500")
	outside.OrderDate = date("2026-09-01")
	mustCreate(t, f, outside)

	summary, err := f.reports.DailySummary(ctx, ReportRangeInput{From: *date("2026-10-01"), To: *date("2026-10-31"), ForceRefresh: true})
	if err != nil {
		t.Fatalf("daily summary failed: %v", err)
	}
	if summary.Orders != 2 || summary.CancelledOrders != 1 {
		t.Fatalf("unexpected order counts: %+v", summary)
	}
	if summary.TotalSales.String() != "140.00" || summary.TotalPaid.String() != "110.00" || summary.TotalOutstanding.String() != "30.00" {
		t.Fatalf("unexpected totals: sales=%s paid=%s outstanding=%s",
			summary.TotalSales.String(), summary.TotalPaid.String(), summary.TotalOutstanding.String())
	}
}

func TestPaymentReportListsSuccessfulPayments(t *testing.T) {
	f := setupLedgerTest(t)
	ctx := context.Background()

	input := newCreateInput("90")
	input.PaidAmount = money("30")
	input.PaymentMethod = "cash"
	input.Remark = "fold only"
	created := mustCreate(t, f, input)
	if _, err := f.orders.AddPayment(ctx, AddPaymentInput{OrderID: created.OrderID, Amount: money("20"), PaymentMethod: "upi", Note: "second visit"}); err != nil {
		t.Fatalf("add payment failed: %v", err)
	}

	items, total, err := f.reports.PaymentReport(ctx, 1, 10, nil, nil)
	if err != nil {
		t.Fatalf("payment report failed: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 payments, got %d", total)
	}
	latest := items[0]
	if latest.SrNo != 1 || latest.PaymentMethod != "upi" || latest.Note != "second visit" || latest.Amount.String() != "20.00" {
		t.Fatalf("unexpected latest row: %+v", latest)
	}
	if items[1].Note != "fold only" || items[1].OrderCode != "TMS/ORD-001" || items[1].CustomerName != "Aisha" {
		t.Fatalf("first payment should fall back to order remark: %+v", items[1])
	}
}

func TestItemBreakdownSkipsCancelledOrders(t *testing.T) {
	f := setupLedgerTest(t)
	ctx := context.Background()
	mustCreate(t, f, newCreateInput("10"))
	c := mustCreate(t, f, newCreateInput("10"))
	if _, err := f.orders.CancelOrder(ctx, c.OrderID, ""); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	items, err := f.reports.ItemBreakdown(ctx, ReportRangeInput{From: *date("2026-10-19"), To: *date("2026-10-19")})
	if err != nil {
		t.Fatalf("item breakdown failed: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Shirt" || items[0].Quantity != 3 || items[0].Orders != 1 {
		t.Fatalf("unexpected breakdown: %+v", items)
	}
}
