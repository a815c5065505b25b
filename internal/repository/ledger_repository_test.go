package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupLedgerRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ledger_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedLedgerOrder(t *testing.T, db *gorm.DB, code, customer, status, gross string, day models.Date) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderCode:    code,
		OrderDate:    day,
		DeliveryDate: day,
		CustomerID:   1,
		CustomerName: customer,
		DriverID:     2,
		DriverName:   "Ravi",
		SubTotal:     models.MustMoney(gross),
		Discount:     models.ZeroMoney(),
		Tax:          models.ZeroMoney(),
		GrossTotal:   models.MustMoney(gross),
		ItemList:     models.ItemList{{Name: "Shirt", Quantity: 1}},
		Status:       status,
		CreatedBy:    "tester",
	}
	if err := NewOrderRepository(db).Create(order); err != nil {
		t.Fatalf("create order %s failed: %v", code, err)
	}
	return order
}

func seedLedgerPayment(t *testing.T, db *gorm.DB, orderID uint, amount, status string) {
	t.Helper()
	payment := &models.Payment{
		OrderID:       orderID,
		Amount:        models.MustMoney(amount),
		PaymentMethod: "cash",
		PaymentStage:  constants.PaymentStagePartial,
		PaymentStatus: status,
	}
	if err := NewPaymentRepository(db).Create(payment); err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
}

func TestPaymentRepositorySumsOnlySuccessfulPayments(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	day := models.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	first := seedLedgerOrder(t, db, "TMS/ORD-001", "Aisha", constants.OrderStatusReceived, "100", day)
	second := seedLedgerOrder(t, db, "TMS/ORD-002", "Omar", constants.OrderStatusReceived, "50", day)

	seedLedgerPayment(t, db, first.ID, "20.25", constants.PaymentStatusSuccess)
	seedLedgerPayment(t, db, first.ID, "10", constants.PaymentStatusSuccess)
	seedLedgerPayment(t, db, first.ID, "40", constants.PaymentStatusPending)
	seedLedgerPayment(t, db, first.ID, "5", constants.PaymentStatusFailed)

	repo := NewPaymentRepository(db)
	total, err := repo.SumSuccessful(first.ID)
	if err != nil {
		t.Fatalf("sum successful failed: %v", err)
	}
	if total.String() != "30.25" {
		t.Fatalf("sum want 30.25 got %s", total.String())
	}

	empty, err := repo.SumSuccessful(second.ID)
	if err != nil {
		t.Fatalf("sum without payments failed: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("order without payments should sum to zero, got %s", empty.String())
	}

	sums, err := repo.SumSuccessfulByOrderIDs([]uint{first.ID, second.ID})
	if err != nil {
		t.Fatalf("sum by order ids failed: %v", err)
	}
	if got := sums[first.ID]; got.String() != "30.25" {
		t.Fatalf("grouped sum want 30.25 got %s", got.String())
	}
	if _, ok := sums[second.ID]; ok {
		t.Fatalf("order without payments should be absent from grouped sums")
	}

	count, err := repo.CountByOrder(first.ID)
	if err != nil || count != 4 {
		t.Fatalf("count by order want 4 got %d (%v)", count, err)
	}
}

func TestOrderRepositoryListFilters(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	oct19 := models.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	oct20 := models.NewDate(time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC))
	seedLedgerOrder(t, db, "TMS/ORD-001", "Aisha Khan", constants.OrderStatusReceived, "10", oct19)
	seedLedgerOrder(t, db, "TMS/ORD-002", "Omar", constants.OrderStatusCancelled, "10", oct19)
	seedLedgerOrder(t, db, "TMS/ORD-003", "aisha b", constants.OrderStatusProcessing, "10", oct20)

	repo := NewOrderRepository(db)
	rows, total, err := repo.List(OrderListFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(rows) != 2 || rows[0].OrderCode != "TMS/ORD-003" {
		t.Fatalf("unexpected first page: total=%d len=%d", total, len(rows))
	}

	_, total, err = repo.List(OrderListFilter{Keyword: "aisha"})
	if err != nil || total != 2 {
		t.Fatalf("keyword should match case-insensitively on sqlite, got %d (%v)", total, err)
	}
	_, total, _ = repo.List(OrderListFilter{Status: constants.OrderStatusCancelled})
	if total != 1 {
		t.Fatalf("status filter want 1 got %d", total)
	}
	_, total, _ = repo.List(OrderListFilter{DateFrom: &oct20, DateTo: &oct20})
	if total != 1 {
		t.Fatalf("date filter want 1 got %d", total)
	}

	latest, err := repo.GetLatest()
	if err != nil || latest == nil || latest.OrderCode != "TMS/ORD-003" {
		t.Fatalf("latest order want TMS/ORD-003, got %+v (%v)", latest, err)
	}
	missing, err := repo.GetByID(999)
	if err != nil || missing != nil {
		t.Fatalf("missing order should return nil,nil got %+v %v", missing, err)
	}
}

func TestOrderRepositoryDuplicateCodeIsUniqueViolation(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	day := models.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	seedLedgerOrder(t, db, "TMS/ORD-001", "Aisha", constants.OrderStatusReceived, "10", day)

	dup := &models.Order{
		OrderCode:    "TMS/ORD-001",
		OrderDate:    day,
		DeliveryDate: day,
		CustomerID:   1,
		CustomerName: "Omar",
		DriverID:     2,
		DriverName:   "Ravi",
		GrossTotal:   models.MustMoney("5"),
		ItemList:     models.ItemList{},
		Status:       constants.OrderStatusReceived,
		CreatedBy:    "tester",
	}
	err := NewOrderRepository(db).Create(dup)
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate order code should be a unique violation, got %v", err)
	}
}

func TestOrderSequenceRepository(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewOrderSequenceRepository(db)

	seq, err := repo.Get("TMS/ORD")
	if err != nil || seq != nil {
		t.Fatalf("missing sequence should return nil,nil got %+v %v", seq, err)
	}
	if err := repo.InsertIfAbsent("TMS/ORD", 5); err != nil {
		t.Fatalf("insert sequence failed: %v", err)
	}
	if err := repo.InsertIfAbsent("TMS/ORD", 0); err != nil {
		t.Fatalf("second insert should be ignored, got %v", err)
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		locked, err := txRepo.GetForUpdate("TMS/ORD")
		if err != nil {
			return err
		}
		if locked == nil || locked.LastValue != 5 {
			return fmt.Errorf("unexpected locked sequence: %+v", locked)
		}
		return txRepo.UpdateValue("TMS/ORD", locked.LastValue+1)
	})
	if err != nil {
		t.Fatalf("sequence transaction failed: %v", err)
	}
	seq, err = repo.Get("TMS/ORD")
	if err != nil || seq == nil || seq.LastValue != 6 {
		t.Fatalf("sequence want 6 got %+v (%v)", seq, err)
	}
}

func TestOrderEventRepositoryRecordIsIdempotent(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	repo := NewOrderEventRepository(db).WithContext(context.Background())
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		created, err := repo.Record(&models.OrderEvent{
			EventID:    "evt-1",
			OrderID:    9,
			EventType:  "order_created",
			OccurredAt: at,
		})
		if err != nil {
			t.Fatalf("record attempt %d failed: %v", i+1, err)
		}
		if created != (i == 0) {
			t.Fatalf("attempt %d created=%v", i+1, created)
		}
	}
	if _, err := repo.Record(&models.OrderEvent{
		EventID:    "evt-0",
		OrderID:    9,
		EventType:  "status_changed",
		OccurredAt: at.Add(-time.Minute),
	}); err != nil {
		t.Fatalf("record earlier event failed: %v", err)
	}

	events, total, err := repo.ListByOrder(9, 1, 10)
	if err != nil {
		t.Fatalf("list events failed: %v", err)
	}
	if total != 2 || events[0].EventID != "evt-0" {
		t.Fatalf("events should be ordered by occurrence, got total=%d first=%s", total, events[0].EventID)
	}
}

func TestReportRepositoryDailySummaryAndPayments(t *testing.T) {
	db := setupLedgerRepositoryTest(t)
	oct19 := models.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	oct25 := models.NewDate(time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC))
	delivered := seedLedgerOrder(t, db, "TMS/ORD-001", "Aisha", constants.OrderStatusDelivered, "100", oct19)
	cancelled := seedLedgerOrder(t, db, "TMS/ORD-002", "Omar", constants.OrderStatusCancelled, "70", oct19)
	outside := seedLedgerOrder(t, db, "TMS/ORD-003", "Mei", constants.OrderStatusReceived, "30", oct25)
	seedLedgerPayment(t, db, delivered.ID, "100", constants.PaymentStatusSuccess)
	seedLedgerPayment(t, db, cancelled.ID, "20", constants.PaymentStatusSuccess)
	seedLedgerPayment(t, db, outside.ID, "10", constants.PaymentStatusSuccess)
	seedLedgerPayment(t, db, outside.ID, "5", constants.PaymentStatusFailed)

	repo := NewReportRepository(db).WithContext(context.Background())
	row, err := repo.GetDailySummary(DateRange{From: oct19, To: oct19})
	if err != nil {
		t.Fatalf("daily summary failed: %v", err)
	}
	if row.Orders != 1 || row.DeliveredOrders != 1 || row.CancelledOrders != 1 {
		t.Fatalf("unexpected counts: %+v", row)
	}
	if row.TotalSales.String() != "100.00" || row.TotalPaid.String() != "100.00" {
		t.Fatalf("unexpected totals: sales=%s paid=%s", row.TotalSales.String(), row.TotalPaid.String())
	}

	payments, total, err := repo.ListSuccessfulPayments(PaymentReportFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("payment report failed: %v", err)
	}
	if total != 3 || len(payments) != 3 {
		t.Fatalf("payment report want 3 successful rows got total=%d len=%d", total, len(payments))
	}
}
