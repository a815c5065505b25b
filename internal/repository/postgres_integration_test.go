//go:build integration
// +build integration

package repository

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	_ = db.Migrator().DropTable(
		&models.OrderEvent{},
		&models.Payment{},
		&models.Order{},
		&models.OrderSequence{},
	)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate postgres failed: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresOrderSequenceIsSerialized(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderSequenceRepository(db)
	if err := repo.InsertIfAbsent("TMS/ORD", 0); err != nil {
		t.Fatalf("insert sequence failed: %v", err)
	}

	const workers = 20
	var wg sync.WaitGroup
	values := make(chan int64, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				txRepo := repo.WithTx(tx)
				seq, err := txRepo.GetForUpdate("TMS/ORD")
				if err != nil {
					return err
				}
				if seq == nil {
					return errors.New("sequence missing")
				}
				next := seq.LastValue + 1
				if err := txRepo.UpdateValue("TMS/ORD", next); err != nil {
					return err
				}
				values <- next
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(values)
	close(errs)

	for err := range errs {
		t.Fatalf("sequence transaction failed: %v", err)
	}
	seen := make(map[int64]bool, workers)
	for v := range values {
		if seen[v] {
			t.Fatalf("sequence value %d handed out twice", v)
		}
		seen[v] = true
	}
	if len(seen) != workers {
		t.Fatalf("want %d distinct values got %d", workers, len(seen))
	}
}

func TestPostgresKeywordSearchAndUniqueViolation(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	day := models.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	orderRepo := NewOrderRepository(db)

	newOrder := func(code, customer string) *models.Order {
		return &models.Order{
			OrderCode:    code,
			OrderDate:    day,
			DeliveryDate: day,
			CustomerID:   1,
			CustomerName: customer,
			DriverID:     2,
			DriverName:   "Ravi",
			GrossTotal:   models.MustMoney("80"),
			ItemList:     models.ItemList{{Name: "Shirt", Quantity: 2}},
			Status:       constants.OrderStatusReceived,
			CreatedBy:    "tester",
		}
	}
	order := newOrder("TMS/ORD-001", "Aisha Khan")
	if err := orderRepo.Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	// postgres 下 ILIKE 保证大小写不敏感
	_, total, err := orderRepo.List(OrderListFilter{Page: 1, PageSize: 10, Keyword: "AISHA"})
	if err != nil {
		t.Fatalf("keyword search failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("keyword search want 1 got %d", total)
	}

	err = orderRepo.Create(newOrder("TMS/ORD-001", "Omar"))
	if !IsUniqueViolation(err) {
		t.Fatalf("duplicate order code should map to unique violation, got %v", err)
	}

	paymentRepo := NewPaymentRepository(db)
	for _, amount := range []string{"30.10", "19.90"} {
		if err := paymentRepo.Create(&models.Payment{
			OrderID:       order.ID,
			Amount:        models.MustMoney(amount),
			PaymentStage:  constants.PaymentStagePartial,
			PaymentStatus: constants.PaymentStatusSuccess,
		}); err != nil {
			t.Fatalf("create payment failed: %v", err)
		}
	}
	sum, err := paymentRepo.SumSuccessful(order.ID)
	if err != nil {
		t.Fatalf("sum payments failed: %v", err)
	}
	if sum.String() != "50.00" {
		t.Fatalf("sum want 50.00 got %s", sum.String())
	}

	summary, err := NewReportRepository(db).GetDailySummary(DateRange{From: day, To: day})
	if err != nil {
		t.Fatalf("daily summary failed: %v", err)
	}
	if summary.TotalSales.String() != "80.00" || summary.TotalPaid.String() != "50.00" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
