package main

import (
	"context"
	"flag"
	"time"

	"github.com/laundry-pos/internal/config"
	"github.com/laundry-pos/internal/constants"
	"github.com/laundry-pos/internal/logger"
	"github.com/laundry-pos/internal/models"
	"github.com/laundry-pos/internal/provider"
	"github.com/laundry-pos/internal/queue"
	"github.com/laundry-pos/internal/service"
)

type demoOrder struct {
	customerID   uint
	customerName string
	driverID     uint
	driverName   string
	gross        string
	paidUpfront  string
	followUp     string
	status       string
	items        models.ItemList
}

func main() {
	var force bool
	flag.BoolVar(&force, "force", false, "已有订单时仍然写入演示数据")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	var existing int64
	if err := models.DB.Model(&models.Order{}).Count(&existing).Error; err != nil {
		stdLog.Fatalf("Failed to count orders: %v", err)
	}
	if existing > 0 && !force {
		stdLog.Printf("Orders already exist (%d), skip seeding", existing)
		return
	}

	// 演示数据不经过队列，事件同步写入
	queueClient, _ := queue.NewClient(nil)
	container := provider.NewContainerWithDB(cfg, models.DB, queueClient)
	ctx := context.Background()

	today := models.NewDate(time.Now())
	delivery := models.NewDate(time.Now().AddDate(0, 0, 2))
	orders := []demoOrder{
		{
			customerID: 101, customerName: "Aisha Khan", driverID: 7, driverName: "Ravi",
			gross: "100.00", paidUpfront: "20.00", followUp: "80.00",
			status: constants.OrderStatusDelivered,
			items: models.ItemList{
				{Name: "Shirt", Type: "wash", Quantity: 4},
				{Name: "Trouser", Type: "iron", Quantity: 2},
			},
		},
		{
			customerID: 102, customerName: "Omar Farouk", driverID: 7, driverName: "Ravi",
			gross: "45.50", paidUpfront: "10.00",
			status: constants.OrderStatusProcessing,
			items: models.ItemList{
				{Name: "Blanket", Type: "dry_clean", Quantity: 1},
			},
		},
		{
			customerID: 103, customerName: "Mei Lin", driverID: 9, driverName: "Sana",
			gross:  "30.00",
			status: constants.OrderStatusReceived,
			items: models.ItemList{
				{Name: "Shirt", Type: "wash", Quantity: 3},
				{Name: "Saree", Type: "dry_clean", Quantity: 1},
			},
		},
	}

	for _, demo := range orders {
		gross := models.MustMoney(demo.gross)
		input := service.CreateOrderInput{
			OrderDate:    &today,
			DeliveryDate: &delivery,
			CustomerID:   demo.customerID,
			CustomerName: demo.customerName,
			DriverID:     demo.driverID,
			DriverName:   demo.driverName,
			SubTotal:     &gross,
			GrossTotal:   &gross,
			ItemList:     demo.items,
			CreatedBy:    "seed",
		}
		if demo.paidUpfront != "" {
			paid := models.MustMoney(demo.paidUpfront)
			input.PaidAmount = &paid
			input.PaymentMethod = "cash"
			input.PaymentStage = constants.PaymentStageAdvance
		}
		result, err := container.OrderService.CreateOrder(ctx, input)
		if err != nil {
			stdLog.Printf("Failed to create order for %s: %v", demo.customerName, err)
			continue
		}
		stdLog.Printf("Created order: %s", result.OrderCode)

		for _, status := range pathTo(demo.status) {
			if _, err := container.OrderService.UpdateOrderStatus(ctx, result.OrderID, status, "seed"); err != nil {
				stdLog.Printf("Failed to move %s to %s: %v", result.OrderCode, status, err)
				break
			}
		}
		// 状态已推进到位，尾款结清时不会再改状态
		if demo.followUp != "" {
			amount := models.MustMoney(demo.followUp)
			if _, err := container.OrderService.AddPayment(ctx, service.AddPaymentInput{
				OrderID:       result.OrderID,
				Amount:        &amount,
				PaymentMethod: "card",
				PaymentStage:  constants.PaymentStageFinal,
				CreatedBy:     "seed",
			}); err != nil {
				stdLog.Printf("Failed to add payment for %s: %v", result.OrderCode, err)
			}
		}
	}
	stdLog.Printf("Seeding completed")
}

// pathTo 返回从初始状态推进到目标状态需要经过的状态
func pathTo(target string) []string {
	chain := []string{
		constants.OrderStatusProcessing,
		constants.OrderStatusReadyToDeliver,
		constants.OrderStatusOutForDelivery,
		constants.OrderStatusDelivered,
	}
	for i, status := range chain {
		if status == target {
			return chain[:i+1]
		}
	}
	return nil
}
