package tests

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cozycomfort/distribution/internal/adapter/storage"
	"github.com/cozycomfort/distribution/internal/adapter/upstream"
	"github.com/cozycomfort/distribution/internal/core/domain"
	"github.com/cozycomfort/distribution/internal/core/service"
)

const testDistributorID = 77

type testEnv struct {
	redis   *redis.Client
	mysql   *sql.DB
	store   *storage.MySQLStore
	cache   *storage.RedisInventory
	cleanup func()
}

func setupTestEnv(t *testing.T) *testEnv {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		mysqlDSN = "root:root@tcp(localhost:3306)/distribution?parseTime=true"
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Skipf("MySQL not available: %v", err)
	}

	store := storage.NewMySQLStore(db, testDistributorID)
	if err := store.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	return &testEnv{
		redis: rdb,
		mysql: db,
		store: store,
		cache: storage.NewRedisInventory(rdb),
		cleanup: func() {
			rdb.Close()
			db.Close()
		},
	}
}

func (env *testEnv) reset(t *testing.T, productID int64, quantity int) {
	ctx := context.Background()
	env.mysql.ExecContext(ctx, `DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE seller_id >= 8000)`)
	env.mysql.ExecContext(ctx, `DELETE FROM orders WHERE seller_id >= 8000`)
	env.mysql.ExecContext(ctx, `DELETE FROM inventory WHERE distributor_id = ?`, testDistributorID)

	err := env.store.SeedInventory(ctx, []domain.InventoryRecord{
		{DistributorID: testDistributorID, ProductID: productID, Quantity: quantity, ReorderLevel: 10, LastRestocked: time.Now()},
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := env.cache.SetStock(ctx, testDistributorID, productID, quantity); err != nil {
		t.Fatalf("redis seed failed: %v", err)
	}
}

// manufacturerStub serves the upstream contract for integration runs.
func manufacturerStub(available bool, leadTimeDays int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/manufacturer/stock/{productId}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.StockInquiry{
			IsAvailable:  available,
			LeadTimeDays: leadTimeDays,
			Message:      "stub",
		})
	})
	mux.HandleFunc("POST /api/manufacturer/order", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return httptest.NewServer(mux)
}

func newService(env *testEnv, manufacturerURL string) *service.FulfillmentService {
	client := upstream.NewManufacturerAPI(manufacturerURL, 2*time.Second)
	return service.NewFulfillmentService(
		env.cache, env.store, client, env.store,
		domain.DefaultPriceList(), testDistributorID, 128,
	)
}

func TestIntegration_ConcurrentOrdersNeverOversell(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	productID := int64(1)
	initialStock := 10
	env.reset(t, productID, initialStock)

	mfr := manufacturerStub(false, 0)
	defer mfr.Close()

	svc := newService(env, mfr.URL)

	client := upstream.NewManufacturerAPI(mfr.URL, 2*time.Second)
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			service.SubmitWorker(id, svc.Submissions(), client, 2*time.Second)
		}(i)
	}

	var accepted atomic.Int32
	var orderWg sync.WaitGroup
	totalRequests := 20

	ctx := context.Background()
	for i := 0; i < totalRequests; i++ {
		orderWg.Add(1)
		go func(n int) {
			defer orderWg.Done()
			_, err := svc.PlaceOrder(ctx, domain.OrderRequest{
				SellerID:     int64(8000 + n),
				CustomerName: uuid.New().String(),
				Items:        []domain.OrderLineRequest{{ProductID: productID, Quantity: 1}},
			})
			if err == nil {
				accepted.Add(1)
			}
		}(i)
	}
	orderWg.Wait()

	svc.Close()
	wg.Wait()

	if accepted.Load() != int32(initialStock) {
		t.Errorf("expected %d accepted orders, got %d", initialStock, accepted.Load())
	}

	redisStock, _ := env.redis.Get(ctx, "stock:77:1").Int()
	if redisStock != 0 {
		t.Errorf("expected redis stock 0, got %d", redisStock)
	}

	records, err := env.store.ListInventory(ctx, testDistributorID)
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if len(records) != 1 || records[0].Quantity != 0 {
		t.Errorf("expected durable stock 0, got %+v", records)
	}

	var orderCount int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE seller_id >= 8000`).Scan(&orderCount)
	if orderCount != initialStock {
		t.Errorf("expected %d orders persisted, got %d", initialStock, orderCount)
	}
}

func TestIntegration_RejectionRestoresBothStores(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.reset(t, 1, 10)
	ctx := context.Background()
	// second product has no stock anywhere
	env.cache.SetStock(ctx, testDistributorID, 3, 0)

	mfr := manufacturerStub(false, 0)
	defer mfr.Close()

	svc := newService(env, mfr.URL)
	defer svc.Close()

	_, err := svc.PlaceOrder(ctx, domain.OrderRequest{
		SellerID:     8500,
		CustomerName: "Rollback Retail",
		Items: []domain.OrderLineRequest{
			{ProductID: 1, Quantity: 4},
			{ProductID: 3, Quantity: 1},
		},
	})

	var rejection *service.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected RejectionError, got: %v", err)
	}

	redisStock, _ := env.redis.Get(ctx, "stock:77:1").Int()
	if redisStock != 10 {
		t.Errorf("expected redis stock restored to 10, got %d", redisStock)
	}

	records, _ := env.store.ListInventory(ctx, testDistributorID)
	if len(records) != 1 || records[0].Quantity != 10 {
		t.Errorf("expected durable stock untouched at 10, got %+v", records)
	}

	var orderCount int
	env.mysql.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE seller_id = 8500`).Scan(&orderCount)
	if orderCount != 0 {
		t.Errorf("expected no persisted orders, got %d", orderCount)
	}
}

func TestIntegration_EscalatedOrderNotifiesManufacturer(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup()

	env.reset(t, 2, 0)

	var submissions atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/manufacturer/stock/{productId}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.StockInquiry{IsAvailable: true, LeadTimeDays: 5})
	})
	mux.HandleFunc("POST /api/manufacturer/order", func(w http.ResponseWriter, r *http.Request) {
		submissions.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mfr := httptest.NewServer(mux)
	defer mfr.Close()

	svc := newService(env, mfr.URL)

	client := upstream.NewManufacturerAPI(mfr.URL, 2*time.Second)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		service.SubmitWorker(0, svc.Submissions(), client, 2*time.Second)
	}()

	ctx := context.Background()
	placed, err := svc.PlaceOrder(ctx, domain.OrderRequest{
		SellerID:     8600,
		CustomerName: "Backorder Retail",
		Items:        []domain.OrderLineRequest{{ProductID: 2, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	svc.Close()
	wg.Wait()

	if placed.Status != domain.OrderStatusAwaitingManufacturer {
		t.Errorf("expected AwaitingManufacturer, got %s", placed.Status)
	}
	if submissions.Load() != 1 {
		t.Errorf("expected 1 manufacturer submission, got %d", submissions.Load())
	}

	stored, err := env.store.FindByOrderNumber(ctx, placed.OrderNumber)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.EstimatedDelivery == nil {
		t.Error("expected estimated delivery on escalated order")
	}
}
