// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sehatindo/apotek-be/internal/adapters/db"
	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_apotek",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_apotek",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		StatementCacheMode: "describe",
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// CreateTestInventoryItem creates a test inventory lot
func CreateTestInventoryItem(overrides ...func(*domain.InventoryItem)) *domain.InventoryItem {
	item := &domain.InventoryItem{
		ID:             uuid.New(),
		ItemName:       "Paracetamol 500mg",
		BatchNumber:    "B0011234",
		ItemType:       domain.TypeObat,
		Category:       domain.CategoryGenerik,
		Unit:           "tablet",
		Quantity:       100,
		PurchasePrice:  decimal.NewFromInt(350),
		SellingPriceRJ: decimal.NewFromInt(450),
		SellingPriceRI: decimal.NewFromInt(400),
		Supplier:       "PT Kimia Farma Trading",
		InputDate:      time.Now().AddDate(0, 0, -30),
		ExpiredDate:    time.Now().AddDate(1, 0, 0),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	for _, override := range overrides {
		override(item)
	}

	return item
}

// CreateTestInventoryItems creates multiple test inventory lots with
// distinct natural keys
func CreateTestInventoryItems(count int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, count)

	categories := []domain.ItemCategory{
		domain.CategoryGenerik,
		domain.CategoryAntibiotik,
		domain.CategoryVitamin,
		domain.CategorySirup,
		domain.CategoryBahanHabis,
	}

	for i := 0; i < count; i++ {
		items[i] = *CreateTestInventoryItem(func(item *domain.InventoryItem) {
			item.ItemName = fmt.Sprintf("Test Obat %d", i+1)
			item.BatchNumber = fmt.Sprintf("B%03d0001", i+1)
			item.Category = categories[i%len(categories)]
			if i%5 == 4 {
				item.ItemType = domain.TypeAlkes
				item.Unit = "pcs"
			}
			item.PurchasePrice = decimal.NewFromInt(int64(300 + i*100))
			item.SellingPriceRJ = decimal.NewFromInt(int64(400 + i*100))
			item.SellingPriceRI = decimal.NewFromInt(int64(350 + i*100))
		})
	}

	return items
}

// CreateTestTransaction creates a sales transaction referencing the given lots
func CreateTestTransaction(lots []domain.InventoryItem, overrides ...func(*domain.Transaction)) *domain.Transaction {
	trx := &domain.Transaction{
		ID:                  uuid.New(),
		Date:                time.Now(),
		PatientType:         domain.PatientRawatJalan,
		PaymentMethod:       domain.PaymentUmum,
		MedicalRecordNumber: "MR100001",
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	for _, lot := range lots {
		trx.Items = append(trx.Items, domain.TransactionItem{
			ItemID:    lot.ID,
			ItemName:  lot.ItemName,
			Quantity:  2,
			UnitPrice: lot.SellingPriceRJ,
		})
	}

	for _, override := range overrides {
		override(trx)
	}
	trx.ComputeTotal()

	return trx
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"transaction_items",
		"transactions",
		"import_jobs",
		"inventory",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}
