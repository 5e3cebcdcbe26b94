package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sehatindo/apotek-be/internal/core/domain"
)

// seedProduct is a catalog entry the seeder expands into inventory lots.
type seedProduct struct {
	Name     string
	ItemType domain.ItemType
	Category domain.ItemCategory
	Unit     string
	BuyPrice int64 // rupiah
}

var catalog = []seedProduct{
	{"Paracetamol 500mg", domain.TypeObat, domain.CategoryGenerik, "tablet", 350},
	{"Amoxicillin 500mg", domain.TypeObat, domain.CategoryAntibiotik, "kapsul", 900},
	{"Cefixime 100mg", domain.TypeObat, domain.CategoryAntibiotik, "kapsul", 2800},
	{"Ibuprofen 400mg", domain.TypeObat, domain.CategoryAnalgesik, "tablet", 600},
	{"Asam Mefenamat 500mg", domain.TypeObat, domain.CategoryAnalgesik, "tablet", 450},
	{"Omeprazole 20mg", domain.TypeObat, domain.CategoryGenerik, "kapsul", 1200},
	{"Amlodipine 10mg", domain.TypeObat, domain.CategoryGenerik, "tablet", 800},
	{"Metformin 500mg", domain.TypeObat, domain.CategoryGenerik, "tablet", 500},
	{"Simvastatin 20mg", domain.TypeObat, domain.CategoryGenerik, "tablet", 700},
	{"Vitamin B Complex", domain.TypeObat, domain.CategoryVitamin, "tablet", 250},
	{"Vitamin C 500mg", domain.TypeObat, domain.CategoryVitamin, "tablet", 300},
	{"OBH Combi Sirup 100ml", domain.TypeObat, domain.CategorySirup, "botol", 9500},
	{"Cetirizine Sirup 60ml", domain.TypeObat, domain.CategorySirup, "botol", 7000},
	{"Ondansetron Injeksi 4mg", domain.TypeObat, domain.CategoryInjeksi, "ampul", 6500},
	{"Ceftriaxone Injeksi 1g", domain.TypeObat, domain.CategoryInjeksi, "vial", 15000},
	{"Gentamicin Salep Kulit", domain.TypeObat, domain.CategorySalep, "tube", 4500},
	{"Ringer Laktat 500ml", domain.TypeObat, domain.CategoryInfus, "kolf", 11000},
	{"NaCl 0.9% 500ml", domain.TypeObat, domain.CategoryInfus, "kolf", 9000},
	{"Spuit 3ml", domain.TypeAlkes, domain.CategoryBahanHabis, "pcs", 1500},
	{"Spuit 5ml", domain.TypeAlkes, domain.CategoryBahanHabis, "pcs", 1800},
	{"Infus Set Makro", domain.TypeAlkes, domain.CategoryBahanHabis, "set", 6000},
	{"IV Catheter 22G", domain.TypeAlkes, domain.CategoryBahanHabis, "pcs", 5500},
	{"Handscoon Steril No 7", domain.TypeAlkes, domain.CategoryBahanHabis, "pasang", 3500},
	{"Masker Bedah 3ply", domain.TypeAlkes, domain.CategoryBahanHabis, "pcs", 600},
	{"Kasa Steril 16x16", domain.TypeAlkes, domain.CategoryBahanHabis, "pcs", 2000},
	{"Termometer Digital", domain.TypeAlkes, domain.CategoryAlatMedis, "pcs", 28000},
	{"Tensimeter Aneroid", domain.TypeAlkes, domain.CategoryAlatMedis, "pcs", 145000},
	{"Nebulizer Kit", domain.TypeAlkes, domain.CategoryAlatMedis, "set", 45000},
}

var suppliers = []string{
	"PT Kimia Farma Trading",
	"PT Bina San Prima",
	"PT Anugrah Argon Medica",
	"PT Enseval Putera Megatrading",
	"PT Mensa Bina Sukses",
}

func main() {
	var (
		lotCount = flag.Int("lots", 60, "Number of inventory lots to create")
		txCount  = flag.Int("transactions", 25, "Number of demo sales transactions to create")
		seed     = flag.Int64("seed", 0, "Random seed (0 uses current time)")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Preview changes without modifying database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "apotek"),
		getEnv("DB_PASSWORD", "apotek_dev_2025"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "apotek_inventory"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	lots := generateLots(rng, *lotCount)
	logger.Info("generated inventory lots", slog.Int("count", len(lots)))

	if *dryRun {
		for _, lot := range lots {
			fmt.Printf("%-28s batch=%-10s qty=%-4d exp=%s\n",
				lot.ItemName, lot.BatchNumber, lot.Quantity, lot.ExpiredDate.Format("2006-01-02"))
		}
		logger.Info("dry run complete, no changes written")
		return
	}

	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := insertLots(ctx, db, lots); err != nil {
		logger.Error("failed to insert inventory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("inventory seeded", slog.Int("lots", len(lots)))

	if *txCount > 0 {
		inserted, err := insertTransactions(ctx, db, rng, lots, *txCount)
		if err != nil {
			logger.Error("failed to insert transactions", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("transactions seeded", slog.Int("transactions", inserted))
	}
}

func generateLots(rng *rand.Rand, count int) []domain.InventoryItem {
	lots := make([]domain.InventoryItem, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		product := catalog[i%len(catalog)]

		// A second lot of the same product gets a separate batch number
		// so both fall on distinct natural keys.
		batch := fmt.Sprintf("B%03d%04d", (i/len(catalog))+1, 1000+rng.Intn(9000))

		buy := decimal.NewFromInt(product.BuyPrice)
		lot := domain.InventoryItem{
			ID:             uuid.New(),
			ItemName:       product.Name,
			BatchNumber:    batch,
			ItemType:       product.ItemType,
			Category:       product.Category,
			Unit:           product.Unit,
			Quantity:       20 + rng.Intn(480),
			PurchasePrice:  buy,
			SellingPriceRJ: buy.Mul(decimal.NewFromFloat(1.25)).Round(2),
			SellingPriceRI: buy.Mul(decimal.NewFromFloat(1.15)).Round(2),
			Supplier:       suppliers[rng.Intn(len(suppliers))],
			InputDate:      now.AddDate(0, 0, -rng.Intn(120)),
			ExpiredDate:    now.AddDate(0, 3+rng.Intn(30), rng.Intn(28)),
		}
		lots = append(lots, lot)
	}

	return lots
}

func insertLots(ctx context.Context, db *pgxpool.Pool, lots []domain.InventoryItem) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, lot := range lots {
		batch.Queue(`
			INSERT INTO inventory (
				id, item_name, batch_number, item_type, category, unit,
				quantity, purchase_price, selling_price_rj, selling_price_ri,
				supplier, input_date, expired_date
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
			) ON CONFLICT (lower(item_name), lower(batch_number)) WHERE deleted_at IS NULL
			DO NOTHING`,
			lot.ID, lot.ItemName, lot.BatchNumber, lot.ItemType, lot.Category, lot.Unit,
			lot.Quantity, lot.PurchasePrice, lot.SellingPriceRJ, lot.SellingPriceRI,
			lot.Supplier, lot.InputDate, lot.ExpiredDate,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range lots {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert lot: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	return tx.Commit(ctx)
}

func insertTransactions(ctx context.Context, db *pgxpool.Pool, rng *rand.Rand, lots []domain.InventoryItem, count int) (int, error) {
	now := time.Now()
	inserted := 0

	for i := 0; i < count; i++ {
		patientType := domain.PatientRawatJalan
		if rng.Intn(100) < 30 {
			patientType = domain.PatientRawatInap
		}
		paymentMethod := domain.PaymentUmum
		if rng.Intn(100) < 40 {
			paymentMethod = domain.PaymentBPJS
		}

		lineCount := 1 + rng.Intn(3)
		items := make([]domain.TransactionItem, 0, lineCount)
		used := map[uuid.UUID]bool{}
		for len(items) < lineCount {
			lot := lots[rng.Intn(len(lots))]
			if used[lot.ID] {
				continue
			}
			used[lot.ID] = true

			price := lot.SellingPriceRJ
			if patientType == domain.PatientRawatInap {
				price = lot.SellingPriceRI
			}
			items = append(items, domain.TransactionItem{
				ItemID:    lot.ID,
				ItemName:  lot.ItemName,
				Quantity:  1 + rng.Intn(5),
				UnitPrice: price,
			})
		}

		trx := domain.Transaction{
			ID:                  uuid.New(),
			Date:                now.AddDate(0, 0, -rng.Intn(45)),
			PatientType:         patientType,
			PaymentMethod:       paymentMethod,
			MedicalRecordNumber: fmt.Sprintf("MR%06d", 100000+rng.Intn(900000)),
			Items:               items,
		}
		trx.ComputeTotal()

		if err := insertTransaction(ctx, db, trx); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, nil
}

func insertTransaction(ctx context.Context, db *pgxpool.Pool, trx domain.Transaction) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Decrement stock for each line; skip the whole sale when a lot
	// no longer covers the requested quantity.
	for _, line := range trx.Items {
		tag, err := tx.Exec(ctx,
			`UPDATE inventory SET quantity = quantity - $1, updated_at = now()
			 WHERE id = $2 AND quantity >= $1 AND deleted_at IS NULL`,
			line.Quantity, line.ItemID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO transactions (
			id, transaction_date, patient_type, payment_method,
			medical_record_number, total_price
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		trx.ID, trx.Date, trx.PatientType, trx.PaymentMethod,
		trx.MedicalRecordNumber, trx.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	batch := &pgx.Batch{}
	for i, line := range trx.Items {
		batch.Queue(`
			INSERT INTO transaction_items (
				transaction_id, line_no, item_id, item_name, quantity, unit_price
			) VALUES ($1, $2, $3, $4, $5, $6)`,
			trx.ID, i+1, line.ItemID, line.ItemName, line.Quantity, line.UnitPrice)
	}
	br := tx.SendBatch(ctx, batch)
	for range trx.Items {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert transaction line: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	return tx.Commit(ctx)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
