package testutil

import (
	"bytes"
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mr-tron/base58"

	"github.com/inspi-writer001/feesplit/internal/domain"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/postgres"
)

// Ref returns a deterministic account address built from seed.
func Ref(seed byte) domain.AccountRef {
	return domain.AccountRef(base58.Encode(bytes.Repeat([]byte{seed}, domain.KeyLength)))
}

// Principal returns a deterministic principal key built from seed.
func Principal(seed byte) domain.Principal {
	return domain.Principal(base58.Encode(bytes.Repeat([]byte{seed}, domain.KeyLength)))
}

// Accounts used across tests.
var (
	Authority    = Principal(0xA1)
	Intruder     = Principal(0xA2)
	Source       = Ref(0x01)
	Recipient    = Ref(0x02)
	FeeCollector = Ref(0x03)
	Mint         = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// Request builds a transfer request over the shared fixture accounts.
func Request(amount uint64) domain.TransferRequest {
	return domain.TransferRequest{
		Amount:       amount,
		Source:       Source,
		Recipient:    Recipient,
		FeeCollector: FeeCollector,
		Authority:    Authority,
	}
}

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB creates a new test database connection.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	migrationsPath := "internal/infrastructure/postgres/migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../internal/infrastructure/postgres/migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{Pool: pool, t: t}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE postings, fee_splits, outbox_events, token_accounts`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateAccount inserts a token account directly.
func (db *TestDB) CreateAccount(ctx context.Context, address domain.AccountRef, owner domain.Principal, mint string, balance uint64) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx,
		`INSERT INTO token_accounts (address, owner, mint, balance) VALUES ($1, $2, $3, $4::numeric)`,
		address.String(), owner.String(), mint, strconv.FormatUint(balance, 10),
	)
	if err != nil {
		db.t.Fatalf("failed to create account %s: %v", address, err)
	}
}

// Balance reads the committed balance of an account.
func (db *TestDB) Balance(ctx context.Context, address domain.AccountRef) uint64 {
	db.t.Helper()

	var raw string
	if err := db.Pool.QueryRow(ctx, `SELECT balance::text FROM token_accounts WHERE address = $1`, address.String()).Scan(&raw); err != nil {
		db.t.Fatalf("failed to read balance of %s: %v", address, err)
	}

	balance, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		db.t.Fatalf("balance %q of %s: %v", raw, address, err)
	}

	return balance
}

// SeedTransferAccounts creates the shared source, recipient and fee collector.
func (db *TestDB) SeedTransferAccounts(ctx context.Context, sourceBalance uint64) {
	db.t.Helper()

	db.CreateAccount(ctx, Source, Authority, Mint, sourceBalance)
	db.CreateAccount(ctx, Recipient, Principal(0xB1), Mint, 0)
	db.CreateAccount(ctx, FeeCollector, Principal(0xB2), Mint, 0)
}
