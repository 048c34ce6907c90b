package txnrepo

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-petr/wallet-ledger/internal/accountrepo"
	"github.com/go-petr/wallet-ledger/internal/domain"
	"github.com/go-petr/wallet-ledger/pkg/configpkg"
	"github.com/go-petr/wallet-ledger/pkg/dbpkg"
	"github.com/go-petr/wallet-ledger/pkg/randompkg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	_ "github.com/lib/pq"
)

var testDB *sql.DB

func TestMain(m *testing.M) {
	config, err := configpkg.Load("../../configs")
	if err == nil {
		if db, err := dbpkg.Setup(config.DBDriver, config.DBSource); err == nil {
			testDB = db
		}
	}

	os.Exit(m.Run())
}

// testRepos runs each test inside its own transaction that is rolled back on
// cleanup. Constraint violation assertions must come last in a test since
// Postgres aborts the transaction after the first failed statement.
func testRepos(t *testing.T) (*RepoPGS, *accountrepo.RepoPGS) {
	t.Helper()

	if testDB == nil {
		t.Skip("database is not available")
	}

	tx := dbpkg.SetupTX(t, testDB)

	return NewRepoPGS(tx), accountrepo.NewRepoPGS(tx)
}

func createRandomTransaction(t *testing.T, repo *RepoPGS, accountID string, kind domain.TransactionKind) domain.Transaction {
	t.Helper()

	arg := domain.Transaction{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		IdempotencyKey: randompkg.IdempotencyKey(),
		Kind:           kind,
		Amount:         randompkg.MoneyAmountBetween(1, 100),
	}

	txn, err := repo.Append(context.Background(), arg)
	require.NoError(t, err)

	require.Equal(t, arg.ID, txn.ID)
	require.Equal(t, arg.AccountID, txn.AccountID)
	require.Equal(t, arg.IdempotencyKey, txn.IdempotencyKey)
	require.Equal(t, arg.Kind, txn.Kind)
	require.Equal(t, arg.Amount, txn.Amount)
	require.NotZero(t, txn.CreatedAt)

	return txn
}

func TestAppend(t *testing.T) {
	repo, accounts := testRepos(t)

	account, err := accounts.Create(context.Background(), uuid.NewString(), "0.00")
	require.NoError(t, err)

	createRandomTransaction(t, repo, account.ID, domain.KindCredit)
}

func TestAppendDuplicateKey(t *testing.T) {
	repo, accounts := testRepos(t)

	account, err := accounts.Create(context.Background(), uuid.NewString(), "0.00")
	require.NoError(t, err)

	txn := createRandomTransaction(t, repo, account.ID, domain.KindCredit)

	_, err = repo.Append(context.Background(), domain.Transaction{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		IdempotencyKey: txn.IdempotencyKey,
		Kind:           domain.KindCredit,
		Amount:         "50.00",
	})
	require.EqualError(t, err, domain.ErrDuplicateTransaction.Error())
}

func TestAppendAccountNotFound(t *testing.T) {
	repo, _ := testRepos(t)

	_, err := repo.Append(context.Background(), domain.Transaction{
		ID:             uuid.NewString(),
		AccountID:      uuid.NewString(),
		IdempotencyKey: randompkg.IdempotencyKey(),
		Kind:           domain.KindCredit,
		Amount:         "50.00",
	})
	require.EqualError(t, err, domain.ErrAccountNotFound.Error())
}

func TestFindByIdempotencyKey(t *testing.T) {
	repo, accounts := testRepos(t)

	account, err := accounts.Create(context.Background(), uuid.NewString(), "0.00")
	require.NoError(t, err)

	txn := createRandomTransaction(t, repo, account.ID, domain.KindCredit)

	got, err := repo.FindByIdempotencyKey(context.Background(), txn.IdempotencyKey)
	require.NoError(t, err)
	require.Equal(t, txn.ID, got.ID)
	require.Equal(t, txn.AccountID, got.AccountID)
	require.Equal(t, txn.Kind, got.Kind)
	require.Equal(t, txn.Amount, got.Amount)
}

func TestFindByIdempotencyKeyNotFound(t *testing.T) {
	repo, _ := testRepos(t)

	_, err := repo.FindByIdempotencyKey(context.Background(), randompkg.IdempotencyKey())
	require.EqualError(t, err, domain.ErrTransactionNotFound.Error())
}

func TestListByAccount(t *testing.T) {
	repo, accounts := testRepos(t)

	account, err := accounts.Create(context.Background(), uuid.NewString(), "0.00")
	require.NoError(t, err)

	other, err := accounts.Create(context.Background(), uuid.NewString(), "0.00")
	require.NoError(t, err)

	first := createRandomTransaction(t, repo, account.ID, domain.KindCredit)
	second := createRandomTransaction(t, repo, account.ID, domain.KindDebit)
	createRandomTransaction(t, repo, other.ID, domain.KindCredit)

	txns, err := repo.ListByAccount(context.Background(), account.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	// Rows written in the same transaction share created_at, so only
	// membership is checked here.
	ids := map[string]bool{txns[0].ID: true, txns[1].ID: true}
	require.True(t, ids[first.ID])
	require.True(t, ids[second.ID])
}
