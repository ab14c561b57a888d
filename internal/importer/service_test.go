package importer_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/libro/internal/database"
	"github.com/MrJamesThe3rd/libro/internal/entity"
	entitystore "github.com/MrJamesThe3rd/libro/internal/entity/store"
	"github.com/MrJamesThe3rd/libro/internal/importer"
	"github.com/MrJamesThe3rd/libro/internal/importer/columns"
	"github.com/MrJamesThe3rd/libro/internal/kpi"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
	txstore "github.com/MrJamesThe3rd/libro/internal/transaction/store"
)

const header = "Fecha;Rut;Razon Social;Monto Neto;Monto Total\n"

func csvFile(name string, rows ...string) importer.File {
	return importer.File{Name: name, Data: []byte(header + strings.Join(rows, "\n") + "\n")}
}

func newService(t *testing.T) (*importer.Service, *importer.MockTransactionImporter, *importer.MockDirectory) {
	t.Helper()

	ctrl := gomock.NewController(t)
	txs := importer.NewMockTransactionImporter(ctrl)
	dir := importer.NewMockDirectory(ctrl)

	return importer.NewService(txs, dir), txs, dir
}

func TestService_ImportFiles_SniffsFlowPerFile(t *testing.T) {
	svc, _, _ := newService(t)

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), []importer.File{
		csvFile("compras_enero.csv", "01/01/2024;76543210-1;Proveedor Uno;100000;119000"),
		csvFile("ventas_enero.csv", "02/01/2024;11111111-1;Cliente Uno;200000;238000"),
	}, importer.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Transactions, 2)
	require.Len(t, batch.Files, 2)
	assert.Empty(t, batch.Failures)

	assert.Equal(t, transaction.FlowCompra, batch.Transactions[0].Type)
	assert.Equal(t, "2024-01-01", batch.Transactions[0].Fecha)
	assert.Equal(t, "compras_enero.csv", batch.Transactions[0].SourceFile)
	assert.Equal(t, transaction.FlowVenta, batch.Transactions[1].Type)

	stats := kpi.Aggregate(batch.Transactions)
	assert.InDelta(t, 119000.0, stats.TotalPurchases, 1e-9)
	assert.InDelta(t, 238000.0, stats.TotalSales, 1e-9)
}

func TestService_ImportFiles_Options(t *testing.T) {
	svc, _, _ := newService(t)

	files := []importer.File{
		csvFile("ventas.csv", "01/01/2024;1-9;A;10;10"),
		csvFile("compras.csv", "01/01/2024;2-7;B;10;10"),
	}

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), files, importer.Options{Flow: transaction.FlowHonorarios})
	require.NoError(t, err)

	for _, tx := range batch.Transactions {
		assert.Equal(t, transaction.FlowHonorarios, tx.Type)
	}

	resolver := func(string) transaction.FlowType { return transaction.FlowVenta }

	batch, err = svc.ImportFiles(context.Background(), uuid.New(), files, importer.Options{Resolver: resolver})
	require.NoError(t, err)
	assert.Equal(t, transaction.FlowVenta, batch.Files[1].Flow)
}

func TestService_ImportFiles_PartialFailure(t *testing.T) {
	svc, _, _ := newService(t)

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), []importer.File{
		{Name: "sin_total.csv", Data: []byte("Fecha;Rut;Razon Social;Monto Neto\n01/01/2024;1-9;A;10\n")},
		csvFile("compras.csv", "01/01/2024;1-9;A;10;12"),
	}, importer.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Transactions, 1)
	require.Len(t, batch.Failures, 1)

	failure := batch.Failures[0]
	assert.Equal(t, "sin_total.csv", failure.Name)
	assert.ErrorIs(t, failure.Err, columns.ErrMissingTotal)
	assert.Contains(t, failure.Error(), "Fecha, Rut, Razon Social, Monto Neto")
}

func TestService_ImportFiles_NothingImported(t *testing.T) {
	svc, _, _ := newService(t)

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), []importer.File{
		{Name: "a.csv", Data: []byte("Fecha;Rut\n01/01/2024;1-9\n")},
		csvFile("b.csv", "01/01/2024;1-9;A;0;0"),
	}, importer.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrNoTransactions)
	assert.ErrorIs(t, err, columns.ErrMissingTotal)
	assert.Len(t, batch.Failures, 1)
	assert.Len(t, batch.Files, 1)
}

func TestService_ImportFiles_StrictCollectsRowErrors(t *testing.T) {
	svc, _, _ := newService(t)

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), []importer.File{
		csvFile("compras.csv", "01/01/2024;1-9;A;10;abc", "01/01/2024;1-9;A;10;12"),
	}, importer.Options{Strict: true})
	require.NoError(t, err)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, 2, batch.Errors[0].Line)
}

func TestService_ImportFiles_Windows1252(t *testing.T) {
	svc, _, _ := newService(t)

	data := []byte(header + "01/01/2024;1-9;Compa\xf1\xeda Ltda;10;12\n")

	batch, err := svc.ImportFiles(context.Background(), uuid.New(), []importer.File{{Name: "compras.csv", Data: data}}, importer.Options{})
	require.NoError(t, err)
	require.Len(t, batch.Transactions, 1)
	assert.Equal(t, "Compañía Ltda", batch.Transactions[0].RazonSocial)
}

func TestService_Store(t *testing.T) {
	svc, txs, dir := newService(t)

	ctx := context.Background()
	companyID := uuid.New()
	in := []*transaction.Transaction{{RUT: "1-9", RazonSocial: "A"}}

	gomock.InOrder(
		dir.EXPECT().Fill(ctx, companyID, in).Return(0, nil),
		txs.EXPECT().ImportBatch(ctx, companyID, in).Return(&transaction.ImportResult{Imported: in}, nil),
		dir.EXPECT().LearnFrom(ctx, companyID, in).Return(errors.New("learning is best effort")),
	)

	result, err := svc.Store(ctx, companyID, in)
	require.NoError(t, err)
	assert.Equal(t, in, result.Imported)
}

func TestService_StoreWithConflictsDefersLearning(t *testing.T) {
	svc, txs, dir := newService(t)

	ctx := context.Background()
	companyID := uuid.New()
	in := []*transaction.Transaction{{RUT: "1-9", RazonSocial: "A"}}
	pending := &transaction.ImportResult{Conflicts: []transaction.Conflict{{Incoming: in[0]}}, DuplicatesFound: 1}

	dir.EXPECT().Fill(ctx, companyID, in).Return(0, nil)
	txs.EXPECT().ImportBatch(ctx, companyID, in).Return(pending, nil)

	result, err := svc.Store(ctx, companyID, in)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DuplicatesFound)

	txs.EXPECT().Resolve(ctx, companyID, pending, transaction.DecisionForce).Return(in, nil)
	dir.EXPECT().LearnFrom(ctx, companyID, in).Return(nil)

	imported, err := svc.Resolve(ctx, companyID, pending, transaction.DecisionForce)
	require.NoError(t, err)
	assert.Len(t, imported, 1)
}

func TestService_StoreFillError(t *testing.T) {
	svc, _, dir := newService(t)

	boom := errors.New("boom")
	dir.EXPECT().Fill(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, boom)

	_, err := svc.Store(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, boom)
}

func TestService_ReimportSkipsDuplicates(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "libro.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	companyID := uuid.New()
	require.NoError(t, db.Run(ctx, `INSERT INTO companies (id, rut, name, created_at) VALUES (?, ?, ?, ?)`,
		companyID, "76543210-1", "Test SpA", time.Now().UTC().Format(time.RFC3339Nano)))

	txService := transaction.NewService(txstore.New(db))
	entities := entity.NewService(entitystore.New(db))
	svc := importer.NewService(txService, entities)

	first := csvFile("compras.csv",
		"01/01/2024;76543210-1;Proveedor Uno;100000;119000",
		"02/01/2024;11111111-1;Proveedor Dos;5000;5950",
	)

	batch, err := svc.ImportFiles(ctx, companyID, []importer.File{first}, importer.Options{})
	require.NoError(t, err)

	result, err := svc.Store(ctx, companyID, batch.Transactions)
	require.NoError(t, err)
	require.Len(t, result.Imported, 2)

	before, err := txService.Count(ctx, companyID)
	require.NoError(t, err)

	second := csvFile("compras.csv",
		"01/01/2024;76543210-1;Proveedor Uno;100000;119000",
		"02/01/2024;11111111-1;Proveedor Dos;5000;5950",
		"03/01/2024;76543210-1;;1000;1190",
	)

	batch, err = svc.ImportFiles(ctx, companyID, []importer.File{second}, importer.Options{})
	require.NoError(t, err)

	result, err = svc.Store(ctx, companyID, batch.Transactions)
	require.NoError(t, err)
	assert.Equal(t, 2, result.DuplicatesFound)
	require.Len(t, result.New, 1)
	assert.Equal(t, "Proveedor Uno", result.New[0].RazonSocial, "name recovered from the entity master")

	_, err = svc.Resolve(ctx, companyID, result, transaction.DecisionSkip)
	require.NoError(t, err)

	after, err := txService.Count(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
