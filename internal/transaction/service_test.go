package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

var company = uuid.MustParse("6f1c7c7e-2b7e-4d0e-9b1a-1d2a3b4c5d6e")

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		verify    func(t *testing.T, tx *transaction.Transaction)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Type:        transaction.FlowVenta,
					Fecha:       "2024-03-05",
					RUT:         "76.543.210-k",
					RazonSocial: "Cliente Uno",
					MontoNeto:   100000,
					MontoTotal:  119000,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "76543210-K", tx.RUT)
				assert.Equal(t, company, tx.CompanyID)
				assert.Equal(t, "manual", tx.SourceFile)
				assert.Nil(t, tx.MontoRetencion)
			},
		},
		{
			name: "EmptyNameGetsSentinel",
			args: args{
				params: transaction.CreateParams{
					Type:           transaction.FlowHonorarios,
					Fecha:          "2024-03-05",
					MontoTotal:     50000,
					MontoRetencion: new(6875.0),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, transaction.UnknownName, tx.RazonSocial)
				assert.Equal(t, transaction.UnknownRUT, tx.RUT)
				require.NotNil(t, tx.MontoRetencion)
				assert.InDelta(t, 6875.0, *tx.MontoRetencion, 0.001)
			},
		},
		{
			name:    "InvalidType",
			args:    args{params: transaction.CreateParams{Type: "boleta", Fecha: "2024-03-05"}},
			wantErr: true,
		},
		{
			name:    "InvalidDate",
			args:    args{params: transaction.CreateParams{Type: transaction.FlowCompra, Fecha: "05/03/2024"}},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{params: transaction.CreateParams{Type: transaction.FlowCompra, Fecha: "2024-03-05"}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Create(context.Background(), company, tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	venta := transaction.FlowVenta
	filter := transaction.ListFilter{Type: &venta, StartDate: "2024-01-01"}

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().
		ListTransactions(gomock.Any(), company, filter).
		Return([]*transaction.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	got, err := transaction.NewService(repo).List(context.Background(), company, filter)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func row(rut, fecha string, total float64, folio string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          uuid.New(),
		Type:        transaction.FlowCompra,
		RUT:         rut,
		RazonSocial: "Proveedor",
		Fecha:       fecha,
		MontoTotal:  total,
		Folio:       folio,
		TipoDoc:     "33",
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	txs := []*transaction.Transaction{
		row("76543210-1", "2024-01-15", 119000, "10"),
		row("76543210-1", "2024-01-03", 23800, "11"),
	}

	repo.EXPECT().BeginImport(gomock.Any(), company, "2024-01-03", "2024-01-15").Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), company, txs).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), txs).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), company, txs)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 2)
	assert.Zero(t, result.DuplicatesFound)
	assert.Empty(t, result.New)

	for _, tx := range result.Imported {
		assert.Equal(t, company, tx.CompanyID)
	}
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	svc := transaction.NewService(repo)

	txs := []*transaction.Transaction{
		row("76543210-1", "2024-01-15", 119000, "10"),
		row("76543210-1", "2024-01-15", 119000, "11"),
	}
	existing := row("76543210-1", "2024-01-15", 119000, "10")

	repo.EXPECT().BeginImport(gomock.Any(), company, "2024-01-15", "2024-01-15").Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), company, txs).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), company, txs)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Equal(t, 1, result.DuplicatesFound)
	require.Len(t, result.New, 1)
	assert.Equal(t, "11", result.New[0].Folio)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, txs[0], result.Conflicts[0].Incoming)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := transaction.NewService(transaction.NewMockRepository(ctrl))

	result, err := svc.ImportBatch(context.Background(), company, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
}

func TestService_ImportBatch_BeginFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().BeginImport(gomock.Any(), company, gomock.Any(), gomock.Any()).Return(nil, errors.New("locked"))

	_, err := transaction.NewService(repo).ImportBatch(context.Background(), company,
		[]*transaction.Transaction{row("1-9", "2024-01-01", 1, "1")})
	assert.ErrorContains(t, err, "begin import")
}

func TestService_Resolve(t *testing.T) {
	fresh := row("76543210-1", "2024-01-15", 100, "2")
	dup := row("76543210-1", "2024-01-15", 100, "1")
	result := &transaction.ImportResult{
		New:             []*transaction.Transaction{fresh},
		Conflicts:       []transaction.Conflict{{Incoming: dup, Existing: row("76543210-1", "2024-01-15", 100, "1")}},
		DuplicatesFound: 1,
	}

	tests := []struct {
		name     string
		decision transaction.Decision
		want     []*transaction.Transaction
	}{
		{"Skip", transaction.DecisionSkip, []*transaction.Transaction{fresh}},
		{"Force", transaction.DecisionForce, []*transaction.Transaction{fresh, dup}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			itx := transaction.NewMockImportTx(ctrl)

			repo.EXPECT().BeginImport(gomock.Any(), company, "2024-01-15", "2024-01-15").Return(itx, nil)
			itx.EXPECT().CreateTransactions(gomock.Any(), tt.want).Return(nil)
			itx.EXPECT().Commit().Return(nil)
			itx.EXPECT().Rollback().Return(nil)

			got, err := transaction.NewService(repo).Resolve(context.Background(), company, result, tt.decision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecision(t *testing.T) {
	d, err := transaction.ParseDecision(" SKIP ")
	require.NoError(t, err)
	assert.Equal(t, transaction.DecisionSkip, d)

	_, err = transaction.ParseDecision("merge")
	assert.Error(t, err)
}
