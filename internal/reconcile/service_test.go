package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
	"github.com/MrJamesThe3rd/libro/internal/reconcile"
)

func TestService_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	companyID := uuid.New()
	lines := []reconcile.BankLine{
		{Fecha: "2024-01-05", Descripcion: "Transferencia", Monto: 100},
		{Fecha: "2024-01-01", Descripcion: "Deposito", Monto: 50},
	}

	vouchers := reconcile.NewMockVoucherLister(ctrl)
	vouchers.EXPECT().ListVouchers(gomock.Any(), companyID, "2024-01-01", "2024-01-05").Return([]*ledger.Voucher{
		{ID: uuid.New(), Fecha: "2024-01-05", Entries: []ledger.Entry{
			{AccountCode: reconcile.DefaultBankAccount, Debe: 100},
			{AccountCode: "1.01.03", Haber: 100},
		}},
	}, nil)

	res, err := reconcile.NewService(vouchers, "").Reconcile(context.Background(), companyID, lines)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Unmatched)
	assert.True(t, res.Lines[0].Matched)
	assert.False(t, res.Lines[1].Matched)
	assert.InDelta(t, 150.0, res.BankTotal, 1e-9)
	assert.InDelta(t, 100.0, res.BookTotal, 1e-9)
}

func TestService_ReconcileEmptyStatement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	res, err := reconcile.NewService(reconcile.NewMockVoucherLister(ctrl), "1.01.02").Reconcile(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Lines)
	assert.Zero(t, res.Matched)
}

func TestService_ReconcileListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	boom := errors.New("boom")

	vouchers := reconcile.NewMockVoucherLister(ctrl)
	vouchers.EXPECT().ListVouchers(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := reconcile.NewService(vouchers, "").Reconcile(context.Background(), uuid.New(), []reconcile.BankLine{{Fecha: "2024-01-01"}})
	assert.ErrorIs(t, err, boom)
}
