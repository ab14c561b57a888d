package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/libro/internal/ledger"
)

var company = uuid.MustParse("4a3e0c8b-55a1-4f55-9a0e-2b8c7d6e5f40")

func TestService_CreateVoucher(t *testing.T) {
	balanced := []ledger.Entry{
		{AccountCode: " 1.01.01 ", Debe: 100},
		{AccountCode: "4.01.01", Haber: 100, Glosa: " venta "},
	}

	tests := []struct {
		name      string
		params    ledger.CreateVoucherParams
		setupMock func(m *ledger.MockRepository)
		wantErr   error
	}{
		{
			name:   "Success",
			params: ledger.CreateVoucherParams{Fecha: "2024-01-01", Glosa: "Venta contado", Entries: balanced},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().CreateVoucher(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, v *ledger.Voucher) error {
					v.Number = 7
					return nil
				})
			},
		},
		{
			name:    "NoEntries",
			params:  ledger.CreateVoucherParams{Fecha: "2024-01-01"},
			wantErr: ledger.ErrInvalidVoucher,
		},
		{
			name: "NegativeAmount",
			params: ledger.CreateVoucherParams{Fecha: "2024-01-01", Entries: []ledger.Entry{
				{AccountCode: "1.01.01", Debe: -5},
			}},
			wantErr: ledger.ErrInvalidVoucher,
		},
		{
			name: "MissingAccount",
			params: ledger.CreateVoucherParams{Fecha: "2024-01-01", Entries: []ledger.Entry{
				{Debe: 5},
			}},
			wantErr: ledger.ErrInvalidVoucher,
		},
		{
			name:    "BadDate",
			params:  ledger.CreateVoucherParams{Fecha: "01/01/2024", Entries: balanced},
			wantErr: ledger.ErrInvalidVoucher,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			v, err := ledger.NewService(repo).CreateVoucher(context.Background(), company, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, v)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, company, v.CompanyID)
			assert.Equal(t, 7, v.Number)
			require.Len(t, v.Entries, 2)
			assert.Equal(t, "1.01.01", v.Entries[0].AccountCode)
			assert.Equal(t, "venta", v.Entries[1].Glosa)
		})
	}
}

func TestService_CreateVoucher_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().CreateVoucher(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := ledger.NewService(repo).CreateVoucher(context.Background(), company, ledger.CreateVoucherParams{
		Fecha:   "2024-01-01",
		Entries: []ledger.Entry{{AccountCode: "1.01.01", Debe: 1}},
	})
	assert.ErrorContains(t, err, "disk full")
}

func TestService_SaveAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().
		SaveAccount(gomock.Any(), company, ledger.Account{Code: "2.01.09", Name: "Préstamos", Type: ledger.Pasivo}).
		Return(nil)

	svc := ledger.NewService(repo)

	a, err := svc.SaveAccount(context.Background(), company, ledger.Account{Code: " 2.01.09", Name: "Préstamos "})
	require.NoError(t, err)
	assert.Equal(t, ledger.Pasivo, a.Type)

	_, err = svc.SaveAccount(context.Background(), company, ledger.Account{Code: "1", Name: "X", Type: "otro"})
	assert.Error(t, err)

	_, err = svc.SaveAccount(context.Background(), company, ledger.Account{Code: "1"})
	assert.Error(t, err)
}

func TestService_Balance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListVouchers(gomock.Any(), company, "2024-01-01", "2024-12-31").Return([]*ledger.Voucher{
		{Fecha: "2024-03-01", Entries: []ledger.Entry{
			{AccountCode: "1.01.01", Debe: 500},
			{AccountCode: "4.01.01", Haber: 500},
		}},
	}, nil)
	repo.EXPECT().ListAccounts(gomock.Any(), company).Return(ledger.DefaultAccounts, nil)

	bal, err := ledger.NewService(repo).Balance(context.Background(), company, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	require.Len(t, bal.Rows, 2)
	assert.Equal(t, "Banco", bal.Rows[0].Name)
	assert.InDelta(t, 500.0, bal.Result, 1e-9)
}
