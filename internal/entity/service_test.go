package entity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/libro/internal/entity"
	"github.com/MrJamesThe3rd/libro/internal/transaction"
)

var company = uuid.MustParse("9e2b3c4d-1a2b-4c3d-8e9f-0a1b2c3d4e5f")

func tx(rut, name string) *transaction.Transaction {
	return &transaction.Transaction{RUT: rut, RazonSocial: name}
}

func TestService_Fill(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	repo.EXPECT().
		FindNames(gomock.Any(), company, []string{"11111111-1", "33333333-3"}).
		Return(map[string]string{"11111111-1": "Ferretería Sur"}, nil)

	txs := []*transaction.Transaction{
		tx("11111111-1", transaction.UnknownName),
		tx("22222222-2", "Ya Tiene Nombre"),
		tx("33333333-3", transaction.UnknownName),
		tx("11111111-1", transaction.UnknownName),
		tx(transaction.UnknownRUT, transaction.UnknownName),
	}

	filled, err := entity.NewService(repo).Fill(context.Background(), company, txs)
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.Equal(t, "Ferretería Sur", txs[0].RazonSocial)
	assert.Equal(t, "Ya Tiene Nombre", txs[1].RazonSocial)
	assert.Equal(t, transaction.UnknownName, txs[2].RazonSocial)
	assert.Equal(t, "Ferretería Sur", txs[3].RazonSocial)
	assert.Equal(t, transaction.UnknownName, txs[4].RazonSocial)
}

func TestService_Fill_NothingToLookUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	filled, err := entity.NewService(entity.NewMockRepository(ctrl)).
		Fill(context.Background(), company, []*transaction.Transaction{tx("1-9", "Alguien")})
	require.NoError(t, err)
	assert.Zero(t, filled)
}

func TestService_LearnFrom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().
			FindNames(gomock.Any(), company, []string{"11111111-1", "22222222-2"}).
			Return(map[string]string{}, nil),
		repo.EXPECT().Upsert(gomock.Any(), company, []entity.Entity{
			{RUT: "11111111-1", Name: "Ferretería Sur Ltda"},
			{RUT: "22222222-2", Name: "Cliente"},
		}).Return(nil),
	)

	err := entity.NewService(repo).LearnFrom(context.Background(), company, []*transaction.Transaction{
		tx("11111111-1", "Ferretería"),
		tx("22222222-2", "Cliente"),
		tx("11111111-1", "Ferretería Sur Ltda"),
		tx("11111111-1", "Ferr"),
		tx(transaction.UnknownRUT, "Sin Rut"),
		tx("33333333-3", transaction.UnknownName),
	})
	require.NoError(t, err)
}

func TestService_LearnFrom_KeepsLongerRecordedName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().
			FindNames(gomock.Any(), company, []string{"76543210-1", "22222222-2"}).
			Return(map[string]string{"76543210-1": "Proveedor Uno Servicios SpA", "22222222-2": "Cli"}, nil),
		repo.EXPECT().Upsert(gomock.Any(), company, []entity.Entity{{RUT: "22222222-2", Name: "Cliente Dos"}}).Return(nil),
	)

	err := entity.NewService(repo).LearnFrom(context.Background(), company, []*transaction.Transaction{
		tx("76543210-1", "Prov Uno"),
		tx("22222222-2", "Cliente Dos"),
	})
	require.NoError(t, err)
}

func TestService_LearnFrom_NothingLonger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	repo.EXPECT().
		FindNames(gomock.Any(), company, []string{"1-9"}).
		Return(map[string]string{"1-9": "Uno"}, nil)

	err := entity.NewService(repo).LearnFrom(context.Background(), company, []*transaction.Transaction{tx("1-9", "Uno")})
	require.NoError(t, err)
}

func TestService_Learn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	repo.EXPECT().Upsert(gomock.Any(), company, []entity.Entity{{RUT: "1-9", Name: "Uno"}}).Return(nil)

	svc := entity.NewService(repo)
	require.NoError(t, svc.Learn(context.Background(), company, " 1-9 ", " Uno "))
	require.NoError(t, svc.Learn(context.Background(), company, transaction.UnknownRUT, "Nadie"))
}

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := entity.NewMockRepository(ctrl)
	repo.EXPECT().FindName(gomock.Any(), company, "1-9").Return("Uno", nil)

	name, err := entity.NewService(repo).Suggest(context.Background(), company, "1-9")
	require.NoError(t, err)
	assert.Equal(t, "Uno", name)
}
