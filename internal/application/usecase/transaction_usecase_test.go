package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/application/usecase"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/policy"
	"github.com/jhoicas/Contabilidad-api/internal/testutil/memstore"
)

var (
	owner  = policy.Subject{UserID: 1, Role: entity.RoleOwner}
	staffA = policy.Subject{UserID: 2, Role: entity.RoleStaff}
	staffB = policy.Subject{UserID: 3, Role: entity.RoleStaff}
)

func as(s policy.Subject, res policy.Resource, act policy.Action) usecase.Actor {
	return usecase.ActorFor(s, res, act)
}

func createTx(t *testing.T, uc *usecase.TransactionUseCase, s policy.Subject, product string) *dto.TransactionResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), as(s, policy.Transactions, policy.Create), dto.CreateTransactionRequest{
		Type:     entity.TransactionSale,
		Product:  product,
		Quantity: 2,
		Price:    decimal.NewFromInt(1500),
	})
	require.NoError(t, err)
	return out
}

func TestTransactionCreate_AsignaPropietarioYCalculaMonto(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())

	out := createTx(t, uc, staffA, "Café")
	assert.Equal(t, staffA.UserID, out.OwnerID)
	assert.True(t, decimal.NewFromInt(3000).Equal(out.Amount), "monto = precio × cantidad")
}

func TestTransactionCreate_Validaciones(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	actor := as(staffA, policy.Transactions, policy.Create)
	ctx := context.Background()

	_, err := uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: "regalo", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionExpense})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin monto ni precio")

	out, err := uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionExpense, Amount: decimal.NewFromInt(80), Description: "arriendo"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Quantity)
	assert.Equal(t, "arriendo", out.Note)
}

func TestTransactionList_StaffSoloVeLasPropiasOwnerVeTodas(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()
	txA := createTx(t, uc, staffA, "A")
	txB := createTx(t, uc, staffB, "B")

	listB, err := uc.List(ctx, as(staffB, policy.Transactions, policy.Read), dto.TransactionListQuery{})
	require.NoError(t, err)
	require.Len(t, listB.Items, 1)
	assert.Equal(t, txB.ID, listB.Items[0].ID)
	assert.Equal(t, 1, listB.Page.Total)

	listOwner, err := uc.List(ctx, as(owner, policy.Transactions, policy.Read), dto.TransactionListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, listOwner.Page.Total)
	ids := []int64{listOwner.Items[0].ID, listOwner.Items[1].ID}
	assert.ElementsMatch(t, []int64{txA.ID, txB.ID}, ids)
}

func TestTransactionList_FiltroPorFechas(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	createTx(t, uc, staffA, "A")

	future := time.Now().Add(time.Hour)
	list, err := uc.List(context.Background(), as(staffA, policy.Transactions, policy.Read), dto.TransactionListQuery{From: &future})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	past := time.Now().Add(-time.Hour)
	_, err = uc.List(context.Background(), as(staffA, policy.Transactions, policy.Read), dto.TransactionListQuery{From: &future, To: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransaction_StaffNoLeeNiBorraAjenas(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()
	txA := createTx(t, uc, staffA, "A")

	_, err := uc.GetByID(ctx, as(staffB, policy.Transactions, policy.Read), txA.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = uc.Delete(ctx, as(staffB, policy.Transactions, policy.Delete), txA.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Sigue existiendo para su dueño.
	got, err := uc.GetByID(ctx, as(staffA, policy.Transactions, policy.Read), txA.ID)
	require.NoError(t, err)
	assert.Equal(t, txA.ID, got.ID)
}

func TestTransaction_OwnerBorraCualquiera(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()
	txA := createTx(t, uc, staffA, "A")

	require.NoError(t, uc.Delete(ctx, as(owner, policy.Transactions, policy.Delete), txA.ID))
	_, err := uc.GetByID(ctx, as(owner, policy.Transactions, policy.Read), txA.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionUpdateQuantity_SoloOwnerYRecalculaMonto(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()
	txA := createTx(t, uc, staffA, "A")

	_, err := uc.UpdateQuantity(ctx, as(staffA, policy.Transactions, policy.Update), txA.ID, dto.UpdateTransactionRequest{Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.UpdateQuantity(ctx, as(owner, policy.Transactions, policy.Update), txA.ID, dto.UpdateTransactionRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Quantity)
	assert.True(t, decimal.NewFromInt(7500).Equal(out.Amount))
	assert.Equal(t, staffA.UserID, out.OwnerID, "el propietario no cambia")

	_, err = uc.UpdateQuantity(ctx, as(owner, policy.Transactions, policy.Update), 999, dto.UpdateTransactionRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionCreate_MontosAcotadosYRedondeados(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()
	actor := as(staffA, policy.Transactions, policy.Create)

	_, err := uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionSale, Amount: decimal.RequireFromString("1e20")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto fuera de NUMERIC(18,2)")

	_, err = uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionSale, Amount: decimal.NewFromInt(5), Quantity: entity.MaxQuantity + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionSale, Price: decimal.New(1, 16)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio × cantidad también se acota")

	out, err := uc.Create(ctx, actor, dto.CreateTransactionRequest{Type: entity.TransactionIncome, Amount: decimal.RequireFromString("10.005")})
	require.NoError(t, err)
	assert.Equal(t, "10.01", out.Amount.String(), "se responde lo que se guarda")

	got, err := uc.GetByID(ctx, as(staffA, policy.Transactions, policy.Read), out.ID)
	require.NoError(t, err)
	assert.True(t, out.Amount.Equal(got.Amount))
}

func TestTransactionUpdateQuantity_MontoRecalculadoFueraDeRango(t *testing.T) {
	uc := usecase.NewTransactionUseCase(memstore.New().Transactions())
	ctx := context.Background()

	out, err := uc.Create(ctx, as(staffA, policy.Transactions, policy.Create), dto.CreateTransactionRequest{
		Type: entity.TransactionSale, Price: decimal.New(1, 13), Quantity: 1,
	})
	require.NoError(t, err)

	_, err = uc.UpdateQuantity(ctx, as(owner, policy.Transactions, policy.Update), out.ID, dto.UpdateTransactionRequest{Quantity: 1000})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
