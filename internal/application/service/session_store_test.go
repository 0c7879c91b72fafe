package service

import (
	"sync"
	"testing"

	"github.com/okanodev/kaitori-pos/internal/domain/entity"
	"github.com/okanodev/kaitori-pos/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionStore_UpdateCreatesSessionOnFirstUse(t *testing.T) {
	store := NewTransactionStore()

	tx, err := store.Update("register-1", func(tx *entity.Transaction) (*entity.Transaction, error) {
		assert.Empty(t, tx.Carts)
		return tx, nil
	})
	require.NoError(t, err)
	assert.Same(t, tx, store.Get("register-1"))
}

func TestTransactionStore_FailedUpdateKeepsPreviousSnapshot(t *testing.T) {
	store := NewTransactionStore()

	seeded := entity.NewTransaction()
	seeded.SubtotalAmount = 4200
	store.Put("register-1", seeded)

	got, err := store.Update("register-1", func(tx *entity.Transaction) (*entity.Transaction, error) {
		mutated := tx.Clone()
		mutated.SubtotalAmount = 9999
		return mutated, apperror.NewBadRequestError("rejected")
	})

	require.Error(t, err)
	assert.Equal(t, int64(4200), got.SubtotalAmount)
	assert.Equal(t, int64(4200), store.Get("register-1").SubtotalAmount)
}

func TestTransactionStore_SessionsAreIndependent(t *testing.T) {
	store := NewTransactionStore()

	a := entity.NewTransaction()
	a.SubtotalAmount = 1
	b := entity.NewTransaction()
	b.SubtotalAmount = 2

	store.Put("a", a)
	store.Put("b", b)

	assert.Equal(t, int64(1), store.Get("a").SubtotalAmount)
	assert.Equal(t, int64(2), store.Get("b").SubtotalAmount)

	store.Delete("a")
	assert.Nil(t, store.Get("a"))
	assert.NotNil(t, store.Get("b"))
}

func TestTransactionStore_ConcurrentUpdatesSerialize(t *testing.T) {
	store := NewTransactionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update("register-1", func(tx *entity.Transaction) (*entity.Transaction, error) {
				next := tx.Clone()
				next.SubtotalAmount++
				return next, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), store.Get("register-1").SubtotalAmount)
}
