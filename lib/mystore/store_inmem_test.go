package mystore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	UID   string
	Name  string
	Count int
}

var (
	rec = record{UID: "123", Name: "example", Count: 42}
)

func TestStore(t *testing.T) {
	c := context.TODO()
	ps, cleanup, err := newInMemoryStore[record](c)
	assert.NoError(t, err)
	defer cleanup()

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := ps.Get(c, rec.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put", func(t *testing.T) {
		err = ps.Put(c, rec.UID, rec)
		assert.NoError(t, err)
	})

	t.Run("Get found", func(t *testing.T) {
		r, found, err := ps.Get(c, rec.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, record{UID: "123", Name: "example", Count: 42}, r)
	})

	t.Run("List", func(t *testing.T) {
		all, err := ps.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []record{rec}, all)
	})

	t.Run("Delete", func(t *testing.T) {
		err := ps.Delete(c, rec.UID)
		assert.NoError(t, err)

		_, found, err := ps.Get(c, rec.UID)
		assert.NoError(t, err)
		assert.False(t, found)

		// deleting again is a no-op
		err = ps.Delete(c, rec.UID)
		assert.NoError(t, err)
	})

	t.Run("Put within transaction", func(t *testing.T) {
		err := ps.RunInTransaction(c, func(c context.Context) error {
			return ps.Put(c, "456", record{UID: "456", Name: "other", Count: 1})
		})
		assert.NoError(t, err)

		_, found, err := ps.Get(c, "456")
		assert.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("Transaction error propagates", func(t *testing.T) {
		err := ps.RunInTransaction(c, func(c context.Context) error {
			return fmt.Errorf("boom")
		})
		assert.Error(t, err)
	})
}
