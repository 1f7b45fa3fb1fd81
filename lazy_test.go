package kiln

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_ResolvesOnce(t *testing.T) {
	var calls atomic.Int32

	p := buildProvider(t, NewCollection().AddFactory(aType, Transient, func(Resolver) (any, error) {
		calls.Add(1)

		return &mockService{name: "a"}, nil
	}))

	lazy := NewLazy[*mockService](p, aType)
	assert.False(t, lazy.IsResolved())
	assert.Equal(t, int32(0), calls.Load())
	assert.True(t, lazy.ID().Equal(aType))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := lazy.Get()
			assert.NoError(t, err)
			assert.Equal(t, "a", v.name)
		}()
	}

	wg.Wait()

	assert.True(t, lazy.IsResolved())
	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, lazy.MustGet(), lazy.MustGet())
}

func TestLazy_NotFound(t *testing.T) {
	p := buildProvider(t, NewCollection())

	lazy := NewLazy[*mockService](p, aType)

	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrServiceNotFoundSentinel)
	assert.False(t, lazy.IsResolved())
	assert.Panics(t, func() { lazy.MustGet() })
}

func TestOptionalLazy(t *testing.T) {
	p := buildProvider(t, NewCollection().AddFactory(aType, Singleton, newMock("a")))

	present := NewOptionalLazy[*mockService](p, aType)
	v, err := present.Get()
	require.NoError(t, err)
	assert.Equal(t, "a", v.name)
	assert.True(t, present.IsResolved())
	assert.True(t, present.IsFound())

	missing := NewOptionalLazy[*mockService](p, bType)
	assert.NotPanics(t, func() {
		assert.Nil(t, missing.MustGet())
	})
	assert.True(t, missing.IsResolved())
	assert.False(t, missing.IsFound())
	assert.True(t, missing.ID().Equal(bType))
}

func TestOptionalLazy_TypeMismatch(t *testing.T) {
	p := buildProvider(t, NewCollection().AddInstance(aType, "not a service"))

	lazy := NewOptionalLazy[*mockService](p, aType)

	_, err := lazy.Get()
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
	assert.False(t, lazy.IsResolved())
	assert.Panics(t, func() { lazy.MustGet() })
}

func TestProducer(t *testing.T) {
	p := buildProvider(t, NewCollection().AddFactory(cType, Transient, newMock("c")))

	producer := NewProducer[*mockService](p, cType)
	assert.True(t, producer.ID().Equal(cType))

	first, err := producer.Produce()
	require.NoError(t, err)
	second := producer.MustProduce()
	assert.NotSame(t, first, second)

	missing := NewProducer[*mockService](p, dType)
	_, err = missing.Produce()
	assert.ErrorIs(t, err, ErrServiceNotFoundSentinel)
	assert.Panics(t, func() { missing.MustProduce() })
}
