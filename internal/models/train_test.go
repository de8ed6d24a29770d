package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrainCapacity(t *testing.T) {
	t.Run("Standard Layout", func(t *testing.T) {
		train := &Train{CargoNum: 5, SeatsInCargo: 40}
		assert.Equal(t, 200, train.Capacity())
	})

	t.Run("Single Cargo", func(t *testing.T) {
		train := &Train{CargoNum: 1, SeatsInCargo: 12}
		assert.Equal(t, 12, train.Capacity())
	})

	t.Run("Zero Cargo", func(t *testing.T) {
		train := &Train{CargoNum: 0, SeatsInCargo: 40}
		assert.Equal(t, 0, train.Capacity())
	})
}
