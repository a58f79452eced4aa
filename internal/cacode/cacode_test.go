package cacode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mictronics/multi-sdr-gps-sim/internal/cacode"
)

func TestGenerateLengthAndBinary(t *testing.T) {
	assert := assert.New(t)
	for prn := 1; prn <= 32; prn++ {
		ca := cacode.Generate(prn)
		assert.Len(ca, cacode.SeqLen)
		for _, c := range ca {
			assert.True(c == 0 || c == 1)
		}
	}
}

func TestGenerateInvalidPrn(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(cacode.Generate(0))
	assert.Nil(cacode.Generate(33))
}

func TestGenerateDeterministic(t *testing.T) {
	assert := assert.New(t)
	a := cacode.Generate(5)
	b := cacode.Generate(5)
	assert.Equal(a, b)
}

func TestDistinctPrnsProduceDistinctCodes(t *testing.T) {
	assert := assert.New(t)
	c1 := cacode.Generate(1)
	c2 := cacode.Generate(2)
	assert.NotEqual(c1, c2)
}
