package errno

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeaningTable(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{Ok, "Ok"},
		{Failed, "Failed"},
		{MemoryCorruption, "Memory Corruption"},
		{CPUException, "CPU Exception"},
		{ProcessFailure, "Process Failure"},
		{AllocationFailure, "Allocation Failure"},
		{InvalidInput, "Invalid Input"},
		{MissingFeature, "Missing Feature"},
	}
	for i, tt := range tests {
		require.EqualValues(t, i, tt.code, "codes are dense from 0")
		m, ok := tt.code.Meaning()
		require.True(t, ok)
		assert.Equal(t, tt.want, m)
	}

	_, ok := Code(8).Meaning()
	assert.False(t, ok)
	_, ok = Code(-1).Meaning()
	assert.False(t, ok)
	assert.Equal(t, "Code(42)", Code(42).String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "malloc: Allocation Failure (os error 5)", Format("malloc", AllocationFailure))
	assert.Equal(t, "boot: Ok (os error 0)", Format("boot", Ok))
	assert.Equal(t, "weird: (os error 99)", Format("weird", Code(99)))
}

func TestStateDefaultsAndOverwrites(t *testing.T) {
	var s State
	require.Equal(t, Ok, s.Get())

	s.Set(AllocationFailure)
	require.Equal(t, AllocationFailure, s.Get())
	require.Equal(t, AllocationFailure, s.Get(), "reads are non-destructive")

	s.Set(InvalidInput)
	require.Equal(t, InvalidInput, s.Get(), "writes overwrite, never merge")

	*s.Location() = int32(Ok)
	require.Equal(t, Ok, s.Get())
}

func TestStatesAreIndependent(t *testing.T) {
	states := make([]State, 8)
	var wg sync.WaitGroup
	for i := range states {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i].Set(Code(i))
		}(i)
	}
	wg.Wait()
	for i := range states {
		require.Equal(t, Code(i), states[i].Get())
	}
}

func TestFaultUnwrapsToCode(t *testing.T) {
	f := &Fault{Code: MemoryCorruption, Op: "deallocate", Msg: "size mismatch"}
	require.True(t, errors.Is(f, MemoryCorruption))
	require.False(t, errors.Is(f, AllocationFailure))
	require.Equal(t, "deallocate: Memory Corruption: size mismatch", f.Error())
	require.Equal(t, "free: Code(42): bad", (&Fault{Code: 42, Op: "free", Msg: "bad"}).Error())
}

func TestCodeFormatting(t *testing.T) {
	assert.Equal(t, "Allocation Failure", AllocationFailure.String())
	assert.Equal(t, "errno: Allocation Failure", AllocationFailure.Error())
	// fmt picks Error over String
	assert.Equal(t, "errno: Allocation Failure", fmt.Sprint(AllocationFailure))
	assert.Equal(t, "Allocation Failure", fmt.Sprint(AllocationFailure.String()))
}
