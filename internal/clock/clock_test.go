package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealtime(t *testing.T) {
	before := time.Now().Unix()
	got, err := Realtime{}.Now()
	require.NoError(t, err)
	after := time.Now().Unix()
	require.GreaterOrEqual(t, got, before)
	require.LessOrEqual(t, got, after)
}

func TestFixedAndFunc(t *testing.T) {
	got, err := Fixed(42).Now()
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	got, err = Func(func() (int64, error) { return 7, nil }).Now()
	require.NoError(t, err)
	require.Equal(t, int64(7), got)
}
