package activity

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListEmpty(t *testing.T) {
	require.Nil(t, New(4).List())
}

func TestListNewestFirst(t *testing.T) {
	l := New(4)
	l.Add(Event{At: time.Now(), Type: EventPlacement, Model: "a"})
	l.Add(Event{At: time.Now(), Type: EventPlacement, Model: "b"})

	out := l.List()
	require.Len(t, out, 2)
	require.Equal(t, "b", out[0].Model)
	require.Equal(t, "a", out[1].Model)
}

func TestRingWraps(t *testing.T) {
	l := New(3)
	for i := 0; i < 5; i++ {
		l.Add(Event{Type: EventUnloadRequested, Model: strconv.Itoa(i)})
	}

	out := l.List()
	require.Len(t, out, 3)
	require.Equal(t, "4", out[0].Model)
	require.Equal(t, "3", out[1].Model)
	require.Equal(t, "2", out[2].Model)
}
