package deterministicmap

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSetKeepsKeysSorted(t *testing.T) {
	requireT := require.New(t)

	m := New[string, int]()
	for i, key := range []string{"uvic", "uatom", "ubary", "uatom"} {
		m.Set(key, i)
	}

	requireT.Equal(3, m.Len())
	requireT.Equal([]string{"uatom", "ubary", "uvic"}, m.Keys())

	v, ok := m.Get("uatom")
	requireT.True(ok)
	requireT.Equal(3, v)
}

func TestDelete(t *testing.T) {
	requireT := require.New(t)

	m := New[string, string]()
	m.Set("a", "b")
	m.Set("c", "d")
	requireT.Equal(2, m.Len())
	m.Delete("a")
	requireT.Equal(1, m.Len())
	m.Delete("a") // noop
	requireT.Equal([]string{"c"}, m.Keys())
	_, ok := m.Get("a")
	requireT.False(ok)
}

func TestZeroValue(t *testing.T) {
	requireT := require.New(t)

	var m Map[uint64, string]
	requireT.Equal(0, m.Len())
	m.Delete(1)
	m.Range(func(uint64, string) bool {
		requireT.Fail("empty map must not be ranged")
		return true
	})
	m.Set(2, "b")
	m.Set(1, "a")
	requireT.Equal([]uint64{1, 2}, m.Keys())
}

func TestUpdate(t *testing.T) {
	requireT := require.New(t)

	m := New[string, int]()
	add := func(delta int) func(int, bool) int {
		return func(current int, _ bool) int {
			return current + delta
		}
	}
	m.Update("x", add(5))
	m.Update("x", add(7))
	m.Update("a", add(1))

	v, _ := m.Get("x")
	requireT.Equal(12, v)
	requireT.Equal([]string{"a", "x"}, m.Keys())
}

func TestRange(t *testing.T) {
	requireT := require.New(t)

	m := New[int, string]()
	m.Set(3, "c")
	m.Set(1, "a")
	m.Set(2, "b")

	var visited []string
	m.Range(func(_ int, v string) bool {
		visited = append(visited, v)
		return v != "b"
	})
	requireT.Equal([]string{"a", "b"}, visited)

	errStop := errors.New("stop")
	visited = nil
	err := m.RangeErr(func(k int, v string) error {
		visited = append(visited, v)
		if k == 2 {
			return errStop
		}
		return nil
	})
	requireT.ErrorIs(err, errStop)
	requireT.Equal([]string{"a", "b"}, visited)
}
