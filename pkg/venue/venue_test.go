package venue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanonicalizes(t *testing.T) {
	id, err := New("  Hall\t  A ")
	require.NoError(t, err)

	assert.Equal(t, "Hall A", id.Name())
	assert.Equal(t, "hall a", id.Key())

	_, err = New("   ")
	assert.ErrorIs(t, err, ErrEmptyVenue)
}

func TestIsBypass(t *testing.T) {
	for _, raw := range []string{"na", "NA", " Others ", "HOUSE", "self", "\tSelf\n"} {
		assert.True(t, IsBypass(raw), raw)
	}
	for _, raw := range []string{"Hall A", "nan", "my house", ""} {
		assert.False(t, IsBypass(raw), raw)
	}
}

func TestSetDeduplicatesByKey(t *testing.T) {
	s, err := ParseSet([]string{"Hall A", "hall a", " HALL  A", "Hall B"})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"Hall A", "Hall B"}, s.Names())
	assert.Equal(t, []string{"hall a", "hall b"}, s.Keys())
}

func TestParseSetRejectsBlank(t *testing.T) {
	_, err := ParseSet([]string{"Hall A", " "})
	assert.ErrorIs(t, err, ErrEmptyVenue)
}

func TestIntersectAndUnion(t *testing.T) {
	a, _ := ParseSet([]string{"Hall A", "Hall B"})
	b, _ := ParseSet([]string{"hall b", "Terrace"})

	common := a.Intersect(b)
	assert.Equal(t, []string{"Hall B"}, common.Names())

	empty := a.Intersect(NewSet())
	assert.Equal(t, 0, empty.Len())

	a.Union(b)
	assert.Equal(t, []string{"Hall A", "Hall B", "Terrace"}, a.Names())
}

func TestSortedNames(t *testing.T) {
	s, _ := ParseSet([]string{"terrace", "Hall B", "hall a"})
	assert.Equal(t, []string{"hall a", "Hall B", "terrace"}, s.SortedNames())
}

func TestAnyBypass(t *testing.T) {
	s, _ := ParseSet([]string{"Hall A", "House"})
	assert.True(t, s.AnyBypass())

	s, _ = ParseSet([]string{"Hall A"})
	assert.False(t, s.AnyBypass())
}
