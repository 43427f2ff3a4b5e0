package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigator_Bounds(t *testing.T) {
	n := New(3)

	_, ok := n.Prev()
	assert.False(t, ok, "prev before first record")
	_, ok = n.Next()
	assert.False(t, ok, "next before first record")

	n.Commit(1)
	_, ok = n.Prev()
	assert.False(t, ok, "prev is a no-op at 1")
	next, ok := n.Next()
	require.True(t, ok)
	assert.Equal(t, 2, next.ID)

	n.Commit(3)
	_, ok = n.Next()
	assert.False(t, ok, "next is a no-op at max")
	prev, ok := n.Prev()
	require.True(t, ok)
	assert.Equal(t, 2, prev.ID)
}

func TestNavigator_PendingAdvances(t *testing.T) {
	n := New(10)
	n.Commit(4)

	next, _ := n.Next()
	n.MarkPending(next)
	again, ok := n.Next()
	require.True(t, ok)
	assert.Equal(t, 6, again.ID, "rapid next steps from the pending id")
	assert.Equal(t, 4, n.Cursor(), "cursor waits for resolution")

	n.Abort()
	after, _ := n.Next()
	assert.Equal(t, 5, after.ID)
}

func TestNavigator_CommitNormalizesNameLookups(t *testing.T) {
	n := New(1025)
	n.Commit(1)
	target, err := n.Parse("Pikachu")
	require.NoError(t, err)
	n.MarkPending(target)

	n.Commit(25)
	assert.Equal(t, 25, n.Cursor())
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "25", cur.Key())
}

func TestNavigator_CommitOutOfRangeKeepsCursor(t *testing.T) {
	n := New(151)
	n.Commit(6)
	n.Commit(10034)
	assert.Equal(t, 6, n.Cursor())
}

func TestNavigator_Parse(t *testing.T) {
	n := New(151)
	tests := []struct {
		in      string
		want    Target
		wantErr error
	}{
		{"25", Target{ID: 25}, nil},
		{" #007 ", Target{ID: 7}, nil},
		{"MewTwo", Target{Name: "mewtwo"}, nil},
		{"mr-mime", Target{Name: "mr-mime"}, nil},
		{"", Target{}, ErrEmptyQuery},
		{"   ", Target{}, ErrEmptyQuery},
		{"0", Target{}, ErrOutOfRange},
		{"152", Target{}, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := n.Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTarget_Key(t *testing.T) {
	assert.Equal(t, "12", Target{ID: 12}.Key())
	assert.Equal(t, "eevee", Target{Name: "eevee"}.Key())
}
