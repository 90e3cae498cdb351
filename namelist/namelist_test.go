package namelist

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_PreservesOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	l := New("b.txt", "a.txt")
	l.Add("b.txt")

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"b.txt", "a.txt", "b.txt"}, l.Names())
	assert.Equal(t, []string{"b.txt", "a.txt", "b.txt"}, slices.Collect(l.All()))
}

func TestList_NamesReturnsCopy(t *testing.T) {
	t.Parallel()

	src := []string{"a"}
	l := New(src...)
	src[0] = "changed"
	names := l.Names()
	names[0] = "changed"

	assert.Equal(t, []string{"a"}, l.Names())
}

func TestList_ZeroValue(t *testing.T) {
	t.Parallel()

	var l List
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Contains("a"))
	l.Add("a")
	assert.True(t, l.Contains("a"))

	var nilList *List
	assert.Equal(t, 0, nilList.Len())
	assert.Nil(t, nilList.Names())
	assert.Empty(t, slices.Collect(nilList.All()))
	assert.True(t, nilList.IsSubsetOf(New("x")))
}

func TestList_Subset(t *testing.T) {
	t.Parallel()

	archive := New("a.txt", "b.txt", "c.txt")

	assert.True(t, New("a.txt", "c.txt").IsSubsetOf(archive))
	assert.True(t, New("a.txt", "a.txt").IsSubsetOf(archive))
	assert.True(t, New().IsSubsetOf(archive))
	assert.False(t, New("a.txt", "g.txt").IsSubsetOf(archive))
	assert.False(t, New("a.txt").IsSubsetOf(nil))

	assert.Equal(t, []string{"g.txt", "h.txt"}, New("g.txt", "a.txt", "h.txt", "g.txt").Missing(archive))
	assert.Empty(t, New("b.txt").Missing(archive))
}

func TestList_AllStopsEarly(t *testing.T) {
	t.Parallel()

	var seen []string
	for name := range New("a", "b", "c").All() {
		seen = append(seen, name)
		if name == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}
