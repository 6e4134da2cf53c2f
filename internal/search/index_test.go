package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/easel/internal/imagesapi"
)

func img(id, title, author string) imagesapi.Image {
	return imagesapi.Image{ID: id, Title: title, Author: author}
}

func ids(images []imagesapi.Image) []string {
	out := make([]string, 0, len(images))
	for _, i := range images {
		out = append(out, i.ID)
	}
	return out
}

func TestQuery_BlankTermReturnsNil(t *testing.T) {
	idx := NewIndex()
	idx.Ingest(img("img-1", "Starry Night", "Vincent van Gogh"))

	assert.Nil(t, idx.Query(""))
	assert.Nil(t, idx.Query("   "))
}

func TestQuery_EmptyIndex(t *testing.T) {
	assert.Empty(t, NewIndex().Query("anything"))
}

func TestQuery_ToleratesTypo(t *testing.T) {
	idx := NewIndex()
	idx.Ingest(
		img("img-1", "Water Lilies", "Claude Monet"),
		img("img-2", "Sunflowers", "Vincent van Gogh"),
	)

	got := ids(idx.Query("vincet"))
	assert.Contains(t, got, "img-2")
	assert.NotContains(t, got, "img-1")

	// substitution typo the subsequence matcher cannot see
	got = ids(idx.Query("vincemt"))
	assert.Equal(t, []string{"img-2"}, got)
}

func TestQuery_ExactTokenRanksAbovePartial(t *testing.T) {
	idx := NewIndex()
	idx.Ingest(
		img("img-1", "Vincentian Chapel", "Unknown"),
		img("img-2", "Sunflowers", "Vincent van Gogh"),
	)

	got := ids(idx.Query("vincent"))
	require.Len(t, got, 2)
	assert.Equal(t, []string{"img-2", "img-1"}, got)
}

func TestQuery_MatchesTitleOrAuthorCaseInsensitive(t *testing.T) {
	idx := NewIndex()
	idx.Ingest(
		img("img-1", "The Scream", "Edvard Munch"),
		img("img-2", "Impression, Sunrise", "Claude Monet"),
	)

	assert.Equal(t, []string{"img-1"}, ids(idx.Query("SCREAM")))
	assert.Equal(t, []string{"img-2"}, ids(idx.Query("monet")))
}

func TestQuery_IsDeterministic(t *testing.T) {
	idx := NewIndex()
	for i := 1; i <= 30; i++ {
		idx.Ingest(img(fmt.Sprintf("img-%d", i), fmt.Sprintf("Study %d", i), "Anon"))
	}

	first := ids(idx.Query("study"))
	second := ids(idx.Query("study"))
	require.Len(t, first, 30)
	assert.Equal(t, first, second)
}

func TestIngest_DuplicatesDoNotCorruptResults(t *testing.T) {
	idx := NewIndex()
	page := []imagesapi.Image{
		img("img-1", "Starry Night", "Vincent van Gogh"),
		img("img-2", "Irises", "Vincent van Gogh"),
	}
	idx.Ingest(page...)
	idx.Ingest(page...)

	assert.Equal(t, 4, idx.Len())
	got := ids(idx.Query("gogh"))
	assert.ElementsMatch(t, []string{"img-1", "img-2"}, got)
}

func TestIngest_ReingestReturnsLatestCopy(t *testing.T) {
	idx := NewIndex()
	first := img("img-1", "Starry Night", "Vincent van Gogh")
	first.LikesCount = 1
	idx.Ingest(first)

	updated := first
	updated.LikesCount = 9
	idx.Ingest(updated)

	got := idx.Query("starry")
	require.Len(t, got, 1)
	assert.Equal(t, 9, got[0].LikesCount)
}

func TestTypoBudget(t *testing.T) {
	assert.Equal(t, 0, typoBudget("cat"))
	assert.Equal(t, 1, typoBudget("monet"))
	assert.Equal(t, 2, typoBudget("vincentian"))
}
