package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaperPrimaryID(t *testing.T) {
	p := NewPaper()
	p.Title = "T"
	p.Source = "arxiv"
	p.ArxivID = "2401.0001"

	assert.Equal(t, "2401.0001", p.GetPrimaryID())

	p2 := NewPaper()
	p2.Title = "T"
	p2.Source = "arxiv"
	assert.Equal(t, HashIdentity("arxiv", "T"), p2.GetPrimaryID())
}

func TestSearchContentPrimaryID(t *testing.T) {
	s := NewSearchContent()
	s.Title = "Hi"
	s.URL = "https://example.com/a"
	assert.Equal(t, "https://example.com/a", s.GetPrimaryID())

	s.URL = ""
	s.Source = "web"
	assert.Equal(t, HashIdentity("web", "Hi"), s.GetPrimaryID())
}

func TestGetPrimaryIDIsStable(t *testing.T) {
	a := HashIdentity("src", "title")
	b := HashIdentity("src", "title")
	assert.Equal(t, a, b)
}

func TestRoundTripPaper(t *testing.T) {
	p := NewPaper()
	p.Title = "T"
	p.Abstract = "Abs"
	p.Content = "Body"
	p.Authors = []string{"A", "B"}
	p.Categories = []string{"q-fin"}
	p.Tags = []string{"ml"}
	p.Source = "arxiv"
	p.ArxivID = "2401.0001"
	p.PDFURL = "https://arxiv.org/pdf/2401.0001"
	p.PublishedDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.PrimaryCategory = "q-fin.CP"
	p.SetMeta("k", "v")

	data, err := Encode(p)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	got, ok := decoded.(*Paper)
	require.True(t, ok)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, p.ArxivID, got.ArxivID)
	assert.Equal(t, p.PDFURL, got.PDFURL)
	assert.Equal(t, p.PrimaryCategory, got.PrimaryCategory)
	assert.Equal(t, p.Tags, got.Tags)
	assert.Equal(t, p.MetaInfo, got.MetaInfo)
	assert.Equal(t, p.GetPrimaryID(), got.GetPrimaryID())
}

func TestRoundTripSearchContent(t *testing.T) {
	s := NewSearchContent()
	s.Title = "T"
	s.URL = "https://example.com/x"
	s.Snippet = "snip"
	s.Query = "q"

	data, err := Encode(s)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	got, ok := decoded.(*SearchContent)
	require.True(t, ok)
	assert.Equal(t, s.URL, got.URL)
	assert.Equal(t, s.Snippet, got.Snippet)
	assert.Equal(t, s.Query, got.Query)
}

func TestRoundTripGenericItem(t *testing.T) {
	data := []byte(`{"primary_id":"x","title":"hi","content_type":"generic","source":"t"}`)

	decoded, err := Decode(data)
	require.NoError(t, err)

	got, ok := decoded.(*BaseItem)
	require.True(t, ok)
	assert.Equal(t, "hi", got.Title)
	assert.Equal(t, ContentTypeGeneric, got.GetContentType())
}

func TestSearchGetTextForEmbedding(t *testing.T) {
	s := NewSearchContent()
	s.Title = "Title"
	s.Snippet = "Snippet"
	assert.Equal(t, "Title Snippet", s.GetTextForEmbedding())
}
