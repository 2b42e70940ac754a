package tagger

import (
	"context"
	"testing"

	"github.com/llmquant/quantmind/pkg/config"
	"github.com/llmquant/quantmind/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTagger struct {
	called bool
}

func (f *fakeTagger) TagItem(ctx context.Context, item model.KnowledgeItem) error {
	f.called = true
	return nil
}

func TestNewReturnsNilForNilSection(t *testing.T) {
	tg, err := New(nil)
	require.NoError(t, err)
	assert.Nil(t, tg)
}

func TestNewUnknownTypeFails(t *testing.T) {
	_, err := New(&config.RawSection{Type: "does-not-exist"})
	assert.Error(t, err)
}

func TestRegisterTaggerAddsNewConstructorType(t *testing.T) {
	fake := &fakeTagger{}
	require.NoError(t, RegisterTagger("registry_test_fake", func(section *config.RawSection) (Tagger, error) {
		return fake, nil
	}))

	tg, err := New(&config.RawSection{Type: "registry_test_fake"})
	require.NoError(t, err)

	require.NoError(t, tg.TagItem(context.Background(), model.NewPaper()))
	assert.True(t, fake.called)
}
