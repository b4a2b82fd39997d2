package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "Items", want: []string{"Items"}},
		{name: "multiple", input: "Items, Crafting,Combat", want: []string{"Items", "Crafting", "Combat"}},
		{name: "whitespace and empties", input: " Items ,, Crafting , ", want: []string{"Items", "Crafting"}},
		{name: "duplicates removed", input: "Items,Items, Items", want: []string{"Items"}},
		{name: "only separators", input: ", ,,", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.input))
		})
	}
}

func TestMergeTags(t *testing.T) {
	assert.Equal(t, []string{"Items", "Crafting"}, MergeTags([]string{"Items"}, []string{"Crafting"}))
	assert.Equal(t, []string{"Items"}, MergeTags([]string{"Items"}, []string{"Items"}))
	assert.Equal(t, []string{"Crafting"}, MergeTags(nil, []string{"Crafting"}))
	assert.Empty(t, MergeTags(nil, nil))

	// Union is a superset of both inputs with no duplicates.
	merged := MergeTags([]string{"Items", "Combat"}, []string{"Combat", "Audio"})
	assert.Equal(t, []string{"Items", "Combat", "Audio"}, merged)
}

func TestVisibilityMapping(t *testing.T) {
	tests := []struct {
		visibility Visibility
		code       int
	}{
		{VisibilityPublic, 0},
		{VisibilityFriends, 1},
		{VisibilityPrivate, 2},
		{VisibilityUnlisted, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.visibility), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.visibility.RemoteCode())
			assert.Equal(t, tt.visibility, VisibilityFromRemoteCode(tt.code))
		})
	}
}

func TestVisibilityMapping_FailsClosed(t *testing.T) {
	// Unknown or absent visibility must never map to public.
	assert.Equal(t, 2, Visibility("").RemoteCode())
	assert.Equal(t, 2, Visibility("everyone").RemoteCode())
	assert.Equal(t, VisibilityPrivate, VisibilityFromRemoteCode(99))
	assert.Equal(t, VisibilityPrivate, VisibilityFromRemoteCode(-1))
}

func TestUploadRecord_IsUpdate(t *testing.T) {
	assert.False(t, (&UploadRecord{}).IsUpdate())
	assert.True(t, (&UploadRecord{ItemID: "123"}).IsUpdate())
}

func TestUploadRecord_ParsedTags(t *testing.T) {
	rec := &UploadRecord{Tags: "Items, Audio"}
	assert.Equal(t, []string{"Items", "Audio"}, rec.ParsedTags())
}

func TestPackageMetadata_IsUsable(t *testing.T) {
	var nilMeta *PackageMetadata
	assert.False(t, nilMeta.IsUsable())
	assert.False(t, (&PackageMetadata{}).IsUsable())
	assert.True(t, (&PackageMetadata{Name: "sky-lotus"}).IsUsable())

	// Inferred tags alone make a result usable.
	assert.True(t, (&PackageMetadata{Tags: []string{"Items"}}).IsUsable())
}
