package nftlayers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraitValue(t *testing.T) {
	assert.Equal(t, "gold", TraitValue("gold.png"))
	assert.Equal(t, "laser.eyes", TraitValue("laser.eyes.JPEG"))
	assert.Equal(t, "plain", TraitValue("plain"))
}

func TestNewMetadata(t *testing.T) {
	combo := Combination{{"background", "blue.png"}, {"hat", "cap.jpg"}}
	m := NewMetadata(17, combo, DefaultMetadataOptions())

	assert.Equal(t, "NFT #17", m.Name)
	assert.Equal(t, "Unique auto-generated NFT", m.Description)
	assert.Equal(t, "ipfs://bafybeie4quiuijoxfxrunqy2ltamw5bhoynjuolnq25fcg6scdflfx5soi/17.png", m.Image)
	assert.Equal(t, []Attribute{
		{TraitType: "background", Value: "blue"},
		{TraitType: "hat", Value: "cap"},
	}, m.Attributes)

	m = NewMetadata(3, nil, MetadataOptions{NamePrefix: "Ape", ImageBaseURI: "https://cdn.example/"})
	assert.Equal(t, "Ape #3", m.Name)
	assert.Equal(t, "https://cdn.example/3.png", m.Image)
	assert.Empty(t, m.Attributes)
}

func TestWriteMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.json")
	m := NewMetadata(1, Combination{{"background", "a.png"}}, DefaultMetadataOptions())
	require.NoError(t, WriteMetadata(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"name\": \"NFT #1\"")
	assert.Contains(t, string(data), `"trait_type": "background"`)
	assert.NotContains(t, string(data), "palette")

	got, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}
