package listings

import (
	"testing"

	"listing-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Target(t *testing.T) {
	cfg := Config{
		Maker:      "현대",
		Model:      "그랜저",
		Submodel:   "그랜저 (GN7)",
		YearStart:  "202201",
		MileageEnd: "30000",
		Options:    " 001, 010 ,,",
	}

	target := cfg.Target()
	assert.Equal(t, "현대|그랜저|그랜저 (GN7)", target.Key())
	assert.Equal(t, map[string]reconcile.Range{
		"year":    {Start: "202201"},
		"mileage": {End: "30000"},
	}, target.Ranges)
	assert.Equal(t, []string{"001", "010"}, target.Options)
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{Maker: "기아"}.Validate(), ErrTargetNotConfigured)
	assert.NoError(t, Config{Maker: "기아", Model: "쏘렌토", Submodel: "쏘렌토 4세대"}.Validate())
}
