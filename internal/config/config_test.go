package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirawen/course-staff-tools/pkg/core/matcher"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.75, cfg.SectionBias)
	assert.False(t, cfg.MaximizeFilledSlots)
	assert.True(t, cfg.ConsecutiveBonus)
	assert.Equal(t, 0.75, cfg.ConsecutiveBonusWeight)
	assert.Equal(t, "oh", cfg.GlobalConsecutiveBonus)
	assert.True(t, cfg.SameTimeBonus)
	assert.Equal(t, 0.1, cfg.SameTimeBonusWeight)
	assert.Equal(t, 1, cfg.ConflictToleranceMinutes)
	assert.True(t, cfg.CrossCategoryConflicts)
	assert.Nil(t, cfg.Seed)
}

func TestLoadFromPath_PartialOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "course_staff_config.yaml")

	partial := `sectionBias: 0.5
globalConsecutiveBonus: all
seed: 42
`
	err := os.WriteFile(configPath, []byte(partial), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, 0.5, cfg.SectionBias)
	assert.Equal(t, "all", cfg.GlobalConsecutiveBonus)
	require.NotNil(t, cfg.Seed)
	assert.Equal(t, int64(42), *cfg.Seed)

	// untouched keys keep defaults
	assert.True(t, cfg.ConsecutiveBonus)
	assert.Equal(t, 1, cfg.ConflictToleranceMinutes)
}

func TestLoadFromPath_InvalidBias(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "course_staff_config.yaml")

	err := os.WriteFile(configPath, []byte("sectionBias: 1.5\n"), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidScope(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "course_staff_config.yaml")

	err := os.WriteFile(configPath, []byte("globalConsecutiveBonus: everything\n"), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestToMatcherConfig(t *testing.T) {
	cfg := Default()
	cfg.ConflictToleranceMinutes = 5
	cfg.GlobalConsecutiveBonus = "section"

	mc := cfg.ToMatcherConfig()

	assert.Equal(t, 0.75, mc.SectionBias)
	assert.Equal(t, 5*time.Minute, mc.ConflictTolerance)
	assert.Equal(t, matcher.GlobalBonusSection, mc.GlobalConsecutiveBonus)
	assert.True(t, mc.CrossCategoryConflicts)
}
