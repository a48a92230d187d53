package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stepherg/rigtune"
)

func bloat(id string, enabled bool) rigtune.StartupProgram {
	return rigtune.StartupProgram{ID: id, Enabled: enabled, Impact: rigtune.ImpactLow, Category: rigtune.CategoryBloatware}
}

func rec(id string, enabled bool) rigtune.OptimizationSetting {
	return rigtune.OptimizationSetting{ID: id, Enabled: enabled, Recommended: true, Category: rigtune.SettingPerformance}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		programs []rigtune.StartupProgram
		settings []rigtune.OptimizationSetting
		want     int
	}{
		{name: "empty catalog scores both midpoints", want: 100},
		{
			name:     "no bloatware keeps startup half at 50",
			programs: []rigtune.StartupProgram{{ID: "g", Enabled: true, Category: rigtune.CategoryGaming, Impact: rigtune.ImpactHigh}},
			settings: []rigtune.OptimizationSetting{rec("a", false)},
			want:     50,
		},
		{
			name:     "no recommended settings keeps settings half at 50",
			programs: []rigtune.StartupProgram{bloat("b", true)},
			settings: []rigtune.OptimizationSetting{{ID: "x", Enabled: true, Category: rigtune.SettingVisual}},
			want:     50,
		},
		{
			name:     "non-recommended settings are ignored",
			programs: []rigtune.StartupProgram{bloat("b", false)},
			settings: []rigtune.OptimizationSetting{rec("a", false), {ID: "x", Enabled: true, Category: rigtune.SettingVisual}},
			want:     50,
		},
		{
			name:     "thirds round to nearest",
			programs: []rigtune.StartupProgram{bloat("1", false), bloat("2", true), bloat("3", true)},
			want:     67, // 16.67 + 50
		},
		{
			name:     "quarters and eighths round to nearest",
			programs: []rigtune.StartupProgram{bloat("1", false), bloat("2", true), bloat("3", true), bloat("4", true)},
			settings: []rigtune.OptimizationSetting{rec("a", true), rec("b", false), rec("c", false), rec("d", false), rec("e", false), rec("f", false), rec("g", false), rec("h", false)},
			want:     19, // 12.5 + 6.25 = 18.75
		},
		{
			name:     "half point rounds up",
			programs: []rigtune.StartupProgram{bloat("1", true)},
			settings: []rigtune.OptimizationSetting{rec("a", true), rec("b", false), rec("c", false), rec("d", false)},
			want:     13, // 12.5
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.programs, tt.settings))
		})
	}
}

func TestScoreBoundsAndMonotonicity(t *testing.T) {
	s := Default()
	settings := s.OptimizationSettings()
	last := s.OptimizationScore()
	for _, st := range settings {
		if !st.Recommended || st.Enabled {
			continue
		}
		s.ToggleOptimizationSetting(st.ID)
		score := s.OptimizationScore()
		assert.GreaterOrEqual(t, score, last, "enabling %s lowered the score", st.ID)
		assert.LessOrEqual(t, score, 100)
		last = score
	}
	assert.Equal(t, 50, last)

	for _, p := range s.StartupPrograms() {
		if p.Category == rigtune.CategoryBloatware {
			s.ToggleStartupProgram(p.ID)
		}
		score := s.OptimizationScore()
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
	assert.Equal(t, 100, s.OptimizationScore())
}
