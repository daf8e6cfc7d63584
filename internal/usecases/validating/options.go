package validating

import (
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/config"
	"github.com/Havoc420didi/didi-amazon-analyst-sub000/internal/domain"
)

// Options reúne os limites usados pelas regras
type Options struct {
	SampleSize            int
	AmountTolerance       float64
	RatioTolerance        float64
	TurnoverTolerance     float64
	ZScoreThreshold       float64
	CoverageThreshold     float64
	LowCompletenessScore  float64
	LowCompletenessShare  float64
	TurnoverOutlierFactor float64
	AutoFix               bool
	Policy                domain.TurnoverPolicy
}

func DefaultOptions() Options {
	return Options{
		SampleSize:            50,
		AmountTolerance:       0.01,
		RatioTolerance:        1e-6,
		TurnoverTolerance:     0.01,
		ZScoreThreshold:       3,
		CoverageThreshold:     0.9,
		LowCompletenessScore:  0.5,
		LowCompletenessShare:  0.5,
		TurnoverOutlierFactor: 2,
		AutoFix:               true,
		Policy:                domain.DefaultTurnoverPolicy(),
	}
}

// OptionsFromConfig aplica a configuração sobre os defaults, ignorando valores zerados
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	v := cfg.Validation

	if v.SampleSize > 0 {
		opts.SampleSize = v.SampleSize
	}
	if v.AmountTolerance > 0 {
		opts.AmountTolerance = v.AmountTolerance
	}
	if v.RatioTolerance > 0 {
		opts.RatioTolerance = v.RatioTolerance
	}
	if v.ZScoreThreshold > 0 {
		opts.ZScoreThreshold = v.ZScoreThreshold
	}
	if v.CoverageThreshold > 0 {
		opts.CoverageThreshold = v.CoverageThreshold
	}
	if v.LowCompletenessScore > 0 {
		opts.LowCompletenessScore = v.LowCompletenessScore
	}
	if v.LowCompletenessShare > 0 {
		opts.LowCompletenessShare = v.LowCompletenessShare
	}
	if v.TurnoverOutlierFactor > 0 {
		opts.TurnoverOutlierFactor = v.TurnoverOutlierFactor
	}

	opts.AutoFix = cfg.SnapshotSync.AutoFixEnabled
	opts.Policy = domain.TurnoverPolicy{
		ShortageDays:   cfg.Turnover.ShortageDays,
		NormalDays:     cfg.Turnover.NormalDays,
		SufficientDays: cfg.Turnover.SufficientDays,
		SentinelDays:   cfg.Turnover.SentinelDays,
	}

	return opts
}
