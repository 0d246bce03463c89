package detect

import (
	"errors"

	"insider-radar/internal/convergence"
	"insider-radar/internal/domain"
)

// Factory errors
var (
	ErrNonPositiveWindow      = errors.New("detector window must be positive")
	ErrNonPositiveActors      = errors.New("detector minimum actor count must be positive")
	ErrNonPositiveValue       = errors.New("detector value floor must be positive")
	ErrEmptyAllowList         = errors.New("elite allow-list must not be empty")
	ErrMissingWatchlistSource = errors.New("watchlist source is required")
)

// Config carries every detector threshold. Values come from the config
// file with defaults already applied.
type Config struct {
	ClusterWindowDays int
	ClusterMinActors  int
	ClusterMinValue   float64

	BearishWindowDays int
	BearishMinActors  int
	BearishMinValue   float64

	CSuiteMinValue      float64
	LargeSingleMinValue float64

	EliteWindowDays        int
	EliteMinActors         int
	EliteSingleMinValueLow float64
	EliteAllowList         []string

	// Tag sets resolved once at config load.
	CSuiteRoles       domain.TagSet
	CorporateEntities domain.TagSet
}

// BuildAll creates the full detector set from config. Validates thresholds
// per detector and fails fast on the first invalid one.
func BuildAll(cfg Config, analyzer *convergence.Analyzer, watchlist WatchlistSource) ([]Detector, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if watchlist == nil {
		return nil, ErrMissingWatchlistSource
	}

	allowed := NewAllowList(cfg.EliteAllowList)

	return []Detector{
		NewClusterBuyDetector(cfg.ClusterWindowDays, cfg.ClusterMinActors, cfg.ClusterMinValue),
		NewCSuiteBuyDetector(cfg.CSuiteMinValue, cfg.CSuiteRoles),
		NewCorporateBuyDetector(cfg.CorporateEntities),
		NewBearishClusterDetector(cfg.BearishWindowDays, cfg.BearishMinActors, cfg.BearishMinValue),
		NewLargeSingleBuyDetector(cfg.LargeSingleMinValue),
		NewEliteClusterDetector(cfg.EliteWindowDays, cfg.EliteMinActors, allowed),
		NewEliteSingleBuyDetector(cfg.EliteSingleMinValueLow, allowed),
		NewConvergenceDetector(analyzer),
		NewWatchlistDetector(watchlist),
	}, nil
}

func validate(cfg Config) error {
	if cfg.ClusterWindowDays <= 0 || cfg.BearishWindowDays <= 0 || cfg.EliteWindowDays <= 0 {
		return ErrNonPositiveWindow
	}
	if cfg.ClusterMinActors <= 0 || cfg.BearishMinActors <= 0 || cfg.EliteMinActors <= 0 {
		return ErrNonPositiveActors
	}
	if cfg.ClusterMinValue <= 0 || cfg.BearishMinValue <= 0 ||
		cfg.CSuiteMinValue <= 0 || cfg.LargeSingleMinValue <= 0 || cfg.EliteSingleMinValueLow <= 0 {
		return ErrNonPositiveValue
	}
	if len(cfg.EliteAllowList) == 0 {
		return ErrEmptyAllowList
	}
	return nil
}
