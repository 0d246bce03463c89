package detect

import (
	"context"

	"insider-radar/internal/domain"
	"insider-radar/internal/repository"
)

// ClusterBuyDetector finds coordinated insider buying: several distinct
// insiders buying the same ticker within a short window.
type ClusterBuyDetector struct {
	WindowDays int
	MinActors  int
	MinValue   float64
}

// NewClusterBuyDetector creates a new ClusterBuyDetector.
func NewClusterBuyDetector(windowDays, minActors int, minValue float64) *ClusterBuyDetector {
	return &ClusterBuyDetector{WindowDays: windowDays, MinActors: minActors, MinValue: minValue}
}

// Kind returns the pattern this detector emits.
func (d *ClusterBuyDetector) Kind() domain.PatternKind {
	return domain.PatternClusterBuy
}

// Detect returns at most one cluster signal per ticker.
func (d *ClusterBuyDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	return detectClusters(snap, domain.PatternClusterBuy, domain.ClassInsider,
		domain.DirectionBuy, d.WindowDays, d.MinActors, d.MinValue, nil), nil
}

// BearishClusterDetector is the SELL-side mirror of ClusterBuyDetector with
// higher thresholds. Insider selling is routine, so only heavy coordinated
// selling registers.
type BearishClusterDetector struct {
	WindowDays int
	MinActors  int
	MinValue   float64
}

// NewBearishClusterDetector creates a new BearishClusterDetector.
func NewBearishClusterDetector(windowDays, minActors int, minValue float64) *BearishClusterDetector {
	return &BearishClusterDetector{WindowDays: windowDays, MinActors: minActors, MinValue: minValue}
}

// Kind returns the pattern this detector emits.
func (d *BearishClusterDetector) Kind() domain.PatternKind {
	return domain.PatternBearishCluster
}

// Detect returns at most one sell-cluster signal per ticker.
func (d *BearishClusterDetector) Detect(_ context.Context, snap *repository.Snapshot) ([]*domain.Signal, error) {
	return detectClusters(snap, domain.PatternBearishCluster, domain.ClassInsider,
		domain.DirectionSell, d.WindowDays, d.MinActors, d.MinValue, nil), nil
}
