package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNetworkFormed BookmarkType = "network_formed"
	BookmarkTrailCollapse BookmarkType = "trail_collapse"
	BookmarkFoodExhausted BookmarkType = "food_exhausted"
	BookmarkStarvation    BookmarkType = "starvation"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        uint64       `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Thresholds for bookmark detection.
const (
	networkCoverage   = 0.15 // covered fraction that counts as a formed network
	collapseDrop      = 0.5  // trail mass drop from recent peak
	starvationHunger  = 0.1  // mean hunger that counts as starving
	recoveryHunger    = 0.3  // mean hunger that re-arms starvation detection
	minCollapseWindow = 3
)

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	networkFormed  bool
	starving       bool
	lastExhausted  int
	recentMassPeak float64
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minCollapseWindow {
		historySize = minCollapseWindow
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkNetworkFormed(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTrailCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFoodExhausted(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStarvation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.TrailMass > bd.recentMassPeak {
		bd.recentMassPeak = stats.TrailMass
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkNetworkFormed fires once when trail coverage first crosses the network threshold.
func (bd *BookmarkDetector) checkNetworkFormed(stats WindowStats) *Bookmark {
	if bd.networkFormed || stats.TrailCoverage < networkCoverage {
		return nil
	}
	bd.networkFormed = true
	return &Bookmark{
		Type:        BookmarkNetworkFormed,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Trail covers %.0f%% of the field with %d agents", stats.TrailCoverage*100, stats.Agents),
	}
}

// checkTrailCollapse fires when trail mass halves from its recent peak.
func (bd *BookmarkDetector) checkTrailCollapse(stats WindowStats) *Bookmark {
	if len(bd.getHistory()) < minCollapseWindow || bd.recentMassPeak == 0 {
		return nil
	}
	drop := 1 - stats.TrailMass/bd.recentMassPeak
	if drop <= collapseDrop {
		return nil
	}
	oldPeak := bd.recentMassPeak
	bd.recentMassPeak = stats.TrailMass
	bd.networkFormed = false
	return &Bookmark{
		Type:        BookmarkTrailCollapse,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Trail mass fell %.0f%% from %.1f to %.1f", drop*100, oldPeak, stats.TrailMass),
	}
}

// checkFoodExhausted fires when more sources are exhausted than last window.
func (bd *BookmarkDetector) checkFoodExhausted(stats WindowStats) *Bookmark {
	prev := bd.lastExhausted
	bd.lastExhausted = stats.FoodExhausted
	if stats.FoodExhausted <= prev {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFoodExhausted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d food sources exhausted", stats.FoodExhausted, stats.FoodSources),
	}
}

// checkStarvation fires once when mean hunger drops low, and re-arms after recovery.
func (bd *BookmarkDetector) checkStarvation(stats WindowStats) *Bookmark {
	if stats.Agents == 0 {
		return nil
	}
	if bd.starving {
		if stats.HungerMean > recoveryHunger {
			bd.starving = false
		}
		return nil
	}
	if stats.HungerMean >= starvationHunger {
		return nil
	}
	bd.starving = true
	return &Bookmark{
		Type:        BookmarkStarvation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean hunger %.2f across %d agents", stats.HungerMean, stats.Agents),
	}
}
