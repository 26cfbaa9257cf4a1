package detection

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"

	"honeynet-lab/internal/domain/models"
	"honeynet-lab/pkg/logger"
)

// Classifier scores messages against the pattern library. Classification
// is pure: the same text always yields the same result.
type Classifier struct {
	mu         sync.RWMutex
	logger     *logger.Logger
	patterns   []CategoryPattern
	regexCache map[string]*regexp.Regexp
}

// NewClassifier creates a Classifier over the built-in pattern library.
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{
		logger:     log.WithComponent("classifier"),
		patterns:   categoryPatterns,
		regexCache: make(map[string]*regexp.Regexp),
	}
}

// Classify analyzes a single message for scam indicators. Confidence is
// 0-100; the scam verdict fires at 40 and above. A message whose top
// category score stays below 0.1 gets no category and zero confidence.
func (c *Classifier) Classify(text string) *models.ClassificationResult {
	lower := strings.ToLower(text)

	scores := c.categoryScores(lower)
	urgencyScore, urgencyHits := matchCount(lower, urgencyIndicators, 2)
	sensitiveScore, sensitiveHits := matchCount(lower, sensitiveDataRequests, 2)

	topType, topScore := c.topCategory(scores)

	confidence := math.Min(100, topScore*60+urgencyScore*20+sensitiveScore*20)
	confidence = math.Round(confidence*100) / 100

	isScam := confidence >= 40

	result := &models.ClassificationResult{
		IsScam:                 isScam,
		Confidence:             confidence,
		Indicators:             c.compileIndicators(scores, urgencyHits > 0, sensitiveHits > 0),
		UrgencyDetected:        urgencyHits > 0,
		SensitiveDataRequested: sensitiveHits > 0,
		Scores:                 scores,
	}
	if isScam {
		result.ScamType = topType
	}
	return result
}

// categoryScores scores every category: 60% keyword signal (capped at 3
// hits), 40% regex signal (capped at 2 hits), scaled by category weight
// and rounded to 3 decimals.
func (c *Classifier) categoryScores(lower string) map[models.ScamType]float64 {
	scores := make(map[models.ScamType]float64, len(c.patterns))

	for _, cat := range c.patterns {
		keywordMatches := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				keywordMatches++
			}
		}
		keywordScore := math.Min(1.0, float64(keywordMatches)/3)

		patternMatches := 0
		for _, p := range cat.Patterns {
			re, err := c.compiled(p)
			if err != nil {
				continue
			}
			if re.MatchString(lower) {
				patternMatches++
			}
		}
		patternScore := math.Min(1.0, float64(patternMatches)/2)

		score := (keywordScore*0.6 + patternScore*0.4) * cat.Weight
		scores[cat.Type] = math.Round(score*1000) / 1000
	}

	return scores
}

// topCategory returns the highest scoring category, resolving ties by
// library order. Scores below the 0.1 floor yield no category.
func (c *Classifier) topCategory(scores map[models.ScamType]float64) (models.ScamType, float64) {
	var topType models.ScamType
	topScore := -1.0
	for _, cat := range c.patterns {
		if s := scores[cat.Type]; s > topScore {
			topType = cat.Type
			topScore = s
		}
	}
	if topScore < 0.1 {
		return "", 0
	}
	return topType, topScore
}

// compileIndicators lists categories that scored above the floor in
// descending score order plus the urgency and sensitive-data flags,
// capped at five entries.
func (c *Classifier) compileIndicators(scores map[models.ScamType]float64, urgency, sensitive bool) []string {
	type entry struct {
		t models.ScamType
		s float64
	}
	ordered := make([]entry, 0, len(c.patterns))
	for _, cat := range c.patterns {
		ordered = append(ordered, entry{cat.Type, scores[cat.Type]})
	}
	// Stable insertion sort: equal scores keep library order.
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].s > ordered[j-1].s; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	indicators := []string{}
	for _, e := range ordered {
		if e.s > 0.1 {
			indicators = append(indicators, fmt.Sprintf("%s_patterns", e.t))
		}
	}
	if urgency {
		indicators = append(indicators, "urgency_tactics")
	}
	if sensitive {
		indicators = append(indicators, "sensitive_data_request")
	}
	if len(indicators) > 5 {
		indicators = indicators[:5]
	}
	return indicators
}

// compiled returns a cached case-insensitive regex for the pattern.
func (c *Classifier) compiled(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.regexCache[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		c.logger.Warn().Str("pattern", pattern).Err(err).Msg("invalid detection pattern")
		return nil, err
	}

	c.mu.Lock()
	c.regexCache[pattern] = re
	c.mu.Unlock()
	return re, nil
}

// matchCount counts substring hits from a phrase list and converts the
// count to a 0-1 score capped at the given number of hits.
func matchCount(lower string, phrases []string, limit int) (float64, int) {
	hits := 0
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			hits++
		}
	}
	return math.Min(1.0, float64(hits)/float64(limit)), hits
}
