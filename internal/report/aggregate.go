package report

// Bucket holds monotonic counts for one summary key.
type Bucket struct {
	Total  int
	Passed int
	Failed int
}

// Summary accumulates buckets in first-seen key order, so reports are
// deterministic for a given case sequence.
type Summary struct {
	order   []string
	buckets map[string]*Bucket
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{buckets: make(map[string]*Bucket)}
}

func (s *Summary) record(key string, outcome Outcome) {
	b, ok := s.buckets[key]
	if !ok {
		b = &Bucket{}
		s.buckets[key] = b
		s.order = append(s.order, key)
	}
	b.Total++
	if outcome == Pass {
		b.Passed++
	} else {
		b.Failed++
	}
}

// Keys returns the summary keys in first-seen order.
func (s *Summary) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Bucket returns the counts for key, or nil if the key was never recorded.
func (s *Summary) Bucket(key string) *Bucket {
	return s.buckets[key]
}

// Aggregator folds case results into the two reporting facets: per
// UseCaseID, and per (UseCaseID, TestCaseID, message type). Each result is
// recorded exactly once; counts only ever grow.
type Aggregator struct {
	byUseCase  *Summary
	byCaseType *Summary

	total  int
	passed int
	failed int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		byUseCase:  NewSummary(),
		byCaseType: NewSummary(),
	}
}

// Record folds one case result into both facets.
func (a *Aggregator) Record(res CaseResult) {
	a.byUseCase.record(res.UseCaseID, res.Outcome)
	a.byCaseType.record(res.UseCaseID+","+res.TestCaseID+","+res.MsgType, res.Outcome)

	a.total++
	if res.Outcome == Pass {
		a.passed++
	} else {
		a.failed++
	}
}

// ByUseCase returns the UseCaseID facet.
func (a *Aggregator) ByUseCase() *Summary { return a.byUseCase }

// ByCaseType returns the (UseCaseID, TestCaseID, type) facet. Keys are the
// three parts comma-joined.
func (a *Aggregator) ByCaseType() *Summary { return a.byCaseType }

// Totals returns the run-wide counts.
func (a *Aggregator) Totals() (total, passed, failed int) {
	return a.total, a.passed, a.failed
}
