package csvlate

// Plan summarizes what ProcessRows would do without calling the service.
type Plan struct {
	Rows                 int
	PendingCells         int // Cells that would be sent for translation
	UniqueRequests       int // Distinct (text, language) pairs among them
	SkippedExisting      int
	SkippedSourceInvalid int
}

// HasWork returns true if at least one cell would be translated.
func (p Plan) HasWork() bool {
	return p.PendingCells > 0
}

// PlanRows applies the same filter, tokenization and fill policy as
// ProcessRows and counts the outcome. Rows are not modified.
func PlanRows(rows []Row, schema Schema, preserveExisting, markup bool) Plan {
	rp := &rowProcessor{opts: ProcessOptions{Markup: markup}}
	plan := Plan{Rows: len(rows)}
	seen := make(map[string]bool)

	for _, row := range rows {
		source, _ := row.Get(schema.Source)
		if rp.skippable(source) {
			plan.SkippedSourceInvalid++
			continue
		}

		tokenized, _ := rp.tokenize(source)
		for _, target := range schema.Targets {
			current, present := row.Get(target.Header)
			if !ShouldFill(current, present, preserveExisting) {
				plan.SkippedExisting++
				continue
			}
			plan.PendingCells++

			key := CacheKey(tokenized, target.Lang)
			if !seen[key] {
				seen[key] = true
				plan.UniqueRequests++
			}
		}
	}

	return plan
}

// Add folds other into p.
func (p *Plan) Add(other Plan) {
	p.Rows += other.Rows
	p.PendingCells += other.PendingCells
	p.UniqueRequests += other.UniqueRequests
	p.SkippedExisting += other.SkippedExisting
	p.SkippedSourceInvalid += other.SkippedSourceInvalid
}
