// Package checklist computes the steps shown for a protocol from the
// visitor's answers.
package checklist

import (
	"slices"

	"sepri/internal/domain"
)

// TriggeredOrder is the sort key given to catalog steps that define no order.
const TriggeredOrder = 99

// Catalog maps step ids to the definitions questions may trigger.
type Catalog map[string]domain.Step

// ComputeSteps returns the base steps of p plus every catalog step triggered by
// a "yes" answer, sorted by order. The result is rebuilt from scratch on every
// call, so toggling answers never leaves stale or duplicated steps behind.
// Trigger ids found neither in the base steps nor in the catalog are ignored.
func ComputeSteps(p domain.Protocol, answers domain.Answers, catalog Catalog) []domain.Step {
	steps := make([]domain.Step, 0, len(p.BaseSteps))
	present := make(map[string]struct{}, len(p.BaseSteps))

	for _, s := range p.BaseSteps {
		if _, dup := present[s.ID]; dup {
			continue
		}
		present[s.ID] = struct{}{}
		steps = append(steps, s)
	}

	for _, q := range p.Questions {
		if !answers[q.ID] {
			continue
		}
		for _, id := range q.TriggerSteps {
			if _, ok := present[id]; ok {
				continue
			}
			extra, ok := catalog[id]
			if !ok {
				continue
			}
			if extra.Order == 0 {
				extra.Order = TriggeredOrder
			}
			present[id] = struct{}{}
			steps = append(steps, extra)
		}
	}

	slices.SortStableFunc(steps, func(a, b domain.Step) int {
		return a.Order - b.Order
	})

	return steps
}

// Visible returns the questions a visitor is asked. ComputeSteps itself
// acts on whatever answers it is given.
func Visible(p domain.Protocol) []domain.Question {
	return p.EnabledQuestions()
}

// Triggered returns the ids of steps added on top of the base steps.
func Triggered(p domain.Protocol, steps []domain.Step) []string {
	var ids []string
	for _, s := range steps {
		if _, base := p.Step(s.ID); !base {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
