package repository

import (
	"context"
	"fmt"
	"slices"

	"sepri/internal/defaults"
	"sepri/internal/domain"
)

// Protocols returns every protocol with its base steps sorted by order.
func (r *Repository) Protocols(ctx context.Context) []domain.Protocol {
	protocols, _ := get(ctx, r, domain.KindEvents, defaults.Protocols)
	for i := range protocols {
		sortSteps(protocols[i].BaseSteps)
	}
	return protocols
}

func (r *Repository) SaveProtocols(ctx context.Context, protocols []domain.Protocol) error {
	return save(ctx, r, domain.KindEvents, protocols)
}

func (r *Repository) Protocol(ctx context.Context, id string) (domain.Protocol, error) {
	for _, p := range r.Protocols(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Protocol{}, domain.NotFound("protocol", id)
}

// AddProtocol validates p, gives it an id when it has none and stores it.
func (r *Repository) AddProtocol(ctx context.Context, p domain.Protocol) (domain.Protocol, error) {
	if p.IconName == "" {
		p.IconName = domain.DefaultIcon
	}
	if err := domain.ValidateProtocol(p); err != nil {
		return p, err
	}
	if p.ID == "" {
		p.ID = r.newID()
	}
	p.BaseSteps = slices.Clone(p.BaseSteps)
	renumberSteps(p.BaseSteps)

	protocols := r.Protocols(ctx)
	if slices.ContainsFunc(protocols, func(e domain.Protocol) bool { return e.ID == p.ID }) {
		return p, fmt.Errorf("%w: protocol id %q already exists", domain.ErrValidation, p.ID)
	}

	return p, r.SaveProtocols(ctx, append(protocols, p))
}

// UpdateProtocol replaces a stored protocol as a whole.
func (r *Repository) UpdateProtocol(ctx context.Context, p domain.Protocol) error {
	if err := domain.ValidateProtocol(p); err != nil {
		return err
	}

	protocols := r.Protocols(ctx)
	i := slices.IndexFunc(protocols, func(e domain.Protocol) bool { return e.ID == p.ID })
	if i < 0 {
		return domain.NotFound("protocol", p.ID)
	}
	renumberSteps(p.BaseSteps)
	protocols[i] = p
	return r.SaveProtocols(ctx, protocols)
}

func (r *Repository) RemoveProtocol(ctx context.Context, id string) error {
	protocols := r.Protocols(ctx)
	n := len(protocols)
	protocols = slices.DeleteFunc(protocols, func(p domain.Protocol) bool { return p.ID == id })
	if len(protocols) == n {
		return domain.NotFound("protocol", id)
	}
	return r.SaveProtocols(ctx, protocols)
}

// UpdateProtocolStep adds or replaces one base step. A new step goes after
// the last one; a replaced step keeps its position. Orders are renumbered
// 0..n-1 afterwards.
func (r *Repository) UpdateProtocolStep(ctx context.Context, protocolID string, step domain.Step) (domain.Step, error) {
	if err := domain.ValidateStep(step); err != nil {
		return step, err
	}

	protocols := r.Protocols(ctx)
	pi := slices.IndexFunc(protocols, func(p domain.Protocol) bool { return p.ID == protocolID })
	if pi < 0 {
		return step, domain.NotFound("protocol", protocolID)
	}
	p := &protocols[pi]

	if step.ID == "" {
		step.ID = r.newID()
	}

	if si := slices.IndexFunc(p.BaseSteps, func(s domain.Step) bool { return s.ID == step.ID }); si >= 0 {
		step.Order = p.BaseSteps[si].Order
		p.BaseSteps[si] = step
	} else {
		step.Order = maxOrder(p.BaseSteps) + 1
		p.BaseSteps = append(p.BaseSteps, step)
	}
	renumberSteps(p.BaseSteps)

	stored, _ := p.Step(step.ID)
	return stored, r.SaveProtocols(ctx, protocols)
}

func (r *Repository) RemoveProtocolStep(ctx context.Context, protocolID, stepID string) error {
	protocols := r.Protocols(ctx)
	pi := slices.IndexFunc(protocols, func(p domain.Protocol) bool { return p.ID == protocolID })
	if pi < 0 {
		return domain.NotFound("protocol", protocolID)
	}
	p := &protocols[pi]

	si := slices.IndexFunc(p.BaseSteps, func(s domain.Step) bool { return s.ID == stepID })
	if si < 0 {
		return fmt.Errorf("protocol %s: %w", protocolID, domain.NotFound("step", stepID))
	}
	p.BaseSteps = slices.Delete(p.BaseSteps, si, si+1)
	renumberSteps(p.BaseSteps)

	return r.SaveProtocols(ctx, protocols)
}

func sortSteps(steps []domain.Step) {
	slices.SortStableFunc(steps, func(a, b domain.Step) int { return a.Order - b.Order })
}

func renumberSteps(steps []domain.Step) {
	sortSteps(steps)
	for i := range steps {
		steps[i].Order = i
	}
}

func maxOrder(steps []domain.Step) int {
	m := -1
	for _, s := range steps {
		m = max(m, s.Order)
	}
	return m
}
