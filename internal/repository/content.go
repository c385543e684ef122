package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"sepri/internal/defaults"
	"sepri/internal/domain"
)

// DismissedPopupsKey holds popup ids dismissed in this session.
const DismissedPopupsKey = "sepri_dismissed_popups"

func (r *Repository) News(ctx context.Context) []domain.NewsItem {
	news, _ := get(ctx, r, domain.KindNews, defaults.News)
	return news
}

func (r *Repository) SaveNews(ctx context.Context, news []domain.NewsItem) error {
	return save(ctx, r, domain.KindNews, news)
}

// UpsertNews replaces the item with the same id or puts a new one first.
func (r *Repository) UpsertNews(ctx context.Context, item domain.NewsItem) (domain.NewsItem, error) {
	if err := domain.ValidateNews(item); err != nil {
		return item, err
	}
	if item.ID == "" {
		item.ID = r.newID()
	}
	if item.Date == "" {
		item.Date = r.now().Format(time.DateOnly)
	}

	news := r.News(ctx)
	if i := slices.IndexFunc(news, func(n domain.NewsItem) bool { return n.ID == item.ID }); i >= 0 {
		news[i] = item
	} else {
		news = append([]domain.NewsItem{item}, news...)
	}
	return item, r.SaveNews(ctx, news)
}

func (r *Repository) RemoveNews(ctx context.Context, id string) error {
	news := r.News(ctx)
	before := len(news)
	news = slices.DeleteFunc(news, func(n domain.NewsItem) bool { return n.ID == id })
	if len(news) == before {
		return domain.NotFound("news", id)
	}
	return r.SaveNews(ctx, news)
}

func (r *Repository) QuickLinks(ctx context.Context) []domain.QuickLink {
	links, _ := get(ctx, r, domain.KindQuickLinks, defaults.QuickLinks)
	return links
}

func (r *Repository) SaveQuickLinks(ctx context.Context, links []domain.QuickLink) error {
	return save(ctx, r, domain.KindQuickLinks, links)
}

func (r *Repository) UpsertQuickLink(ctx context.Context, link domain.QuickLink) (domain.QuickLink, error) {
	if err := domain.ValidateQuickLink(link); err != nil {
		return link, err
	}
	if link.ID == "" {
		link.ID = r.newID()
	}

	links := r.QuickLinks(ctx)
	if i := slices.IndexFunc(links, func(l domain.QuickLink) bool { return l.ID == link.ID }); i >= 0 {
		links[i] = link
	} else {
		links = append(links, link)
	}
	return link, r.SaveQuickLinks(ctx, links)
}

func (r *Repository) Popups(ctx context.Context) []domain.PopupConfig {
	popups, _ := get(ctx, r, domain.KindPopups, defaults.Popups)
	return popups
}

func (r *Repository) SavePopups(ctx context.Context, popups []domain.PopupConfig) error {
	return save(ctx, r, domain.KindPopups, popups)
}

func (r *Repository) UpsertPopup(ctx context.Context, popup domain.PopupConfig) (domain.PopupConfig, error) {
	if err := domain.ValidatePopup(popup); err != nil {
		return popup, err
	}
	if popup.ID == "" {
		popup.ID = r.newID()
	}

	popups := r.Popups(ctx)
	if i := slices.IndexFunc(popups, func(p domain.PopupConfig) bool { return p.ID == popup.ID }); i >= 0 {
		popups[i] = popup
	} else {
		popups = append(popups, popup)
	}
	return popup, r.SavePopups(ctx, popups)
}

func (r *Repository) TogglePopup(ctx context.Context, id string, enabled bool) error {
	popups := r.Popups(ctx)
	i := slices.IndexFunc(popups, func(p domain.PopupConfig) bool { return p.ID == id })
	if i < 0 {
		return domain.NotFound("popup", id)
	}
	popups[i].IsEnabled = enabled
	return r.SavePopups(ctx, popups)
}

// ActivePopups returns the enabled popups not yet dismissed in this session.
func (r *Repository) ActivePopups(ctx context.Context) []domain.PopupConfig {
	dismissed := r.dismissed(ctx)

	var out []domain.PopupConfig
	for _, p := range r.Popups(ctx) {
		if p.IsEnabled && !slices.Contains(dismissed, p.ID) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Repository) DismissPopup(ctx context.Context, id string) error {
	dismissed := r.dismissed(ctx)
	if slices.Contains(dismissed, id) {
		return nil
	}
	if err := r.cache.Write(ctx, DismissedPopupsKey, append(dismissed, id)); err != nil {
		return fmt.Errorf("dismiss popup %s: %w", id, err)
	}
	return nil
}

// ResetDismissed starts a new session for popup dismissal.
func (r *Repository) ResetDismissed(ctx context.Context) error {
	if err := r.cache.Delete(ctx, DismissedPopupsKey); err != nil {
		return fmt.Errorf("reset dismissed popups: %w", err)
	}
	return nil
}

func (r *Repository) dismissed(ctx context.Context) []string {
	var ids []string
	r.cache.Read(ctx, DismissedPopupsKey, &ids)
	return ids
}

func (r *Repository) Forms(ctx context.Context) []domain.FormTemplate {
	forms, _ := get(ctx, r, domain.KindForms, defaults.Forms)
	return forms
}

func (r *Repository) SaveForms(ctx context.Context, forms []domain.FormTemplate) error {
	return save(ctx, r, domain.KindForms, forms)
}

// FormsForProtocol returns the forms attached to a protocol.
func (r *Repository) FormsForProtocol(ctx context.Context, protocolID string) []domain.FormTemplate {
	var out []domain.FormTemplate
	for _, f := range r.Forms(ctx) {
		if f.EventID == protocolID {
			out = append(out, f)
		}
	}
	return out
}

func (r *Repository) Form(ctx context.Context, id string) (domain.FormTemplate, error) {
	for _, f := range r.Forms(ctx) {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.FormTemplate{}, domain.NotFound("form", id)
}

func (r *Repository) ContactInfo(ctx context.Context) domain.ContactInfo {
	info, _ := get(ctx, r, domain.KindContact, defaults.ContactInfo)
	return info
}

func (r *Repository) SaveContactInfo(ctx context.Context, info domain.ContactInfo) error {
	return save(ctx, r, domain.KindContact, info)
}

// UpsertTeamMember stamps the member for image cache busting. New members
// go last; order stays dense.
func (r *Repository) UpsertTeamMember(ctx context.Context, member domain.TeamMember) (domain.TeamMember, error) {
	if err := domain.ValidateTeamMember(member); err != nil {
		return member, err
	}
	if member.ID == "" {
		member.ID = r.newID()
	}
	member.UpdatedAt = r.now().UnixMilli()

	info := r.ContactInfo(ctx)
	if i := slices.IndexFunc(info.TeamMembers, func(m domain.TeamMember) bool { return m.ID == member.ID }); i >= 0 {
		member.Order = info.TeamMembers[i].Order
		info.TeamMembers[i] = member
	} else {
		member.Order = len(info.TeamMembers)
		info.TeamMembers = append(info.TeamMembers, member)
	}
	renumberMembers(info.TeamMembers)

	for _, m := range info.TeamMembers {
		if m.ID == member.ID {
			member = m
		}
	}
	return member, r.SaveContactInfo(ctx, info)
}

func (r *Repository) RemoveTeamMember(ctx context.Context, id string) error {
	info := r.ContactInfo(ctx)
	i := slices.IndexFunc(info.TeamMembers, func(m domain.TeamMember) bool { return m.ID == id })
	if i < 0 {
		return domain.NotFound("team member", id)
	}
	info.TeamMembers = slices.Delete(info.TeamMembers, i, i+1)
	renumberMembers(info.TeamMembers)
	return r.SaveContactInfo(ctx, info)
}

func renumberMembers(members []domain.TeamMember) {
	slices.SortStableFunc(members, func(a, b domain.TeamMember) int { return a.Order - b.Order })
	for i := range members {
		members[i].Order = i
	}
}
